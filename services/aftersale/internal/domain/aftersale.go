package domain

import (
	"time"
)

// AftersaleOrder AS 주문 엔티티
type AftersaleOrder struct {
	ID              int64
	ShopID          int64
	OrderID         int64
	CustomerID      int64
	ProductID       int64
	Type            AftersaleType
	Status          AftersaleStatus
	Reason          string // 고객이 제출한 신청 사유
	Conclusion      string // 판매자 심사/처리 의견
	ExpressID       *int64 // 고객 → 판매자 방향 운송장 ID
	ReturnExpressID *int64 // 판매자 → 고객 방향 운송장 ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAftersaleOrder 신규 AS 주문 생성 (PENDING 상태)
func NewAftersaleOrder(shopID, orderID, customerID, productID int64, aftersaleType AftersaleType, reason string) *AftersaleOrder {
	now := time.Now()
	return &AftersaleOrder{
		ShopID:     shopID,
		OrderID:    orderID,
		CustomerID: customerID,
		ProductID:  productID,
		Type:       aftersaleType,
		Status:     StatusPending,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// --- 가드: 전이 없이 현재 상태에서 연산 허용 여부만 검사 ---

// RequirePending 판매자 심사(confirm) 가능 상태인지 검사
func (a *AftersaleOrder) RequirePending() error {
	if a.Status != StatusPending {
		return invalidStateError("confirm", a.Status)
	}
	return nil
}

// RequireToBeReceived 수령 판정(accept) 가능 상태인지 검사
func (a *AftersaleOrder) RequireToBeReceived() error {
	if a.Status != StatusToBeReceived {
		return invalidStateError("accept", a.Status)
	}
	return nil
}

// RequireReceived 후처리(process) 가능 상태인지 검사
func (a *AftersaleOrder) RequireReceived() error {
	if a.Status != StatusReceived {
		return invalidStateError("process", a.Status)
	}
	return nil
}

// RequireToBeCompleted 수리 완료 반영 가능 상태인지 검사
func (a *AftersaleOrder) RequireToBeCompleted() error {
	if a.Status != StatusToBeCompleted {
		return invalidStateError("complete", a.Status)
	}
	return nil
}

// RequireCancellable 고객 취소(cancel) 가능 상태인지 검사
func (a *AftersaleOrder) RequireCancellable() error {
	if !a.Status.IsCancellable() {
		return invalidStateError("cancel", a.Status)
	}
	return nil
}

// --- 전이: 가드를 통과한 이후에만 호출. 상태/결론/수정시각을 무조건 변경 ---

// ApproveToReceive 심사 승인, 고객 발송 상품 수령 대기로 전이 (반품/교환)
func (a *AftersaleOrder) ApproveToReceive(conclusion string) {
	a.Status = StatusToBeReceived
	a.Conclusion = conclusion
	a.UpdatedAt = time.Now()
}

// ApproveToComplete 심사 승인, 완료 대기로 전이 (수리)
func (a *AftersaleOrder) ApproveToComplete(conclusion string) {
	a.Status = StatusToBeCompleted
	a.Conclusion = conclusion
	a.UpdatedAt = time.Now()
}

// Accept 수령 상품 검수 통과, 수령 완료로 전이
func (a *AftersaleOrder) Accept(conclusion string) {
	a.Status = StatusReceived
	a.Conclusion = conclusion
	a.UpdatedAt = time.Now()
}

// Reject 반려로 전이
func (a *AftersaleOrder) Reject(conclusion string) {
	a.Status = StatusRejected
	a.Conclusion = conclusion
	a.UpdatedAt = time.Now()
}

// Complete 완료로 전이
func (a *AftersaleOrder) Complete(conclusion string) {
	a.Status = StatusCompleted
	a.Conclusion = conclusion
	a.UpdatedAt = time.Now()
}

// Cancel 고객 취소로 전이
func (a *AftersaleOrder) Cancel() {
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now()
}

// SetExpressID 고객 → 판매자 운송장 ID 기록
func (a *AftersaleOrder) SetExpressID(expressID int64) {
	a.ExpressID = &expressID
	a.UpdatedAt = time.Now()
}

// SetReturnExpressID 판매자 → 고객 운송장 ID 기록
func (a *AftersaleOrder) SetReturnExpressID(expressID int64) {
	a.ReturnExpressID = &expressID
	a.UpdatedAt = time.Now()
}
