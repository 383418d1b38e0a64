package domain

import (
	"time"
)

// ServiceOrder 서비스 주문 엔티티
type ServiceOrder struct {
	ID              int64
	ShopID          int64
	AftersaleID     int64
	CustomerID      int64
	ProductID       int64
	Type            ServiceOrderType
	Status          ServiceOrderStatus
	ProviderID      *int64 // 배정된 서비스 제공사
	StaffID         *int64 // 배정된 수리 기사
	Consignee       string
	Mobile          string
	RegionID        int64
	Address         string
	Reason          string
	ExpressID       *int64 // 고객 → 수리사 방향 운송장 (택배 수리)
	ReturnExpressID *int64 // 수리사 → 고객 방향 운송장
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewServiceOrder 신규 서비스 주문 생성 (PENDING 상태)
func NewServiceOrder(shopID, aftersaleID, customerID, productID int64, serviceType ServiceOrderType, reason string) *ServiceOrder {
	now := time.Now()
	return &ServiceOrder{
		ShopID:      shopID,
		AftersaleID: aftersaleID,
		CustomerID:  customerID,
		ProductID:   productID,
		Type:        serviceType,
		Status:      StatusPending,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- 가드 ---

// RequirePending 접수(accept) 가능 상태인지 검사
func (o *ServiceOrder) RequirePending() error {
	if o.Status != StatusPending {
		return invalidStateError("accept", o.Status)
	}
	return nil
}

// RequireAssignable 기사 배정(assign) 가능 상태인지 검사
func (o *ServiceOrder) RequireAssignable() error {
	if o.Status != StatusToBeAssigned {
		return invalidStateError("assign", o.Status)
	}
	return nil
}

// RequireReceivable 상품 수령 처리(receive) 가능 상태인지 검사
func (o *ServiceOrder) RequireReceivable() error {
	if o.Status != StatusAssigned {
		return invalidStateError("receive", o.Status)
	}
	return nil
}

// RequireReceived 수령 완료 상태인지 검사
func (o *ServiceOrder) RequireReceived() error {
	if o.Status != StatusReceived {
		return invalidStateError("complete", o.Status)
	}
	return nil
}

// RequireAssigned 배정 완료 상태인지 검사
func (o *ServiceOrder) RequireAssigned() error {
	if o.Status != StatusAssigned {
		return invalidStateError("complete", o.Status)
	}
	return nil
}

// RequireCancellable 취소 가능 상태인지 검사
func (o *ServiceOrder) RequireCancellable() error {
	if !o.Status.IsCancellable() {
		return invalidStateError("cancel", o.Status)
	}
	return nil
}

// --- 전이 ---

// Accept 수리사 접수, 기사 배정 대기로 전이
func (o *ServiceOrder) Accept() {
	o.Status = StatusToBeAssigned
	o.UpdatedAt = time.Now()
}

// Reject 접수 거절
func (o *ServiceOrder) Reject(reason string) {
	o.Status = StatusRejected
	o.Reason = reason
	o.UpdatedAt = time.Now()
}

// Assign 서비스 제공사/기사 배정
func (o *ServiceOrder) Assign(providerID, staffID int64) {
	o.Status = StatusAssigned
	o.ProviderID = &providerID
	o.StaffID = &staffID
	o.UpdatedAt = time.Now()
}

// MarkReceived 수리 대상 상품 수령 완료
func (o *ServiceOrder) MarkReceived() {
	o.Status = StatusReceived
	o.UpdatedAt = time.Now()
}

// Complete 수리 완료
func (o *ServiceOrder) Complete() {
	o.Status = StatusCompleted
	o.UpdatedAt = time.Now()
}

// Cancel 취소
func (o *ServiceOrder) Cancel(reason string) {
	o.Status = StatusCancelled
	o.Reason = reason
	o.UpdatedAt = time.Now()
}

// Return 수령 후 취소, 상품 반송
func (o *ServiceOrder) Return(reason string) {
	o.Status = StatusReturned
	o.Reason = reason
	o.UpdatedAt = time.Now()
}

// SetExpressID 고객 → 수리사 운송장 ID 기록
func (o *ServiceOrder) SetExpressID(expressID int64) {
	o.ExpressID = &expressID
	o.UpdatedAt = time.Now()
}

// SetReturnExpressID 수리사 → 고객 운송장 ID 기록
func (o *ServiceOrder) SetReturnExpressID(expressID int64) {
	o.ReturnExpressID = &expressID
	o.UpdatedAt = time.Now()
}

// SetContact 수거/방문 연락처 정보 기록
func (o *ServiceOrder) SetContact(consignee, mobile string, regionID int64, address string) {
	o.Consignee = consignee
	o.Mobile = mobile
	o.RegionID = regionID
	o.Address = address
	o.UpdatedAt = time.Now()
}
