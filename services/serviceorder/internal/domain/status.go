package domain

import (
	"fmt"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

// ServiceOrderStatus 서비스 주문 상태
type ServiceOrderStatus string

const (
	StatusPending      ServiceOrderStatus = "PENDING"        // 수리사 접수 대기
	StatusToBeAssigned ServiceOrderStatus = "TO_BE_ASSIGNED" // 기사 배정 대기
	StatusAssigned     ServiceOrderStatus = "ASSIGNED"       // 기사 배정 완료
	StatusReceived     ServiceOrderStatus = "RECEIVED"       // 수리 대상 상품 수령 (택배 수리)
	StatusRejected     ServiceOrderStatus = "REJECTED"       // 접수 거절
	StatusCompleted    ServiceOrderStatus = "COMPLETED"      // 수리 완료
	StatusCancelled    ServiceOrderStatus = "CANCELLED"      // 취소
	StatusReturned     ServiceOrderStatus = "RETURNED"       // 수령 후 취소, 상품 반송
)

var statusCodes = map[ServiceOrderStatus]int{
	StatusPending:      0,
	StatusToBeAssigned: 1,
	StatusAssigned:     2,
	StatusReceived:     3,
	StatusRejected:     4,
	StatusCompleted:    5,
	StatusCancelled:    6,
	StatusReturned:     7,
}

var statusByCode = map[int]ServiceOrderStatus{
	0: StatusPending,
	1: StatusToBeAssigned,
	2: StatusAssigned,
	3: StatusReceived,
	4: StatusRejected,
	5: StatusCompleted,
	6: StatusCancelled,
	7: StatusReturned,
}

// serviceOrderStatusTransitions 상태 전이 테이블
var serviceOrderStatusTransitions = map[ServiceOrderStatus][]ServiceOrderStatus{
	StatusPending:      {StatusToBeAssigned, StatusRejected, StatusCancelled},
	StatusToBeAssigned: {StatusAssigned, StatusCancelled},
	StatusAssigned:     {StatusReceived, StatusCompleted, StatusCancelled},
	StatusReceived:     {StatusCompleted, StatusReturned},
	StatusRejected:     {},
	StatusCompleted:    {},
	StatusCancelled:    {},
	StatusReturned:     {},
}

// Code 상태의 영속화 코드 반환
func (s ServiceOrderStatus) Code() int {
	return statusCodes[s]
}

// StatusFromCode 영속화 코드로부터 상태 복원
func StatusFromCode(code int) (ServiceOrderStatus, error) {
	status, ok := statusByCode[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrCodeSerializationError,
			"unknown service order status code: %d", code)
	}
	return status, nil
}

// IsTerminal 종결 상태 여부
func (s ServiceOrderStatus) IsTerminal() bool {
	return len(serviceOrderStatusTransitions[s]) == 0
}

// IsCancellable 취소 가능 상태 여부
func (s ServiceOrderStatus) IsCancellable() bool {
	switch s {
	case StatusPending, StatusToBeAssigned, StatusAssigned, StatusReceived:
		return true
	}
	return false
}

// CanTransitionTo 대상 상태로의 전이 허용 여부
func (s ServiceOrderStatus) CanTransitionTo(target ServiceOrderStatus) bool {
	for _, allowed := range serviceOrderStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s ServiceOrderStatus) String() string {
	return string(s)
}

func invalidStateError(operation string, current ServiceOrderStatus) error {
	return apperrors.New(apperrors.ErrCodeStateInvalid,
		fmt.Sprintf("operation %s not allowed in status %s", operation, current))
}
