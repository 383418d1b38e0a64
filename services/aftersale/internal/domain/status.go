package domain

import (
	"fmt"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

// AftersaleStatus AS 주문 상태
type AftersaleStatus string

const (
	StatusPending       AftersaleStatus = "PENDING"         // 판매자 심사 대기
	StatusToBeReceived  AftersaleStatus = "TO_BE_RECEIVED"  // 고객 발송 상품 수령 대기
	StatusToBeCompleted AftersaleStatus = "TO_BE_COMPLETED" // 수리 완료 대기
	StatusReceived      AftersaleStatus = "RECEIVED"        // 상품 수령 완료
	StatusRejected      AftersaleStatus = "REJECTED"        // 반려
	StatusCompleted     AftersaleStatus = "COMPLETED"       // 완료
	StatusCancelled     AftersaleStatus = "CANCELLED"       // 고객 취소
)

// 상태별 영속화 코드. 한번 저장된 코드는 변경하지 않는다.
var statusCodes = map[AftersaleStatus]int{
	StatusPending:       0,
	StatusToBeReceived:  1,
	StatusToBeCompleted: 2,
	StatusReceived:      3,
	StatusRejected:      4,
	StatusCompleted:     5,
	StatusCancelled:     6,
}

var statusByCode = map[int]AftersaleStatus{
	0: StatusPending,
	1: StatusToBeReceived,
	2: StatusToBeCompleted,
	3: StatusReceived,
	4: StatusRejected,
	5: StatusCompleted,
	6: StatusCancelled,
}

// aftersaleStatusTransitions 상태 전이 테이블
var aftersaleStatusTransitions = map[AftersaleStatus][]AftersaleStatus{
	StatusPending:       {StatusToBeReceived, StatusToBeCompleted, StatusRejected},
	StatusToBeReceived:  {StatusReceived, StatusRejected, StatusCancelled},
	StatusToBeCompleted: {StatusCompleted, StatusRejected, StatusCancelled},
	StatusReceived:      {StatusCompleted},
	StatusRejected:      {},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// Code 상태의 영속화 코드 반환
func (s AftersaleStatus) Code() int {
	return statusCodes[s]
}

// StatusFromCode 영속화 코드로부터 상태 복원
func StatusFromCode(code int) (AftersaleStatus, error) {
	status, ok := statusByCode[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrCodeSerializationError,
			"unknown aftersale status code: %d", code)
	}
	return status, nil
}

// IsTerminal 종결 상태 여부 (이후 어떤 전이도 불가)
func (s AftersaleStatus) IsTerminal() bool {
	return len(aftersaleStatusTransitions[s]) == 0
}

// IsCancellable 고객 취소 가능 상태 여부
func (s AftersaleStatus) IsCancellable() bool {
	return s == StatusToBeReceived || s == StatusToBeCompleted
}

// CanTransitionTo 대상 상태로의 전이 허용 여부
func (s AftersaleStatus) CanTransitionTo(target AftersaleStatus) bool {
	for _, allowed := range aftersaleStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s AftersaleStatus) String() string {
	return string(s)
}

func invalidStateError(operation string, current AftersaleStatus) error {
	return apperrors.New(apperrors.ErrCodeStateInvalid,
		fmt.Sprintf("operation %s not allowed in status %s", operation, current))
}
