package strategy

import (
	"context"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

// AssignArgs 기사 배정 인자
type AssignArgs struct {
	ProviderID int64
	StaffID    int64
}

// CancelArgs 취소 인자
type CancelArgs struct {
	Reason string
}

// AcceptStrategy 유형별 접수 전략
type AcceptStrategy interface {
	Accept(ctx context.Context, order *domain.ServiceOrder, comps *Compensations) error
	Supports(t domain.ServiceOrderType) bool
}

// AssignStrategy 유형별 기사 배정 전략
type AssignStrategy interface {
	Assign(ctx context.Context, order *domain.ServiceOrder, args AssignArgs, comps *Compensations) error
	Supports(t domain.ServiceOrderType) bool
}

// CompleteStrategy 유형별 수리 완료 전략.
// 완료 가능 상태가 유형마다 다르므로 (택배: RECEIVED, 방문: ASSIGNED) 가드도 전략이 담당한다.
type CompleteStrategy interface {
	Complete(ctx context.Context, order *domain.ServiceOrder, comps *Compensations) error
	Supports(t domain.ServiceOrderType) bool
}

// CancelStrategy 유형별 취소 전략
type CancelStrategy interface {
	Cancel(ctx context.Context, order *domain.ServiceOrder, args CancelArgs, comps *Compensations) error
	Supports(t domain.ServiceOrderType) bool
}

// Registry 연산 계열 × 서비스 주문 유형 전략 레지스트리.
// 기타(OTHER) 유형은 자동 처리 전략이 없어 어떤 계열에도 등록하지 않는다.
type Registry struct {
	accept   map[domain.ServiceOrderType]AcceptStrategy
	assign   map[domain.ServiceOrderType]AssignStrategy
	complete map[domain.ServiceOrderType]CompleteStrategy
	cancel   map[domain.ServiceOrderType]CancelStrategy
}

// NewRegistry 전략 레지스트리 구성
func NewRegistry(logistics client.Logistics) *Registry {
	return &Registry{
		accept: map[domain.ServiceOrderType]AcceptStrategy{
			domain.TypeMailInRepair: NewMailInAccept(),
			domain.TypeOnsiteRepair: NewOnsiteAccept(),
		},
		assign: map[domain.ServiceOrderType]AssignStrategy{
			domain.TypeMailInRepair: NewMailInAssign(logistics),
			domain.TypeOnsiteRepair: NewOnsiteAssign(),
		},
		complete: map[domain.ServiceOrderType]CompleteStrategy{
			domain.TypeMailInRepair: NewMailInComplete(logistics),
			domain.TypeOnsiteRepair: NewOnsiteComplete(),
		},
		cancel: map[domain.ServiceOrderType]CancelStrategy{
			domain.TypeMailInRepair: NewMailInCancel(logistics),
			domain.TypeOnsiteRepair: NewOnsiteCancel(),
		},
	}
}

// Accept 유형에 등록된 접수 전략 조회
func (r *Registry) Accept(t domain.ServiceOrderType) (AcceptStrategy, error) {
	s, ok := r.accept[t]
	if !ok {
		return nil, unsupportedType("accept", t)
	}
	return s, nil
}

// Assign 유형에 등록된 배정 전략 조회
func (r *Registry) Assign(t domain.ServiceOrderType) (AssignStrategy, error) {
	s, ok := r.assign[t]
	if !ok {
		return nil, unsupportedType("assign", t)
	}
	return s, nil
}

// Complete 유형에 등록된 완료 전략 조회
func (r *Registry) Complete(t domain.ServiceOrderType) (CompleteStrategy, error) {
	s, ok := r.complete[t]
	if !ok {
		return nil, unsupportedType("complete", t)
	}
	return s, nil
}

// Cancel 유형에 등록된 취소 전략 조회
func (r *Registry) Cancel(t domain.ServiceOrderType) (CancelStrategy, error) {
	s, ok := r.cancel[t]
	if !ok {
		return nil, unsupportedType("cancel", t)
	}
	return s, nil
}

func unsupportedType(operation string, t domain.ServiceOrderType) error {
	return apperrors.Newf(apperrors.ErrCodeUnsupportedType,
		"no %s strategy registered for type %s", operation, t)
}
