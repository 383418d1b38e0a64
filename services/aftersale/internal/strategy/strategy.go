package strategy

import (
	"context"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// ConfirmArgs 판매자 심사 인자
type ConfirmArgs struct {
	Approve    bool
	Conclusion string
	// ServiceType 수리 승인 시 생성할 서비스 주문 유형 (방문/택배/기타)
	ServiceType int
}

// AcceptArgs 수령 상품 검수 인자
type AcceptArgs struct {
	Accept     bool
	Conclusion string
}

// ProcessArgs 후처리 인자
type ProcessArgs struct {
	Conclusion string
}

// CancelArgs 고객 취소 인자
type CancelArgs struct {
	Reason string
}

// ConfirmStrategy 유형별 판매자 심사 전략
type ConfirmStrategy interface {
	Confirm(ctx context.Context, order *domain.AftersaleOrder, args ConfirmArgs, comps *Compensations) error
	Supports(t domain.AftersaleType) bool
}

// AcceptStrategy 유형별 수령 검수 전략
type AcceptStrategy interface {
	Accept(ctx context.Context, order *domain.AftersaleOrder, args AcceptArgs, comps *Compensations) error
	Supports(t domain.AftersaleType) bool
}

// ProcessStrategy 유형별 후처리 전략
type ProcessStrategy interface {
	Process(ctx context.Context, order *domain.AftersaleOrder, args ProcessArgs, comps *Compensations) error
	Supports(t domain.AftersaleType) bool
}

// CancelStrategy 유형별 고객 취소 전략
type CancelStrategy interface {
	Cancel(ctx context.Context, order *domain.AftersaleOrder, args CancelArgs, comps *Compensations) error
	Supports(t domain.AftersaleType) bool
}

// Registry 연산 계열 × AS 유형 전략 레지스트리.
// 기동 시점에 한 번 구성되며 이후 변경되지 않는다.
type Registry struct {
	confirm map[domain.AftersaleType]ConfirmStrategy
	accept  map[domain.AftersaleType]AcceptStrategy
	process map[domain.AftersaleType]ProcessStrategy
	cancel  map[domain.AftersaleType]CancelStrategy
}

// NewRegistry 전략 레지스트리 구성.
// 수리 유형은 수령 검수/후처리 단계가 없으므로 accept/process 계열에 등록하지 않는다.
func NewRegistry(logistics client.Logistics, serviceOrders client.ServiceOrders) *Registry {
	shipBackConfirm := NewShipBackConfirm(logistics)
	receiveAccept := NewReceiveAccept(logistics)

	return &Registry{
		confirm: map[domain.AftersaleType]ConfirmStrategy{
			domain.TypeReturn:   shipBackConfirm,
			domain.TypeExchange: shipBackConfirm,
			domain.TypeRepair:   NewRepairConfirm(serviceOrders),
		},
		accept: map[domain.AftersaleType]AcceptStrategy{
			domain.TypeReturn:   receiveAccept,
			domain.TypeExchange: receiveAccept,
		},
		process: map[domain.AftersaleType]ProcessStrategy{
			domain.TypeReturn:   NewRefundProcess(),
			domain.TypeExchange: NewReshipProcess(logistics),
		},
		cancel: map[domain.AftersaleType]CancelStrategy{
			domain.TypeReturn:   NewPackageCancel(logistics),
			domain.TypeExchange: NewPackageCancel(logistics),
			domain.TypeRepair:   NewRepairCancel(serviceOrders),
		},
	}
}

// Confirm 유형에 등록된 심사 전략 조회
func (r *Registry) Confirm(t domain.AftersaleType) (ConfirmStrategy, error) {
	s, ok := r.confirm[t]
	if !ok {
		return nil, unsupportedType("confirm", t)
	}
	return s, nil
}

// Accept 유형에 등록된 검수 전략 조회
func (r *Registry) Accept(t domain.AftersaleType) (AcceptStrategy, error) {
	s, ok := r.accept[t]
	if !ok {
		return nil, unsupportedType("accept", t)
	}
	return s, nil
}

// Process 유형에 등록된 후처리 전략 조회
func (r *Registry) Process(t domain.AftersaleType) (ProcessStrategy, error) {
	s, ok := r.process[t]
	if !ok {
		return nil, unsupportedType("process", t)
	}
	return s, nil
}

// Cancel 유형에 등록된 취소 전략 조회
func (r *Registry) Cancel(t domain.AftersaleType) (CancelStrategy, error) {
	s, ok := r.cancel[t]
	if !ok {
		return nil, unsupportedType("cancel", t)
	}
	return s, nil
}

func unsupportedType(operation string, t domain.AftersaleType) error {
	return apperrors.Newf(apperrors.ErrCodeUnsupportedType,
		"no %s strategy registered for type %s", operation, t)
}
