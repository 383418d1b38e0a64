package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

// OnsiteAccept 방문 수리 접수 전략
type OnsiteAccept struct{}

// NewOnsiteAccept 방문 수리 접수 전략 생성
func NewOnsiteAccept() *OnsiteAccept {
	return &OnsiteAccept{}
}

func (s *OnsiteAccept) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeOnsiteRepair
}

func (s *OnsiteAccept) Accept(_ context.Context, order *domain.ServiceOrder, _ *Compensations) error {
	order.Accept()
	return nil
}

// OnsiteAssign 방문 수리 배정 전략. 물류 사이드 이펙트가 없다.
type OnsiteAssign struct{}

// NewOnsiteAssign 방문 수리 배정 전략 생성
func NewOnsiteAssign() *OnsiteAssign {
	return &OnsiteAssign{}
}

func (s *OnsiteAssign) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeOnsiteRepair
}

func (s *OnsiteAssign) Assign(_ context.Context, order *domain.ServiceOrder, args AssignArgs, _ *Compensations) error {
	order.Assign(args.ProviderID, args.StaffID)
	return nil
}

// OnsiteComplete 방문 수리 완료 전략. 배정(ASSIGNED) 상태에서 바로 완료한다.
type OnsiteComplete struct{}

// NewOnsiteComplete 방문 수리 완료 전략 생성
func NewOnsiteComplete() *OnsiteComplete {
	return &OnsiteComplete{}
}

func (s *OnsiteComplete) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeOnsiteRepair
}

func (s *OnsiteComplete) Complete(_ context.Context, order *domain.ServiceOrder, _ *Compensations) error {
	if err := order.RequireAssigned(); err != nil {
		return err
	}
	order.Complete()
	return nil
}

// OnsiteCancel 방문 수리 취소 전략. 물류 사이드 이펙트가 없다.
type OnsiteCancel struct{}

// NewOnsiteCancel 방문 수리 취소 전략 생성
func NewOnsiteCancel() *OnsiteCancel {
	return &OnsiteCancel{}
}

func (s *OnsiteCancel) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeOnsiteRepair
}

func (s *OnsiteCancel) Cancel(_ context.Context, order *domain.ServiceOrder, args CancelArgs, _ *Compensations) error {
	order.Cancel(args.Reason)
	return nil
}
