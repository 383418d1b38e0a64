package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// PackageCancel 반품/교환 고객 취소 전략.
// 발급된 고객 → 판매자 운송장이 있으면 먼저 취소한 뒤 취소 전이한다.
// 운송장 취소는 되돌릴 수 없으므로 보상 동작은 쌓지 않는다.
type PackageCancel struct {
	logistics client.Logistics
}

// NewPackageCancel 반품/교환 취소 전략 생성
func NewPackageCancel(logistics client.Logistics) *PackageCancel {
	return &PackageCancel{logistics: logistics}
}

func (s *PackageCancel) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeReturn || t == domain.TypeExchange
}

func (s *PackageCancel) Cancel(ctx context.Context, order *domain.AftersaleOrder, _ CancelArgs, _ *Compensations) error {
	if order.ExpressID != nil {
		if err := s.logistics.CancelPackage(ctx, order.ShopID, *order.ExpressID); err != nil {
			return err
		}
	}
	order.Cancel()
	return nil
}

// RepairCancel 수리 고객 취소 전략.
// 연결된 서비스 주문을 정확히 한 번 취소한 뒤 취소 전이한다.
type RepairCancel struct {
	serviceOrders client.ServiceOrders
}

// NewRepairCancel 수리 취소 전략 생성
func NewRepairCancel(serviceOrders client.ServiceOrders) *RepairCancel {
	return &RepairCancel{serviceOrders: serviceOrders}
}

func (s *RepairCancel) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeRepair
}

func (s *RepairCancel) Cancel(ctx context.Context, order *domain.AftersaleOrder, args CancelArgs, _ *Compensations) error {
	if err := s.serviceOrders.CancelServiceOrder(ctx, order.ShopID, order.ID, args.Reason); err != nil {
		return err
	}
	order.Cancel()
	return nil
}
