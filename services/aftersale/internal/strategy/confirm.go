package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// ShipBackConfirm 반품/교환 심사 전략.
// 승인 시 고객 → 판매자 운송장을 먼저 생성한 뒤 수령 대기 상태로 전이한다.
type ShipBackConfirm struct {
	logistics client.Logistics
}

// NewShipBackConfirm 반품/교환 심사 전략 생성
func NewShipBackConfirm(logistics client.Logistics) *ShipBackConfirm {
	return &ShipBackConfirm{logistics: logistics}
}

func (s *ShipBackConfirm) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeReturn || t == domain.TypeExchange
}

func (s *ShipBackConfirm) Confirm(ctx context.Context, order *domain.AftersaleOrder, args ConfirmArgs, comps *Compensations) error {
	if !args.Approve {
		order.Reject(args.Conclusion)
		return nil
	}

	packageID, err := s.logistics.CreatePackage(ctx, order.ShopID, client.CreatePackageRequest{
		AftersaleID: order.ID,
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		ProductID:   order.ProductID,
		Inbound:     true,
	})
	if err != nil {
		return err
	}
	comps.Push("cancel inbound package", func(ctx context.Context) error {
		return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
	})

	order.SetExpressID(packageID)
	order.ApproveToReceive(args.Conclusion)
	return nil
}

// RepairConfirm 수리 심사 전략.
// 승인 시 서비스 주문을 먼저 생성한 뒤 완료 대기 상태로 전이한다.
type RepairConfirm struct {
	serviceOrders client.ServiceOrders
}

// NewRepairConfirm 수리 심사 전략 생성
func NewRepairConfirm(serviceOrders client.ServiceOrders) *RepairConfirm {
	return &RepairConfirm{serviceOrders: serviceOrders}
}

func (s *RepairConfirm) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeRepair
}

func (s *RepairConfirm) Confirm(ctx context.Context, order *domain.AftersaleOrder, args ConfirmArgs, comps *Compensations) error {
	if !args.Approve {
		order.Reject(args.Conclusion)
		return nil
	}

	_, err := s.serviceOrders.CreateServiceOrder(ctx, order.ShopID, order.ID, client.CreateServiceOrderRequest{
		CustomerID:  order.CustomerID,
		ProductID:   order.ProductID,
		ServiceType: args.ServiceType,
		Reason:      order.Reason,
	})
	if err != nil {
		return err
	}
	comps.Push("cancel service order", func(ctx context.Context) error {
		return s.serviceOrders.CancelServiceOrder(ctx, order.ShopID, order.ID, "compensate confirm failure")
	})

	order.ApproveToComplete(args.Conclusion)
	return nil
}
