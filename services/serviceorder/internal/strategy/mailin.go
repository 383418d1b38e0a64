package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

// MailInAccept 택배 수리 접수 전략
type MailInAccept struct{}

// NewMailInAccept 택배 수리 접수 전략 생성
func NewMailInAccept() *MailInAccept {
	return &MailInAccept{}
}

func (s *MailInAccept) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeMailInRepair
}

func (s *MailInAccept) Accept(_ context.Context, order *domain.ServiceOrder, _ *Compensations) error {
	order.Accept()
	return nil
}

// MailInAssign 택배 수리 배정 전략.
// 고객 → 수리사 방향 수거 운송장을 먼저 생성한 뒤 배정 전이한다.
type MailInAssign struct {
	logistics client.Logistics
}

// NewMailInAssign 택배 수리 배정 전략 생성
func NewMailInAssign(logistics client.Logistics) *MailInAssign {
	return &MailInAssign{logistics: logistics}
}

func (s *MailInAssign) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeMailInRepair
}

func (s *MailInAssign) Assign(ctx context.Context, order *domain.ServiceOrder, args AssignArgs, comps *Compensations) error {
	packageID, err := s.logistics.CreatePackage(ctx, order.ShopID, client.CreatePackageRequest{
		ServiceOrderID: order.ID,
		CustomerID:     order.CustomerID,
		ProductID:      order.ProductID,
		Consignee:      order.Consignee,
		Mobile:         order.Mobile,
		RegionID:       order.RegionID,
		Address:        order.Address,
		Inbound:        true,
	})
	if err != nil {
		return err
	}
	comps.Push("cancel pickup package", func(ctx context.Context) error {
		return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
	})

	order.SetExpressID(packageID)
	order.Assign(args.ProviderID, args.StaffID)
	return nil
}

// MailInComplete 택배 수리 완료 전략.
// 상품 수령(RECEIVED) 이후에만 완료할 수 있으며, 수리된 상품을 고객에게
// 돌려보내는 운송장을 먼저 생성한 뒤 완료 전이한다.
type MailInComplete struct {
	logistics client.Logistics
}

// NewMailInComplete 택배 수리 완료 전략 생성
func NewMailInComplete(logistics client.Logistics) *MailInComplete {
	return &MailInComplete{logistics: logistics}
}

func (s *MailInComplete) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeMailInRepair
}

func (s *MailInComplete) Complete(ctx context.Context, order *domain.ServiceOrder, comps *Compensations) error {
	if err := order.RequireReceived(); err != nil {
		return err
	}

	packageID, err := s.logistics.CreatePackage(ctx, order.ShopID, client.CreatePackageRequest{
		ServiceOrderID: order.ID,
		CustomerID:     order.CustomerID,
		ProductID:      order.ProductID,
		Consignee:      order.Consignee,
		Mobile:         order.Mobile,
		RegionID:       order.RegionID,
		Address:        order.Address,
		Inbound:        false,
	})
	if err != nil {
		return err
	}
	comps.Push("cancel delivery package", func(ctx context.Context) error {
		return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
	})

	order.SetReturnExpressID(packageID)
	order.Complete()
	return nil
}

// MailInCancel 택배 수리 취소 전략.
// 이미 수령한 상품은 반송 운송장을 먼저 생성한 뒤 반송(RETURNED) 전이하고,
// 수거 중인 운송장이 있으면 먼저 취소한 뒤 취소 전이한다.
type MailInCancel struct {
	logistics client.Logistics
}

// NewMailInCancel 택배 수리 취소 전략 생성
func NewMailInCancel(logistics client.Logistics) *MailInCancel {
	return &MailInCancel{logistics: logistics}
}

func (s *MailInCancel) Supports(t domain.ServiceOrderType) bool {
	return t == domain.TypeMailInRepair
}

func (s *MailInCancel) Cancel(ctx context.Context, order *domain.ServiceOrder, args CancelArgs, comps *Compensations) error {
	if order.Status == domain.StatusReceived {
		packageID, err := s.logistics.CreatePackage(ctx, order.ShopID, client.CreatePackageRequest{
			ServiceOrderID: order.ID,
			CustomerID:     order.CustomerID,
			ProductID:      order.ProductID,
			Consignee:      order.Consignee,
			Mobile:         order.Mobile,
			RegionID:       order.RegionID,
			Address:        order.Address,
			Inbound:        false,
		})
		if err != nil {
			return err
		}
		comps.Push("cancel return package", func(ctx context.Context) error {
			return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
		})

		order.SetReturnExpressID(packageID)
		order.Return(args.Reason)
		return nil
	}

	if order.ExpressID != nil {
		if err := s.logistics.CancelPackage(ctx, order.ShopID, *order.ExpressID); err != nil {
			return err
		}
	}
	order.Cancel(args.Reason)
	return nil
}
