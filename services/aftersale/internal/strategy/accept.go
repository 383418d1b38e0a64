package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// ReceiveAccept 반품/교환 수령 검수 전략.
// 검수 탈락 시 상품을 고객에게 돌려보내는 운송장을 먼저 생성한 뒤 반려한다.
type ReceiveAccept struct {
	logistics client.Logistics
}

// NewReceiveAccept 수령 검수 전략 생성
func NewReceiveAccept(logistics client.Logistics) *ReceiveAccept {
	return &ReceiveAccept{logistics: logistics}
}

func (s *ReceiveAccept) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeReturn || t == domain.TypeExchange
}

func (s *ReceiveAccept) Accept(ctx context.Context, order *domain.AftersaleOrder, args AcceptArgs, comps *Compensations) error {
	if args.Accept {
		order.Accept(args.Conclusion)
		return nil
	}

	packageID, err := s.logistics.CreatePackage(ctx, order.ShopID, client.CreatePackageRequest{
		AftersaleID: order.ID,
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		ProductID:   order.ProductID,
		Inbound:     false,
	})
	if err != nil {
		return err
	}
	comps.Push("cancel return package", func(ctx context.Context) error {
		return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
	})

	order.SetReturnExpressID(packageID)
	order.Reject(args.Conclusion)
	return nil
}
