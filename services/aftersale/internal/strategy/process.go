package strategy

import (
	"context"

	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// RefundProcess 반품 후처리 전략.
// 환불 정산은 결제 파이프라인이 완료 이벤트를 구독해 처리하므로 외부 호출 없이 완료 전이만 수행한다.
type RefundProcess struct{}

// NewRefundProcess 반품 후처리 전략 생성
func NewRefundProcess() *RefundProcess {
	return &RefundProcess{}
}

func (s *RefundProcess) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeReturn
}

func (s *RefundProcess) Process(_ context.Context, order *domain.AftersaleOrder, args ProcessArgs, _ *Compensations) error {
	order.Complete(args.Conclusion)
	return nil
}

// ReshipProcess 교환 후처리 전략.
// 교환 상품을 고객에게 발송하는 운송장을 먼저 생성한 뒤 완료 전이한다.
type ReshipProcess struct {
	logistics client.Logistics
}

// NewReshipProcess 교환 후처리 전략 생성
func NewReshipProcess(logistics client.Logistics) *ReshipProcess {
	return &ReshipProcess{logistics: logistics}
}

func (s *ReshipProcess) Supports(t domain.AftersaleType) bool {
	return t == domain.TypeExchange
}

func (s *ReshipProcess) Process(ctx context.Context, order *domain.AftersaleOrder, args ProcessArgs, comps *Compensations) error {
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
	comps.Push("cancel outbound package", func(ctx context.Context) error {
		return s.logistics.CancelPackage(ctx, order.ShopID, packageID)
	})

	order.SetReturnExpressID(packageID)
	order.Complete(args.Conclusion)
	return nil
}
