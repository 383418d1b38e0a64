package client

import "context"

// CreatePackageRequest 운송장 생성 요청
type CreatePackageRequest struct {
	AftersaleID int64 `json:"aftersaleId"`
	OrderID     int64 `json:"orderId"`
	CustomerID  int64 `json:"customerId"`
	ProductID   int64 `json:"productId"`
	Inbound     bool  `json:"inbound"` // true: 고객 → 판매자 방향
}

// CreateServiceOrderRequest 서비스 주문 생성 요청
type CreateServiceOrderRequest struct {
	CustomerID  int64  `json:"customerId"`
	ProductID   int64  `json:"productId"`
	ServiceType int    `json:"serviceType"`
	Reason      string `json:"reason"`
}

// Logistics 물류 협력 서비스 클라이언트
type Logistics interface {
	// CreatePackage 운송장 생성, 생성된 운송장 ID 반환
	CreatePackage(ctx context.Context, shopID int64, req CreatePackageRequest) (int64, error)
	// CancelPackage 운송장 취소
	CancelPackage(ctx context.Context, shopID int64, packageID int64) error
}

// ServiceOrders 수리 서비스 주문 협력 서비스 클라이언트
type ServiceOrders interface {
	// CreateServiceOrder AS 주문에 연결된 서비스 주문 생성, 생성된 ID 반환
	CreateServiceOrder(ctx context.Context, shopID, aftersaleID int64, req CreateServiceOrderRequest) (int64, error)
	// CancelServiceOrder AS 주문에 연결된 서비스 주문 취소
	CancelServiceOrder(ctx context.Context, shopID, aftersaleID int64, reason string) error
}
