package events

import "time"

// EventType 이벤트 타입 정의
type EventType string

const (
	// Aftersale Events
	EventAftersaleCreated   EventType = "aftersale.created.v1"
	EventAftersaleConfirmed EventType = "aftersale.confirmed.v1"
	EventAftersaleAccepted  EventType = "aftersale.accepted.v1"
	EventAftersaleProcessed EventType = "aftersale.processed.v1"
	EventAftersaleCancelled EventType = "aftersale.cancelled.v1"

	// Service Order Events
	EventServiceOrderCreated   EventType = "serviceorder.created.v1"
	EventServiceOrderAccepted  EventType = "serviceorder.accepted.v1"
	EventServiceOrderAssigned  EventType = "serviceorder.assigned.v1"
	EventServiceOrderReceived  EventType = "serviceorder.received.v1"
	EventServiceOrderCompleted EventType = "serviceorder.completed.v1"
	EventServiceOrderCancelled EventType = "serviceorder.cancelled.v1"

	// Provider Events
	EventProviderDraftReviewed EventType = "provider.draft_reviewed.v1"

	// Reconciliation Events
	// 외부 사이드 이펙트(운송장/서비스 주문 생성·취소)는 성공했지만 상태 저장이 실패한 경우
	// 운영자가 수동으로 정합성을 맞출 수 있도록 발행
	EventReconciliationRequired EventType = "aftersale.reconciliation_required.v1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	EventID       string    `json:"eventId"`
	EventType     EventType `json:"eventType"`
	SchemaVersion int       `json:"schemaVersion"`
	OccurredAt    time.Time `json:"occurredAt"`
	CorrelationID string    `json:"correlationId"`
}

// AftersaleCreatedEvent AS 주문 생성 이벤트
type AftersaleCreatedEvent struct {
	BaseEvent
	AftersaleID   int64  `json:"aftersaleId"`
	ShopID        int64  `json:"shopId"`
	OrderID       int64  `json:"orderId"`
	CustomerID    int64  `json:"customerId"`
	ProductID     int64  `json:"productId"`
	AftersaleType int    `json:"aftersaleType"`
	Reason        string `json:"reason"`
}

// AftersaleStatusChangedEvent AS 주문 상태 전이 이벤트 (confirm/accept/process/cancel 공통)
type AftersaleStatusChangedEvent struct {
	BaseEvent
	AftersaleID    int64  `json:"aftersaleId"`
	ShopID         int64  `json:"shopId"`
	OrderID        int64  `json:"orderId"`
	AftersaleType  int    `json:"aftersaleType"`
	PreviousStatus string `json:"previousStatus"`
	CurrentStatus  string `json:"currentStatus"`
	Conclusion     string `json:"conclusion,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// ServiceOrderStatusChangedEvent 서비스 주문 상태 전이 이벤트
type ServiceOrderStatusChangedEvent struct {
	BaseEvent
	ServiceOrderID int64  `json:"serviceOrderId"`
	ShopID         int64  `json:"shopId"`
	AftersaleID    int64  `json:"aftersaleId"`
	ServiceType    int    `json:"serviceType"`
	PreviousStatus string `json:"previousStatus"`
	CurrentStatus  string `json:"currentStatus"`
	Reason         string `json:"reason,omitempty"`
}

// ProviderDraftReviewedEvent 서비스 제공사 변경 초안 심사 이벤트
type ProviderDraftReviewedEvent struct {
	BaseEvent
	DraftID    int64  `json:"draftId"`
	ProviderID int64  `json:"providerId"`
	Approved   bool   `json:"approved"`
	Opinion    string `json:"opinion,omitempty"`
}

// ReconciliationRequiredEvent 저장 실패/보상 실패로 수동 정합이 필요한 이벤트
type ReconciliationRequiredEvent struct {
	BaseEvent
	AftersaleID int64  `json:"aftersaleId"`
	ShopID      int64  `json:"shopId"`
	Operation   string `json:"operation"`
	SideEffect  string `json:"sideEffect"`
	Detail      string `json:"detail"`
}
