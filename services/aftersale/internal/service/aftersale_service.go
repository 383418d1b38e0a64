package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/events"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/repository"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/strategy"
)

// AftersaleService AS 주문 오케스트레이터.
// 모든 연산은 조회 → 가드 → 전략 결정 → 전략 실행(외부 호출 선행) → 영속화 순서를 따른다.
type AftersaleService struct {
	repo     repository.AftersaleRepository
	outbox   repository.OutboxRepository
	registry *strategy.Registry
	logger   *zap.Logger
}

// NewAftersaleService AS 주문 서비스 생성
func NewAftersaleService(
	repo repository.AftersaleRepository,
	outbox repository.OutboxRepository,
	registry *strategy.Registry,
	logger *zap.Logger,
) *AftersaleService {
	return &AftersaleService{
		repo:     repo,
		outbox:   outbox,
		registry: registry,
		logger:   logger,
	}
}

// CreateCommand AS 주문 신청 요청
type CreateCommand struct {
	ShopID     int64
	OrderID    int64
	CustomerID int64
	ProductID  int64
	Type       domain.AftersaleType
	Reason     string
}

// Create AS 주문 신청 (PENDING 상태로 생성)
func (s *AftersaleService) Create(ctx context.Context, cmd CreateCommand) (*domain.AftersaleOrder, error) {
	if !cmd.Type.IsValid() {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidRequest, "invalid aftersale type: %s", cmd.Type)
	}
	if cmd.Reason == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "reason is required")
	}

	order := domain.NewAftersaleOrder(cmd.ShopID, cmd.OrderID, cmd.CustomerID, cmd.ProductID, cmd.Type, cmd.Reason)
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	event := events.AftersaleCreatedEvent{
		BaseEvent:     newBaseEvent(events.EventAftersaleCreated),
		AftersaleID:   order.ID,
		ShopID:        order.ShopID,
		OrderID:       order.OrderID,
		CustomerID:    order.CustomerID,
		ProductID:     order.ProductID,
		AftersaleType: order.Type.Code(),
		Reason:        order.Reason,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := s.outbox.Insert(ctx, string(events.EventAftersaleCreated), partitionKey(order.ID), payload); err != nil {
			s.logger.Warn("failed to enqueue created event", zap.Int64("aftersaleId", order.ID), zap.Error(err))
		}
	}

	s.logger.Info("aftersale order created",
		zap.Int64("aftersaleId", order.ID),
		zap.Int64("shopId", order.ShopID),
		zap.String("type", order.Type.String()))
	return order, nil
}

// Get AS 주문 조회
func (s *AftersaleService) Get(ctx context.Context, shopID, id int64) (*domain.AftersaleOrder, error) {
	return s.repo.FindByID(ctx, shopID, id)
}

// Confirm 판매자 심사 (PENDING에서만 허용)
func (s *AftersaleService) Confirm(ctx context.Context, shopID, id int64, args strategy.ConfirmArgs) (domain.AftersaleStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequirePending(); err != nil {
		return "", err
	}

	confirmStrategy, err := s.registry.Confirm(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "confirm"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := confirmStrategy.Confirm(ctx, order, args, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "confirm", order, prev, events.EventAftersaleConfirmed, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Accept 수령 상품 검수 (TO_BE_RECEIVED에서만 허용)
func (s *AftersaleService) Accept(ctx context.Context, shopID, id int64, args strategy.AcceptArgs) (domain.AftersaleStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequireToBeReceived(); err != nil {
		return "", err
	}

	acceptStrategy, err := s.registry.Accept(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "accept"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := acceptStrategy.Accept(ctx, order, args, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "accept", order, prev, events.EventAftersaleAccepted, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Process 후처리 (RECEIVED에서만 허용)
func (s *AftersaleService) Process(ctx context.Context, shopID, id int64, args strategy.ProcessArgs) (domain.AftersaleStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequireReceived(); err != nil {
		return "", err
	}

	processStrategy, err := s.registry.Process(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "process"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := processStrategy.Process(ctx, order, args, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "process", order, prev, events.EventAftersaleProcessed, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Cancel 고객 취소 (TO_BE_RECEIVED / TO_BE_COMPLETED에서만 허용)
func (s *AftersaleService) Cancel(ctx context.Context, shopID, id int64, args strategy.CancelArgs) (domain.AftersaleStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequireCancellable(); err != nil {
		return "", err
	}

	cancelStrategy, err := s.registry.Cancel(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "cancel"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := cancelStrategy.Cancel(ctx, order, args, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "cancel", order, prev, events.EventAftersaleCancelled, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// CompleteRepair 서비스 주문 완료 이벤트를 받아 수리 AS 주문을 완료 처리
func (s *AftersaleService) CompleteRepair(ctx context.Context, shopID, id int64, conclusion string) (domain.AftersaleStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequireToBeCompleted(); err != nil {
		return "", err
	}

	prev := order.Status
	order.Complete(conclusion)

	if err := s.persistTransition(ctx, "complete-repair", order, prev, events.EventAftersaleProcessed, &strategy.Compensations{}); err != nil {
		return "", err
	}
	return order.Status, nil
}

// persistTransition 상태 전이를 Outbox 이벤트와 함께 영속화.
// 외부 사이드 이펙트가 이미 성공한 뒤 영속화가 실패하면 보상 동작을 실행하고,
// 보상까지 실패한 사이드 이펙트는 정합성 경보 이벤트로 남긴다.
func (s *AftersaleService) persistTransition(
	ctx context.Context,
	operation string,
	order *domain.AftersaleOrder,
	previous domain.AftersaleStatus,
	eventType events.EventType,
	comps *strategy.Compensations,
) error {
	event := events.AftersaleStatusChangedEvent{
		BaseEvent:      newBaseEvent(eventType),
		AftersaleID:    order.ID,
		ShopID:         order.ShopID,
		OrderID:        order.OrderID,
		AftersaleType:  order.Type.Code(),
		PreviousStatus: previous.String(),
		CurrentStatus:  order.Status.String(),
		Conclusion:     order.Conclusion,
		Reason:         order.Reason,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSerializationError, "failed to marshal status event", err)
	}

	if err := s.repo.UpdateWithEvent(ctx, order, string(eventType), partitionKey(order.ID), payload); err != nil {
		s.compensate(ctx, operation, order, comps, err)
		return err
	}

	s.logger.Info("aftersale transition persisted",
		zap.Int64("aftersaleId", order.ID),
		zap.String("operation", operation),
		zap.String("previousStatus", previous.String()),
		zap.String("currentStatus", order.Status.String()))
	return nil
}

// compensate 영속화 실패 시 쌓인 보상 동작을 역순 실행하고 실패분을 정합성 경보로 남긴다
func (s *AftersaleService) compensate(ctx context.Context, operation string, order *domain.AftersaleOrder, comps *strategy.Compensations, cause error) {
	s.logger.Error("persist failed after external side effects",
		zap.Int64("aftersaleId", order.ID),
		zap.String("operation", operation),
		zap.Error(cause))

	if comps.Empty() {
		return
	}

	failed := comps.RunAll(ctx, s.logger)
	for _, name := range failed {
		alert := events.ReconciliationRequiredEvent{
			BaseEvent:   newBaseEvent(events.EventReconciliationRequired),
			AftersaleID: order.ID,
			ShopID:      order.ShopID,
			Operation:   operation,
			SideEffect:  name,
			Detail:      cause.Error(),
		}
		payload, err := json.Marshal(alert)
		if err != nil {
			continue
		}
		if err := s.outbox.Insert(ctx, string(events.EventReconciliationRequired), partitionKey(order.ID), payload); err != nil {
			// 경보 적재조차 실패하면 로그가 마지막 수단
			s.logger.Error("reconciliation required, alert enqueue failed",
				zap.Int64("aftersaleId", order.ID),
				zap.String("operation", operation),
				zap.String("sideEffect", name),
				zap.Error(err))
		}
	}
}

func newBaseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		SchemaVersion: 1,
		OccurredAt:    time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

func partitionKey(aftersaleID int64) string {
	return strconv.FormatInt(aftersaleID, 10)
}
