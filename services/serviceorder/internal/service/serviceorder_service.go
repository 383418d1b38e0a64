package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/events"
	"github.com/kyungseok/aftersale-msa-go/common/idempotency"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/repository"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/strategy"
)

const createIdempotencyTTL = 24 * time.Hour

// ServiceOrderService 서비스 주문 오케스트레이터
type ServiceOrderService struct {
	repo      repository.ServiceOrderRepository
	outbox    repository.OutboxRepository
	registry  *strategy.Registry
	idemStore idempotency.Store
	logger    *zap.Logger
}

// NewServiceOrderService 서비스 주문 서비스 생성
func NewServiceOrderService(
	repo repository.ServiceOrderRepository,
	outbox repository.OutboxRepository,
	registry *strategy.Registry,
	idemStore idempotency.Store,
	logger *zap.Logger,
) *ServiceOrderService {
	return &ServiceOrderService{
		repo:      repo,
		outbox:    outbox,
		registry:  registry,
		idemStore: idemStore,
		logger:    logger,
	}
}

// CreateCommand 서비스 주문 생성 요청 (AS 서비스의 내부 호출)
type CreateCommand struct {
	ShopID      int64
	AftersaleID int64
	CustomerID  int64
	ProductID   int64
	Type        domain.ServiceOrderType
	Reason      string
}

// CreateForAftersale AS 주문에 연결된 서비스 주문 생성.
// AS 서비스가 재시도해도 안전하도록 (shop, aftersale) 단위로 멱등하다.
func (s *ServiceOrderService) CreateForAftersale(ctx context.Context, cmd CreateCommand) (*domain.ServiceOrder, error) {
	if !cmd.Type.IsValid() {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidRequest, "invalid service order type: %s", cmd.Type)
	}

	key := fmt.Sprintf("create:%d:%d", cmd.ShopID, cmd.AftersaleID)
	reserved, err := s.idemStore.Reserve(ctx, key, createIdempotencyTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeExternalService, "failed to reserve idempotency key", err)
	}
	if !reserved {
		// 이미 처리된 요청: 기존 주문 반환
		existing, err := s.repo.FindByAftersaleID(ctx, cmd.ShopID, cmd.AftersaleID)
		if err == nil {
			s.logger.Info("duplicate create request, returning existing service order",
				zap.Int64("aftersaleId", cmd.AftersaleID),
				zap.Int64("serviceOrderId", existing.ID))
			return existing, nil
		}
		// 키는 잡혔지만 주문이 없는 중간 상태면 키를 풀고 충돌로 응답
		if releaseErr := s.idemStore.Release(ctx, key); releaseErr != nil {
			s.logger.Error("failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, apperrors.Newf(apperrors.ErrCodeDuplicateRequest,
			"service order creation in progress for aftersale %d", cmd.AftersaleID)
	}

	order := domain.NewServiceOrder(cmd.ShopID, cmd.AftersaleID, cmd.CustomerID, cmd.ProductID, cmd.Type, cmd.Reason)
	if err := s.repo.Create(ctx, order); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeDuplicateRequest) {
			// 유니크 제약이 최종 방어선 (Redis 키 만료 이후의 재시도)
			return s.repo.FindByAftersaleID(ctx, cmd.ShopID, cmd.AftersaleID)
		}
		if releaseErr := s.idemStore.Release(ctx, key); releaseErr != nil {
			s.logger.Error("failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, err
	}

	event := events.ServiceOrderStatusChangedEvent{
		BaseEvent:      newBaseEvent(events.EventServiceOrderCreated),
		ServiceOrderID: order.ID,
		ShopID:         order.ShopID,
		AftersaleID:    order.AftersaleID,
		ServiceType:    order.Type.Code(),
		PreviousStatus: "",
		CurrentStatus:  order.Status.String(),
		Reason:         order.Reason,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := s.outbox.Insert(ctx, string(events.EventServiceOrderCreated), partitionKey(order.ID), payload); err != nil {
			s.logger.Warn("failed to enqueue created event", zap.Int64("serviceOrderId", order.ID), zap.Error(err))
		}
	}

	s.logger.Info("service order created",
		zap.Int64("serviceOrderId", order.ID),
		zap.Int64("aftersaleId", order.AftersaleID),
		zap.String("type", order.Type.String()))
	return order, nil
}

// Get 서비스 주문 조회
func (s *ServiceOrderService) Get(ctx context.Context, shopID, id int64) (*domain.ServiceOrder, error) {
	return s.repo.FindByID(ctx, shopID, id)
}

// Accept 수리사 접수 (PENDING에서만 허용). 거절 시 REJECTED로 전이한다.
func (s *ServiceOrderService) Accept(ctx context.Context, shopID, id int64, approve bool, reason string) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequirePending(); err != nil {
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}

	if !approve {
		order.Reject(reason)
	} else {
		acceptStrategy, err := s.registry.Accept(order.Type)
		if err != nil {
			s.logger.Error("strategy registry miss", zap.String("operation", "accept"), zap.String("type", order.Type.String()))
			return "", err
		}
		if err := acceptStrategy.Accept(ctx, order, comps); err != nil {
			return "", err
		}
	}

	if err := s.persistTransition(ctx, "accept", order, prev, events.EventServiceOrderAccepted, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Assign 서비스 제공사/기사 배정 (TO_BE_ASSIGNED에서만 허용)
func (s *ServiceOrderService) Assign(ctx context.Context, shopID, id int64, args strategy.AssignArgs) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if err := order.RequireAssignable(); err != nil {
		return "", err
	}

	assignStrategy, err := s.registry.Assign(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "assign"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := assignStrategy.Assign(ctx, order, args, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "assign", order, prev, events.EventServiceOrderAssigned, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// MarkReceived 수리 대상 상품 수령 처리 (택배 수리, ASSIGNED에서만 허용)
func (s *ServiceOrderService) MarkReceived(ctx context.Context, shopID, id int64) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	if order.Type != domain.TypeMailInRepair {
		return "", apperrors.Newf(apperrors.ErrCodeUnsupportedType,
			"receive not supported for type %s", order.Type)
	}
	if err := order.RequireReceivable(); err != nil {
		return "", err
	}

	prev := order.Status
	order.MarkReceived()

	if err := s.persistTransition(ctx, "receive", order, prev, events.EventServiceOrderReceived, &strategy.Compensations{}); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Complete 수리 완료. 완료 가능 상태는 유형별 전략이 검사한다.
func (s *ServiceOrderService) Complete(ctx context.Context, shopID, id int64) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}

	completeStrategy, err := s.registry.Complete(order.Type)
	if err != nil {
		s.logger.Error("strategy registry miss", zap.String("operation", "complete"), zap.String("type", order.Type.String()))
		return "", err
	}

	prev := order.Status
	comps := &strategy.Compensations{}
	if err := completeStrategy.Complete(ctx, order, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "complete", order, prev, events.EventServiceOrderCompleted, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// Cancel 서비스 주문 취소
func (s *ServiceOrderService) Cancel(ctx context.Context, shopID, id int64, reason string) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByID(ctx, shopID, id)
	if err != nil {
		return "", err
	}
	return s.cancelOrder(ctx, order, reason)
}

// CancelByAftersale AS 서비스의 내부 취소 요청.
// 이미 취소/반송된 주문이면 재시도로 간주하고 성공으로 응답한다.
func (s *ServiceOrderService) CancelByAftersale(ctx context.Context, shopID, aftersaleID int64, reason string) (domain.ServiceOrderStatus, error) {
	order, err := s.repo.FindByAftersaleID(ctx, shopID, aftersaleID)
	if err != nil {
		return "", err
	}
	if order.Status == domain.StatusCancelled || order.Status == domain.StatusReturned {
		s.logger.Info("service order already cancelled",
			zap.Int64("aftersaleId", aftersaleID),
			zap.Int64("serviceOrderId", order.ID))
		return order.Status, nil
	}
	return s.cancelOrder(ctx, order, reason)
}

func (s *ServiceOrderService) cancelOrder(ctx context.Context, order *domain.ServiceOrder, reason string) (domain.ServiceOrderStatus, error) {
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
	if err := cancelStrategy.Cancel(ctx, order, strategy.CancelArgs{Reason: reason}, comps); err != nil {
		return "", err
	}

	if err := s.persistTransition(ctx, "cancel", order, prev, events.EventServiceOrderCancelled, comps); err != nil {
		return "", err
	}
	return order.Status, nil
}

// persistTransition 상태 전이를 Outbox 이벤트와 함께 영속화.
// 영속화 실패 시 보상 동작을 실행하고 실패분은 정합성 경보로 남긴다.
func (s *ServiceOrderService) persistTransition(
	ctx context.Context,
	operation string,
	order *domain.ServiceOrder,
	previous domain.ServiceOrderStatus,
	eventType events.EventType,
	comps *strategy.Compensations,
) error {
	event := events.ServiceOrderStatusChangedEvent{
		BaseEvent:      newBaseEvent(eventType),
		ServiceOrderID: order.ID,
		ShopID:         order.ShopID,
		AftersaleID:    order.AftersaleID,
		ServiceType:    order.Type.Code(),
		PreviousStatus: previous.String(),
		CurrentStatus:  order.Status.String(),
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

	s.logger.Info("service order transition persisted",
		zap.Int64("serviceOrderId", order.ID),
		zap.String("operation", operation),
		zap.String("previousStatus", previous.String()),
		zap.String("currentStatus", order.Status.String()))
	return nil
}

func (s *ServiceOrderService) compensate(ctx context.Context, operation string, order *domain.ServiceOrder, comps *strategy.Compensations, cause error) {
	s.logger.Error("persist failed after external side effects",
		zap.Int64("serviceOrderId", order.ID),
		zap.String("operation", operation),
		zap.Error(cause))

	if comps.Empty() {
		return
	}

	failed := comps.RunAll(ctx, s.logger)
	for _, name := range failed {
		alert := events.ReconciliationRequiredEvent{
			BaseEvent:   newBaseEvent(events.EventReconciliationRequired),
			AftersaleID: order.AftersaleID,
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
			s.logger.Error("reconciliation required, alert enqueue failed",
				zap.Int64("serviceOrderId", order.ID),
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

func partitionKey(serviceOrderID int64) string {
	return strconv.FormatInt(serviceOrderID, 10)
}
