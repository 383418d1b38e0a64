package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/events"
	"github.com/kyungseok/aftersale-msa-go/common/idempotency"
	"github.com/kyungseok/aftersale-msa-go/common/messaging"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/service"
)

const idempotencyTTL = 24 * time.Hour

// EventHandler 서비스 주문 이벤트 구독 핸들러.
// 수리 서비스 주문이 완료되면 해당 AS 주문을 완료 처리한다.
type EventHandler struct {
	service *service.AftersaleService
	store   idempotency.Store
	logger  *zap.Logger
}

// NewEventHandler 이벤트 핸들러 생성
func NewEventHandler(service *service.AftersaleService, store idempotency.Store, logger *zap.Logger) *EventHandler {
	return &EventHandler{service: service, store: store, logger: logger}
}

// Topics 구독 대상 토픽 목록
func (h *EventHandler) Topics() []string {
	return []string{string(events.EventServiceOrderCompleted)}
}

// Handle Kafka 메시지 처리
func (h *EventHandler) Handle(ctx context.Context, msg *messaging.Message) error {
	var event events.ServiceOrderStatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("failed to unmarshal service order event",
			zap.String("topic", msg.Topic),
			zap.Error(err))
		return nil // 파싱 불가 메시지는 재처리해도 소용없다
	}

	// 이벤트 단위 멱등성: 동일 이벤트 재전달 시 스킵
	key := fmt.Sprintf("serviceorder-completed:%s", event.EventID)
	reserved, err := h.store.Reserve(ctx, key, idempotencyTTL)
	if err != nil {
		return err
	}
	if !reserved {
		h.logger.Info("duplicate event skipped", zap.String("eventId", event.EventID))
		return nil
	}

	_, err = h.service.CompleteRepair(ctx, event.ShopID, event.AftersaleID, "repair service completed")
	if err != nil {
		// 이미 종결된 주문이면 정상 (이벤트 재전달 등)
		if apperrors.HasCode(err, apperrors.ErrCodeStateInvalid) || apperrors.HasCode(err, apperrors.ErrCodeAftersaleNotFound) {
			h.logger.Warn("repair completion skipped",
				zap.Int64("aftersaleId", event.AftersaleID),
				zap.Error(err))
			return nil
		}
		// 일시 오류는 키를 해제해 재처리 허용
		if releaseErr := h.store.Release(ctx, key); releaseErr != nil {
			h.logger.Error("failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return err
	}

	h.logger.Info("repair aftersale completed",
		zap.Int64("aftersaleId", event.AftersaleID),
		zap.Int64("serviceOrderId", event.ServiceOrderID))
	return nil
}
