package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kyungseok/aftersale-msa-go/common/messaging"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/repository"
)

// OutboxWorker Outbox 패턴 워커.
// PENDING 이벤트를 주기적으로 읽어 Kafka로 발행하고 발행 완료 표시한다.
type OutboxWorker struct {
	outboxRepo repository.OutboxRepository
	publisher  messaging.Publisher
	logger     *zap.Logger
	interval   time.Duration
	batchSize  int
}

// NewOutboxWorker Outbox 워커 생성
func NewOutboxWorker(
	outboxRepo repository.OutboxRepository,
	publisher messaging.Publisher,
	logger *zap.Logger,
	interval time.Duration,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
		interval:   interval,
		batchSize:  100,
	}
}

// Start 워커 시작
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := w.process(ctx); err != nil {
				w.logger.Error("failed to process outbox events", zap.Error(err))
			}
		}
	}
}

func (w *OutboxWorker) process(ctx context.Context) error {
	events, err := w.outboxRepo.FindPending(ctx, w.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	w.logger.Info("processing outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := w.publisher.Publish(ctx, event.EventType, event.PartitionKey, json.RawMessage(event.Payload)); err != nil {
			w.logger.Error("failed to publish event",
				zap.Int64("eventId", event.ID),
				zap.String("eventType", event.EventType),
				zap.Error(err))
			continue
		}

		if err := w.outboxRepo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("failed to mark event as sent",
				zap.Int64("eventId", event.ID),
				zap.Error(err))
		}
	}

	return nil
}
