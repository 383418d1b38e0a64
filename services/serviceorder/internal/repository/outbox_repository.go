package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

// OutboxEvent Outbox 테이블 레코드
type OutboxEvent struct {
	ID           int64
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string
	CreatedAt    time.Time
}

// OutboxRepository Outbox 레포지토리 인터페이스
type OutboxRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, eventType, partitionKey string, payload []byte) error
	Insert(ctx context.Context, eventType, partitionKey string, payload []byte) error
	FindPending(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkSent(ctx context.Context, id int64) error
}

type outboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository Outbox 레포지토리 생성
func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

const insertOutboxQuery = `
	INSERT INTO outbox_events (event_type, partition_key, payload, status, created_at)
	VALUES ($1, $2, $3, 'PENDING', NOW())
`

func (r *outboxRepository) InsertTx(ctx context.Context, tx *sql.Tx, eventType, partitionKey string, payload []byte) error {
	if _, err := tx.ExecContext(ctx, insertOutboxQuery, eventType, partitionKey, payload); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to insert outbox event", err)
	}
	return nil
}

func (r *outboxRepository) Insert(ctx context.Context, eventType, partitionKey string, payload []byte) error {
	if _, err := r.db.ExecContext(ctx, insertOutboxQuery, eventType, partitionKey, payload); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to insert outbox event", err)
	}
	return nil
}

func (r *outboxRepository) FindPending(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `
		SELECT id, event_type, partition_key, payload, status, created_at
		FROM outbox_events
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to query outbox events", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		event := &OutboxEvent{}
		if err := rows.Scan(&event.ID, &event.EventType, &event.PartitionKey, &event.Payload, &event.Status, &event.CreatedAt); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to scan outbox event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to iterate outbox events", err)
	}

	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET status = 'SENT', sent_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to mark outbox event as sent", err)
	}
	return nil
}
