package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

// ProviderRepository 서비스 제공사 레포지토리 인터페이스
type ProviderRepository interface {
	FindProvider(ctx context.Context, id int64) (*domain.ServiceProvider, error)
	CreateDraft(ctx context.Context, draft *domain.ServiceProviderDraft) error
	FindDraft(ctx context.Context, id int64) (*domain.ServiceProviderDraft, error)
	ListDraftsByProvider(ctx context.Context, providerID int64) ([]*domain.ServiceProviderDraft, error)
	// SaveReview 초안 심사 결과와 (승인 시) 제공사 반영을 한 트랜잭션으로 커밋
	SaveReview(ctx context.Context, draft *domain.ServiceProviderDraft, provider *domain.ServiceProvider) error
}

type providerRepository struct {
	db *sql.DB
}

// NewProviderRepository 서비스 제공사 레포지토리 생성
func NewProviderRepository(db *sql.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// FindProvider 제공사 조회
func (r *providerRepository) FindProvider(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	query := `
		SELECT id, name, contact, address, created_at, updated_at
		FROM service_providers
		WHERE id = $1
	`

	provider := &domain.ServiceProvider{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&provider.ID,
		&provider.Name,
		&provider.Contact,
		&provider.Address,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrCodeProviderNotFound, "service provider not found: %d", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to find service provider", err)
	}

	return provider, nil
}

// CreateDraft 변경 초안 생성
func (r *providerRepository) CreateDraft(ctx context.Context, draft *domain.ServiceProviderDraft) error {
	query := `
		INSERT INTO service_provider_drafts (provider_id, name, contact, address, status, opinion, created_at, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var reviewedAt sql.NullTime
	if draft.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *draft.ReviewedAt, Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		draft.ProviderID,
		draft.Name,
		draft.Contact,
		draft.Address,
		draft.Status.Code(),
		draft.Opinion,
		draft.CreatedAt,
		reviewedAt,
	).Scan(&draft.ID)

	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to create provider draft", err)
	}

	return nil
}

type draftRow struct {
	ID         int64
	ProviderID int64
	Name       string
	Contact    string
	Address    string
	StatusCode int
	Opinion    sql.NullString
	CreatedAt  time.Time
	ReviewedAt sql.NullTime
}

func (row *draftRow) toDomain() (*domain.ServiceProviderDraft, error) {
	status, err := domain.DraftStatusFromCode(row.StatusCode)
	if err != nil {
		return nil, err
	}

	draft := &domain.ServiceProviderDraft{
		ID:         row.ID,
		ProviderID: row.ProviderID,
		Name:       row.Name,
		Contact:    row.Contact,
		Address:    row.Address,
		Status:     status,
		CreatedAt:  row.CreatedAt,
	}
	if row.Opinion.Valid {
		draft.Opinion = row.Opinion.String
	}
	if row.ReviewedAt.Valid {
		reviewedAt := row.ReviewedAt.Time
		draft.ReviewedAt = &reviewedAt
	}
	return draft, nil
}

// FindDraft 변경 초안 조회
func (r *providerRepository) FindDraft(ctx context.Context, id int64) (*domain.ServiceProviderDraft, error) {
	query := `
		SELECT id, provider_id, name, contact, address, status, opinion, created_at, reviewed_at
		FROM service_provider_drafts
		WHERE id = $1
	`

	row := &draftRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.ProviderID,
		&row.Name,
		&row.Contact,
		&row.Address,
		&row.StatusCode,
		&row.Opinion,
		&row.CreatedAt,
		&row.ReviewedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrCodeDraftNotFound, "provider draft not found: %d", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to find provider draft", err)
	}

	return row.toDomain()
}

// ListDraftsByProvider 제공사의 초안 이력 조회 (최신순)
func (r *providerRepository) ListDraftsByProvider(ctx context.Context, providerID int64) ([]*domain.ServiceProviderDraft, error) {
	query := `
		SELECT id, provider_id, name, contact, address, status, opinion, created_at, reviewed_at
		FROM service_provider_drafts
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to query provider drafts", err)
	}
	defer rows.Close()

	var drafts []*domain.ServiceProviderDraft
	for rows.Next() {
		row := &draftRow{}
		if err := rows.Scan(
			&row.ID,
			&row.ProviderID,
			&row.Name,
			&row.Contact,
			&row.Address,
			&row.StatusCode,
			&row.Opinion,
			&row.CreatedAt,
			&row.ReviewedAt,
		); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to scan provider draft", err)
		}
		draft, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to iterate provider drafts", err)
	}

	return drafts, nil
}

// SaveReview 초안 심사 결과 저장. 승인된 경우 제공사 정보 반영도 같은 트랜잭션으로 커밋한다.
func (r *providerRepository) SaveReview(ctx context.Context, draft *domain.ServiceProviderDraft, provider *domain.ServiceProvider) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var reviewedAt sql.NullTime
	if draft.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *draft.ReviewedAt, Valid: true}
	}

	updateDraft := `
		UPDATE service_provider_drafts
		SET status = $1, opinion = $2, reviewed_at = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, updateDraft, draft.Status.Code(), draft.Opinion, reviewedAt, draft.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update provider draft", err)
	}

	if provider != nil {
		updateProvider := `
			UPDATE service_providers
			SET name = $1, contact = $2, address = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, updateProvider, provider.Name, provider.Contact, provider.Address, provider.UpdatedAt, provider.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update service provider", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to commit transaction", err)
	}

	return nil
}
