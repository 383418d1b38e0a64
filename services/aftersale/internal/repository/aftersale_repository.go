package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// AftersaleRepository AS 주문 레포지토리 인터페이스
type AftersaleRepository interface {
	// Create AS 주문 생성, 생성된 ID를 order에 채운다
	Create(ctx context.Context, order *domain.AftersaleOrder) error
	// FindByID 샵 스코프로 AS 주문 조회
	FindByID(ctx context.Context, shopID, id int64) (*domain.AftersaleOrder, error)
	// Update 상태/결론/운송장 갱신. 대상 행이 사라졌으면 NotFound
	Update(ctx context.Context, order *domain.AftersaleOrder) error
	// UpdateWithEvent 상태 갱신과 Outbox 이벤트 저장을 한 트랜잭션으로 커밋
	UpdateWithEvent(ctx context.Context, order *domain.AftersaleOrder, eventType, partitionKey string, payload []byte) error
}

type aftersaleRepository struct {
	db     *sql.DB
	outbox OutboxRepository
}

// NewAftersaleRepository AS 주문 레포지토리 생성
func NewAftersaleRepository(db *sql.DB, outbox OutboxRepository) AftersaleRepository {
	return &aftersaleRepository{db: db, outbox: outbox}
}

// aftersaleRow aftersale_orders 테이블 레코드
type aftersaleRow struct {
	ID              int64
	ShopID          int64
	OrderID         int64
	CustomerID      int64
	ProductID       int64
	TypeCode        int
	StatusCode      int
	Reason          string
	Conclusion      sql.NullString
	ExpressID       sql.NullInt64
	ReturnExpressID sql.NullInt64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func fromDomain(order *domain.AftersaleOrder) *aftersaleRow {
	row := &aftersaleRow{
		ID:         order.ID,
		ShopID:     order.ShopID,
		OrderID:    order.OrderID,
		CustomerID: order.CustomerID,
		ProductID:  order.ProductID,
		TypeCode:   order.Type.Code(),
		StatusCode: order.Status.Code(),
		Reason:     order.Reason,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.Conclusion != "" {
		row.Conclusion = sql.NullString{String: order.Conclusion, Valid: true}
	}
	if order.ExpressID != nil {
		row.ExpressID = sql.NullInt64{Int64: *order.ExpressID, Valid: true}
	}
	if order.ReturnExpressID != nil {
		row.ReturnExpressID = sql.NullInt64{Int64: *order.ReturnExpressID, Valid: true}
	}
	return row
}

func (row *aftersaleRow) toDomain() (*domain.AftersaleOrder, error) {
	aftersaleType, err := domain.TypeFromCode(row.TypeCode)
	if err != nil {
		return nil, err
	}
	status, err := domain.StatusFromCode(row.StatusCode)
	if err != nil {
		return nil, err
	}

	order := &domain.AftersaleOrder{
		ID:         row.ID,
		ShopID:     row.ShopID,
		OrderID:    row.OrderID,
		CustomerID: row.CustomerID,
		ProductID:  row.ProductID,
		Type:       aftersaleType,
		Status:     status,
		Reason:     row.Reason,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Conclusion.Valid {
		order.Conclusion = row.Conclusion.String
	}
	if row.ExpressID.Valid {
		expressID := row.ExpressID.Int64
		order.ExpressID = &expressID
	}
	if row.ReturnExpressID.Valid {
		returnExpressID := row.ReturnExpressID.Int64
		order.ReturnExpressID = &returnExpressID
	}
	return order, nil
}

// Create AS 주문 생성
func (r *aftersaleRepository) Create(ctx context.Context, order *domain.AftersaleOrder) error {
	query := `
		INSERT INTO aftersale_orders (shop_id, order_id, customer_id, product_id, type, status, reason, conclusion, express_id, return_express_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	row := fromDomain(order)
	err := r.db.QueryRowContext(
		ctx,
		query,
		row.ShopID,
		row.OrderID,
		row.CustomerID,
		row.ProductID,
		row.TypeCode,
		row.StatusCode,
		row.Reason,
		row.Conclusion,
		row.ExpressID,
		row.ReturnExpressID,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to create aftersale order", err)
	}

	return nil
}

// FindByID 샵 스코프로 AS 주문 조회
func (r *aftersaleRepository) FindByID(ctx context.Context, shopID, id int64) (*domain.AftersaleOrder, error) {
	query := `
		SELECT id, shop_id, order_id, customer_id, product_id, type, status, reason, conclusion, express_id, return_express_id, created_at, updated_at
		FROM aftersale_orders
		WHERE id = $1 AND shop_id = $2
	`

	row := &aftersaleRow{}
	err := r.db.QueryRowContext(ctx, query, id, shopID).Scan(
		&row.ID,
		&row.ShopID,
		&row.OrderID,
		&row.CustomerID,
		&row.ProductID,
		&row.TypeCode,
		&row.StatusCode,
		&row.Reason,
		&row.Conclusion,
		&row.ExpressID,
		&row.ReturnExpressID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrCodeAftersaleNotFound, "aftersale order not found: %d", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to find aftersale order", err)
	}

	return row.toDomain()
}

const updateAftersaleQuery = `
	UPDATE aftersale_orders
	SET status = $1, conclusion = $2, express_id = $3, return_express_id = $4, updated_at = $5
	WHERE id = $6 AND shop_id = $7
`

// Update AS 주문 상태 갱신
func (r *aftersaleRepository) Update(ctx context.Context, order *domain.AftersaleOrder) error {
	row := fromDomain(order)
	result, err := r.db.ExecContext(ctx, updateAftersaleQuery,
		row.StatusCode, row.Conclusion, row.ExpressID, row.ReturnExpressID, row.UpdatedAt, row.ID, row.ShopID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update aftersale order", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to check affected rows", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.ErrCodeAftersaleNotFound, "aftersale order vanished during update: %d", order.ID)
	}

	return nil
}

// UpdateWithEvent 상태 갱신과 Outbox 이벤트를 한 트랜잭션으로 커밋
func (r *aftersaleRepository) UpdateWithEvent(ctx context.Context, order *domain.AftersaleOrder, eventType, partitionKey string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	row := fromDomain(order)
	result, err := tx.ExecContext(ctx, updateAftersaleQuery,
		row.StatusCode, row.Conclusion, row.ExpressID, row.ReturnExpressID, row.UpdatedAt, row.ID, row.ShopID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update aftersale order", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to check affected rows", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.ErrCodeAftersaleNotFound, "aftersale order vanished during update: %d", order.ID)
	}

	if err := r.outbox.InsertTx(ctx, tx, eventType, partitionKey, payload); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to commit transaction", err)
	}

	return nil
}
