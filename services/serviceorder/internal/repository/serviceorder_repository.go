package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

// ServiceOrderRepository 서비스 주문 레포지토리 인터페이스
type ServiceOrderRepository interface {
	// Create 서비스 주문 생성, 생성된 ID를 order에 채운다.
	// (shop_id, aftersale_id) 유니크 제약 위반 시 DuplicateRequest
	Create(ctx context.Context, order *domain.ServiceOrder) error
	FindByID(ctx context.Context, shopID, id int64) (*domain.ServiceOrder, error)
	// FindByAftersaleID AS 주문에 연결된 서비스 주문 조회
	FindByAftersaleID(ctx context.Context, shopID, aftersaleID int64) (*domain.ServiceOrder, error)
	Update(ctx context.Context, order *domain.ServiceOrder) error
	// UpdateWithEvent 상태 갱신과 Outbox 이벤트 저장을 한 트랜잭션으로 커밋
	UpdateWithEvent(ctx context.Context, order *domain.ServiceOrder, eventType, partitionKey string, payload []byte) error
}

type serviceOrderRepository struct {
	db     *sql.DB
	outbox OutboxRepository
}

// NewServiceOrderRepository 서비스 주문 레포지토리 생성
func NewServiceOrderRepository(db *sql.DB, outbox OutboxRepository) ServiceOrderRepository {
	return &serviceOrderRepository{db: db, outbox: outbox}
}

// serviceOrderRow service_orders 테이블 레코드
type serviceOrderRow struct {
	ID              int64
	ShopID          int64
	AftersaleID     int64
	CustomerID      int64
	ProductID       int64
	TypeCode        int
	StatusCode      int
	ProviderID      sql.NullInt64
	StaffID         sql.NullInt64
	Consignee       sql.NullString
	Mobile          sql.NullString
	RegionID        int64
	Address         sql.NullString
	Reason          string
	ExpressID       sql.NullInt64
	ReturnExpressID sql.NullInt64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func fromDomain(order *domain.ServiceOrder) *serviceOrderRow {
	row := &serviceOrderRow{
		ID:          order.ID,
		ShopID:      order.ShopID,
		AftersaleID: order.AftersaleID,
		CustomerID:  order.CustomerID,
		ProductID:   order.ProductID,
		TypeCode:    order.Type.Code(),
		StatusCode:  order.Status.Code(),
		RegionID:    order.RegionID,
		Reason:      order.Reason,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.ProviderID != nil {
		row.ProviderID = sql.NullInt64{Int64: *order.ProviderID, Valid: true}
	}
	if order.StaffID != nil {
		row.StaffID = sql.NullInt64{Int64: *order.StaffID, Valid: true}
	}
	if order.Consignee != "" {
		row.Consignee = sql.NullString{String: order.Consignee, Valid: true}
	}
	if order.Mobile != "" {
		row.Mobile = sql.NullString{String: order.Mobile, Valid: true}
	}
	if order.Address != "" {
		row.Address = sql.NullString{String: order.Address, Valid: true}
	}
	if order.ExpressID != nil {
		row.ExpressID = sql.NullInt64{Int64: *order.ExpressID, Valid: true}
	}
	if order.ReturnExpressID != nil {
		row.ReturnExpressID = sql.NullInt64{Int64: *order.ReturnExpressID, Valid: true}
	}
	return row
}

func (row *serviceOrderRow) toDomain() (*domain.ServiceOrder, error) {
	serviceType, err := domain.TypeFromCode(row.TypeCode)
	if err != nil {
		return nil, err
	}
	status, err := domain.StatusFromCode(row.StatusCode)
	if err != nil {
		return nil, err
	}

	order := &domain.ServiceOrder{
		ID:          row.ID,
		ShopID:      row.ShopID,
		AftersaleID: row.AftersaleID,
		CustomerID:  row.CustomerID,
		ProductID:   row.ProductID,
		Type:        serviceType,
		Status:      status,
		RegionID:    row.RegionID,
		Reason:      row.Reason,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.ProviderID.Valid {
		providerID := row.ProviderID.Int64
		order.ProviderID = &providerID
	}
	if row.StaffID.Valid {
		staffID := row.StaffID.Int64
		order.StaffID = &staffID
	}
	if row.Consignee.Valid {
		order.Consignee = row.Consignee.String
	}
	if row.Mobile.Valid {
		order.Mobile = row.Mobile.String
	}
	if row.Address.Valid {
		order.Address = row.Address.String
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

const selectServiceOrderColumns = `
	id, shop_id, aftersale_id, customer_id, product_id, type, status,
	provider_id, staff_id, consignee, mobile, region_id, address, reason,
	express_id, return_express_id, created_at, updated_at
`

func scanServiceOrder(scanner interface{ Scan(...interface{}) error }) (*serviceOrderRow, error) {
	row := &serviceOrderRow{}
	err := scanner.Scan(
		&row.ID,
		&row.ShopID,
		&row.AftersaleID,
		&row.CustomerID,
		&row.ProductID,
		&row.TypeCode,
		&row.StatusCode,
		&row.ProviderID,
		&row.StaffID,
		&row.Consignee,
		&row.Mobile,
		&row.RegionID,
		&row.Address,
		&row.Reason,
		&row.ExpressID,
		&row.ReturnExpressID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Create 서비스 주문 생성
func (r *serviceOrderRepository) Create(ctx context.Context, order *domain.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (shop_id, aftersale_id, customer_id, product_id, type, status, provider_id, staff_id, consignee, mobile, region_id, address, reason, express_id, return_express_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`

	row := fromDomain(order)
	err := r.db.QueryRowContext(
		ctx,
		query,
		row.ShopID,
		row.AftersaleID,
		row.CustomerID,
		row.ProductID,
		row.TypeCode,
		row.StatusCode,
		row.ProviderID,
		row.StaffID,
		row.Consignee,
		row.Mobile,
		row.RegionID,
		row.Address,
		row.Reason,
		row.ExpressID,
		row.ReturnExpressID,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.Wrap(apperrors.ErrCodeDuplicateRequest,
				"service order already exists for aftersale", err)
		}
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to create service order", err)
	}

	return nil
}

// FindByID 샵 스코프로 서비스 주문 조회
func (r *serviceOrderRepository) FindByID(ctx context.Context, shopID, id int64) (*domain.ServiceOrder, error) {
	query := `SELECT ` + selectServiceOrderColumns + ` FROM service_orders WHERE id = $1 AND shop_id = $2`

	row, err := scanServiceOrder(r.db.QueryRowContext(ctx, query, id, shopID))
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order not found: %d", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to find service order", err)
	}

	return row.toDomain()
}

// FindByAftersaleID AS 주문에 연결된 서비스 주문 조회
func (r *serviceOrderRepository) FindByAftersaleID(ctx context.Context, shopID, aftersaleID int64) (*domain.ServiceOrder, error) {
	query := `SELECT ` + selectServiceOrderColumns + ` FROM service_orders WHERE aftersale_id = $1 AND shop_id = $2`

	row, err := scanServiceOrder(r.db.QueryRowContext(ctx, query, aftersaleID, shopID))
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound,
			"service order not found for aftersale: %d", aftersaleID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to find service order", err)
	}

	return row.toDomain()
}

const updateServiceOrderQuery = `
	UPDATE service_orders
	SET status = $1, provider_id = $2, staff_id = $3, consignee = $4, mobile = $5, region_id = $6, address = $7, reason = $8, express_id = $9, return_express_id = $10, updated_at = $11
	WHERE id = $12 AND shop_id = $13
`

// Update 서비스 주문 갱신
func (r *serviceOrderRepository) Update(ctx context.Context, order *domain.ServiceOrder) error {
	row := fromDomain(order)
	result, err := r.db.ExecContext(ctx, updateServiceOrderQuery,
		row.StatusCode, row.ProviderID, row.StaffID, row.Consignee, row.Mobile, row.RegionID,
		row.Address, row.Reason, row.ExpressID, row.ReturnExpressID, row.UpdatedAt, row.ID, row.ShopID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update service order", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to check affected rows", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order vanished during update: %d", order.ID)
	}

	return nil
}

// UpdateWithEvent 상태 갱신과 Outbox 이벤트를 한 트랜잭션으로 커밋
func (r *serviceOrderRepository) UpdateWithEvent(ctx context.Context, order *domain.ServiceOrder, eventType, partitionKey string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	row := fromDomain(order)
	result, err := tx.ExecContext(ctx, updateServiceOrderQuery,
		row.StatusCode, row.ProviderID, row.StaffID, row.Consignee, row.Mobile, row.RegionID,
		row.Address, row.Reason, row.ExpressID, row.ReturnExpressID, row.UpdatedAt, row.ID, row.ShopID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to update service order", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to check affected rows", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order vanished during update: %d", order.ID)
	}

	if err := r.outbox.InsertTx(ctx, tx, eventType, partitionKey, payload); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDatabaseError, "failed to commit transaction", err)
	}

	return nil
}
