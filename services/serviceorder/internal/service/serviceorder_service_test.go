package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/idempotency"
	"github.com/kyungseok/aftersale-msa-go/common/logger"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/repository"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/strategy"
)

// fakeRepo 인메모리 서비스 주문 저장소
type fakeRepo struct {
	orders    map[int64]domain.ServiceOrder
	nextID    int64
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int64]domain.ServiceOrder), nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, order *domain.ServiceOrder) error {
	for _, existing := range r.orders {
		if existing.ShopID == order.ShopID && existing.AftersaleID == order.AftersaleID {
			return apperrors.New(apperrors.ErrCodeDuplicateRequest, "service order already exists for aftersale")
		}
	}
	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, shopID, id int64) (*domain.ServiceOrder, error) {
	stored, ok := r.orders[id]
	if !ok || stored.ShopID != shopID {
		return nil, apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order not found: %d", id)
	}
	copied := stored
	return &copied, nil
}

func (r *fakeRepo) FindByAftersaleID(_ context.Context, shopID, aftersaleID int64) (*domain.ServiceOrder, error) {
	for _, stored := range r.orders {
		if stored.ShopID == shopID && stored.AftersaleID == aftersaleID {
			copied := stored
			return &copied, nil
		}
	}
	return nil, apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order not found for aftersale: %d", aftersaleID)
}

func (r *fakeRepo) Update(_ context.Context, order *domain.ServiceOrder) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.orders[order.ID]; !ok {
		return apperrors.Newf(apperrors.ErrCodeServiceOrderNotFound, "service order vanished during update: %d", order.ID)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeRepo) UpdateWithEvent(ctx context.Context, order *domain.ServiceOrder, _, _ string, _ []byte) error {
	return r.Update(ctx, order)
}

type outboxStub struct {
	inserted []string
}

func (o *outboxStub) InsertTx(_ context.Context, _ *sql.Tx, eventType, _ string, _ []byte) error {
	o.inserted = append(o.inserted, eventType)
	return nil
}

func (o *outboxStub) Insert(_ context.Context, eventType, _ string, _ []byte) error {
	o.inserted = append(o.inserted, eventType)
	return nil
}

func (o *outboxStub) FindPending(_ context.Context, _ int) ([]*repository.OutboxEvent, error) {
	return nil, nil
}

func (o *outboxStub) MarkSent(_ context.Context, _ int64) error {
	return nil
}

type mockLogistics struct {
	createCalls int
	cancelCalls []int64
	nextID      int64
}

func (m *mockLogistics) CreatePackage(_ context.Context, _ int64, _ client.CreatePackageRequest) (int64, error) {
	m.createCalls++
	return m.nextID, nil
}

func (m *mockLogistics) CancelPackage(_ context.Context, _ int64, packageID int64) error {
	m.cancelCalls = append(m.cancelCalls, packageID)
	return nil
}

type fixture struct {
	service   *ServiceOrderService
	repo      *fakeRepo
	logistics *mockLogistics
}

func newFixture() *fixture {
	repo := newFakeRepo()
	logistics := &mockLogistics{nextID: 888}
	registry := strategy.NewRegistry(logistics)
	svc := NewServiceOrderService(repo, &outboxStub{}, registry, idempotency.NewMemoryStore(), logger.NewTestLogger())
	return &fixture{service: svc, repo: repo, logistics: logistics}
}

func createCmd() CreateCommand {
	return CreateCommand{
		ShopID: 1, AftersaleID: 10, CustomerID: 200, ProductID: 300,
		Type: domain.TypeMailInRepair, Reason: "broken screen",
	}
}

func TestCreateForAftersale_Idempotent(t *testing.T) {
	f := newFixture()

	first, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)

	// 동일 요청 재시도 시 기존 주문 반환
	second, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.orders, 1)
}

func TestLifecycle_MailIn(t *testing.T) {
	f := newFixture()
	order, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)

	status, err := f.service.Accept(context.Background(), 1, order.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToBeAssigned, status)

	status, err = f.service.Assign(context.Background(), 1, order.ID, strategy.AssignArgs{ProviderID: 7, StaffID: 8})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, status)
	assert.Equal(t, 1, f.logistics.createCalls)

	status, err = f.service.MarkReceived(context.Background(), 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, status)

	status, err = f.service.Complete(context.Background(), 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, status)
	assert.Equal(t, 2, f.logistics.createCalls)
}

func TestAccept_Reject(t *testing.T) {
	f := newFixture()
	order, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)

	status, err := f.service.Accept(context.Background(), 1, order.ID, false, "no capacity")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, status)
}

func TestMarkReceived_OnsiteUnsupported(t *testing.T) {
	f := newFixture()
	cmd := createCmd()
	cmd.Type = domain.TypeOnsiteRepair
	order, err := f.service.CreateForAftersale(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.service.Accept(context.Background(), 1, order.ID, true, "")
	require.NoError(t, err)

	_, err = f.service.MarkReceived(context.Background(), 1, order.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedType))
}

func TestCancelByAftersale(t *testing.T) {
	f := newFixture()
	order, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)

	status, err := f.service.CancelByAftersale(context.Background(), 1, order.AftersaleID, "aftersale cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, status)

	// 재시도는 성공으로 응답한다 (멱등)
	status, err = f.service.CancelByAftersale(context.Background(), 1, order.AftersaleID, "aftersale cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, status)
}

func TestCancelByAftersale_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.CancelByAftersale(context.Background(), 1, 42, "x")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServiceOrderNotFound))
}

func TestComplete_PersistFailureCompensates(t *testing.T) {
	f := newFixture()
	order, err := f.service.CreateForAftersale(context.Background(), createCmd())
	require.NoError(t, err)

	_, err = f.service.Accept(context.Background(), 1, order.ID, true, "")
	require.NoError(t, err)
	_, err = f.service.Assign(context.Background(), 1, order.ID, strategy.AssignArgs{ProviderID: 7, StaffID: 8})
	require.NoError(t, err)
	_, err = f.service.MarkReceived(context.Background(), 1, order.ID)
	require.NoError(t, err)

	f.repo.updateErr = apperrors.New(apperrors.ErrCodeDatabaseError, "db down")
	_, err = f.service.Complete(context.Background(), 1, order.ID)

	require.Error(t, err)
	// 완료 시 생성한 배송 운송장이 보상으로 취소된다
	assert.Equal(t, []int64{888}, f.logistics.cancelCalls)
	assert.Equal(t, domain.StatusReceived, f.repo.orders[order.ID].Status)
}
