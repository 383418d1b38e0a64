package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

type mockLogistics struct {
	createCalls []client.CreatePackageRequest
	cancelCalls []int64
	nextID      int64
	createErr   error
}

func newMockLogistics() *mockLogistics {
	return &mockLogistics{nextID: 888}
}

func (m *mockLogistics) CreatePackage(_ context.Context, _ int64, req client.CreatePackageRequest) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.createCalls = append(m.createCalls, req)
	return m.nextID, nil
}

func (m *mockLogistics) CancelPackage(_ context.Context, _ int64, packageID int64) error {
	m.cancelCalls = append(m.cancelCalls, packageID)
	return nil
}

func newOrder(serviceType domain.ServiceOrderType, status domain.ServiceOrderStatus) *domain.ServiceOrder {
	order := domain.NewServiceOrder(1, 10, 200, 300, serviceType, "broken screen")
	order.ID = 5
	order.Status = status
	return order
}

func TestRegistryCoverage(t *testing.T) {
	registry := NewRegistry(newMockLogistics())

	for _, serviceType := range []domain.ServiceOrderType{domain.TypeMailInRepair, domain.TypeOnsiteRepair} {
		accept, err := registry.Accept(serviceType)
		require.NoError(t, err)
		assert.True(t, accept.Supports(serviceType))

		assign, err := registry.Assign(serviceType)
		require.NoError(t, err)
		assert.True(t, assign.Supports(serviceType))

		complete, err := registry.Complete(serviceType)
		require.NoError(t, err)
		assert.True(t, complete.Supports(serviceType))

		cancel, err := registry.Cancel(serviceType)
		require.NoError(t, err)
		assert.True(t, cancel.Supports(serviceType))
	}

	// 기타 유형은 자동 처리 전략이 없다
	_, err := registry.Accept(domain.TypeOther)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedType))
}

func TestMailInAssign_CreatesPickupPackage(t *testing.T) {
	logistics := newMockLogistics()
	assign := NewMailInAssign(logistics)
	order := newOrder(domain.TypeMailInRepair, domain.StatusToBeAssigned)
	comps := &Compensations{}

	err := assign.Assign(context.Background(), order, AssignArgs{ProviderID: 7, StaffID: 8}, comps)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, order.Status)
	require.NotNil(t, order.ExpressID)
	assert.Equal(t, int64(888), *order.ExpressID)
	require.Len(t, logistics.createCalls, 1)
	assert.True(t, logistics.createCalls[0].Inbound)
	assert.False(t, comps.Empty())
}

func TestOnsiteAssign_NoLogistics(t *testing.T) {
	assign := NewOnsiteAssign()
	order := newOrder(domain.TypeOnsiteRepair, domain.StatusToBeAssigned)

	err := assign.Assign(context.Background(), order, AssignArgs{ProviderID: 7, StaffID: 8}, &Compensations{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, order.Status)
	assert.Nil(t, order.ExpressID)
}

func TestMailInComplete(t *testing.T) {
	t.Run("requires received", func(t *testing.T) {
		complete := NewMailInComplete(newMockLogistics())
		order := newOrder(domain.TypeMailInRepair, domain.StatusAssigned)

		err := complete.Complete(context.Background(), order, &Compensations{})

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
		assert.Equal(t, domain.StatusAssigned, order.Status)
	})

	t.Run("ships repaired item back", func(t *testing.T) {
		logistics := newMockLogistics()
		complete := NewMailInComplete(logistics)
		order := newOrder(domain.TypeMailInRepair, domain.StatusReceived)
		comps := &Compensations{}

		err := complete.Complete(context.Background(), order, comps)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
		require.NotNil(t, order.ReturnExpressID)
		require.Len(t, logistics.createCalls, 1)
		assert.False(t, logistics.createCalls[0].Inbound)
		assert.False(t, comps.Empty())
	})
}

func TestOnsiteComplete(t *testing.T) {
	t.Run("requires assigned", func(t *testing.T) {
		complete := NewOnsiteComplete()
		order := newOrder(domain.TypeOnsiteRepair, domain.StatusToBeAssigned)

		err := complete.Complete(context.Background(), order, &Compensations{})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
	})

	t.Run("completes from assigned", func(t *testing.T) {
		complete := NewOnsiteComplete()
		order := newOrder(domain.TypeOnsiteRepair, domain.StatusAssigned)

		err := complete.Complete(context.Background(), order, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
	})
}

func TestMailInCancel(t *testing.T) {
	t.Run("after receipt ships item back", func(t *testing.T) {
		logistics := newMockLogistics()
		logistics.nextID = 999
		cancel := NewMailInCancel(logistics)
		order := newOrder(domain.TypeMailInRepair, domain.StatusReceived)
		order.SetExpressID(888)

		err := cancel.Cancel(context.Background(), order, CancelArgs{Reason: "customer request"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusReturned, order.Status)
		require.NotNil(t, order.ReturnExpressID)
		assert.Equal(t, int64(999), *order.ReturnExpressID)
		// 수령 후에는 수거 운송장을 취소하지 않는다
		assert.Empty(t, logistics.cancelCalls)
	})

	t.Run("in transit cancels pickup package", func(t *testing.T) {
		logistics := newMockLogistics()
		cancel := NewMailInCancel(logistics)
		order := newOrder(domain.TypeMailInRepair, domain.StatusAssigned)
		order.SetExpressID(888)

		err := cancel.Cancel(context.Background(), order, CancelArgs{Reason: "customer request"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Equal(t, []int64{888}, logistics.cancelCalls)
	})

	t.Run("before pickup no logistics call", func(t *testing.T) {
		logistics := newMockLogistics()
		cancel := NewMailInCancel(logistics)
		order := newOrder(domain.TypeMailInRepair, domain.StatusPending)

		err := cancel.Cancel(context.Background(), order, CancelArgs{}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Empty(t, logistics.cancelCalls)
	})
}

func TestOnsiteCancel(t *testing.T) {
	cancel := NewOnsiteCancel()
	order := newOrder(domain.TypeOnsiteRepair, domain.StatusAssigned)

	err := cancel.Cancel(context.Background(), order, CancelArgs{Reason: "customer request"}, &Compensations{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
}
