package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/logger"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/client"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

// mockLogistics 기록형 물류 클라이언트
type mockLogistics struct {
	createCalls []client.CreatePackageRequest
	cancelCalls []int64
	nextID      int64
	createErr   error
	cancelErr   error
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
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelCalls = append(m.cancelCalls, packageID)
	return nil
}

// mockServiceOrders 기록형 서비스 주문 클라이언트
type mockServiceOrders struct {
	createCalls int
	cancelCalls int
	nextID      int64
	createErr   error
	cancelErr   error
}

func (m *mockServiceOrders) CreateServiceOrder(_ context.Context, _, _ int64, _ client.CreateServiceOrderRequest) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.createCalls++
	return m.nextID, nil
}

func (m *mockServiceOrders) CancelServiceOrder(_ context.Context, _, _ int64, _ string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelCalls++
	return nil
}

func newOrder(aftersaleType domain.AftersaleType, status domain.AftersaleStatus) *domain.AftersaleOrder {
	order := domain.NewAftersaleOrder(1, 100, 200, 300, aftersaleType, "defective")
	order.ID = 10
	order.Status = status
	return order
}

func TestRegistryCoverage(t *testing.T) {
	registry := NewRegistry(newMockLogistics(), &mockServiceOrders{nextID: 55})

	// 모든 유형에 confirm/cancel 전략이 등록되어 있고 Supports와 일치해야 한다
	for _, aftersaleType := range []domain.AftersaleType{domain.TypeReturn, domain.TypeExchange, domain.TypeRepair} {
		confirm, err := registry.Confirm(aftersaleType)
		require.NoError(t, err, "confirm %s", aftersaleType)
		assert.True(t, confirm.Supports(aftersaleType))

		cancel, err := registry.Cancel(aftersaleType)
		require.NoError(t, err, "cancel %s", aftersaleType)
		assert.True(t, cancel.Supports(aftersaleType))
	}

	// 반품/교환만 accept/process 전략을 가진다
	for _, aftersaleType := range []domain.AftersaleType{domain.TypeReturn, domain.TypeExchange} {
		accept, err := registry.Accept(aftersaleType)
		require.NoError(t, err)
		assert.True(t, accept.Supports(aftersaleType))

		process, err := registry.Process(aftersaleType)
		require.NoError(t, err)
		assert.True(t, process.Supports(aftersaleType))
	}

	// 수리는 수령 검수/후처리 단계가 없다
	_, err := registry.Accept(domain.TypeRepair)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedType))

	_, err = registry.Process(domain.TypeRepair)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnsupportedType))
}

func TestShipBackConfirm_Approve(t *testing.T) {
	logistics := newMockLogistics()
	confirm := NewShipBackConfirm(logistics)
	order := newOrder(domain.TypeReturn, domain.StatusPending)
	comps := &Compensations{}

	err := confirm.Confirm(context.Background(), order, ConfirmArgs{Approve: true, Conclusion: "ok"}, comps)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusToBeReceived, order.Status)
	require.NotNil(t, order.ExpressID)
	assert.Equal(t, int64(888), *order.ExpressID)
	require.Len(t, logistics.createCalls, 1)
	assert.True(t, logistics.createCalls[0].Inbound)
	assert.False(t, comps.Empty())
}

func TestShipBackConfirm_Reject(t *testing.T) {
	logistics := newMockLogistics()
	confirm := NewShipBackConfirm(logistics)
	order := newOrder(domain.TypeExchange, domain.StatusPending)
	comps := &Compensations{}

	err := confirm.Confirm(context.Background(), order, ConfirmArgs{Approve: false, Conclusion: "not eligible"}, comps)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, order.Status)
	assert.Equal(t, "not eligible", order.Conclusion)
	// 반려 시 물류 호출 없음
	assert.Empty(t, logistics.createCalls)
	assert.True(t, comps.Empty())
}

func TestShipBackConfirm_LogisticsFailure(t *testing.T) {
	logistics := newMockLogistics()
	logistics.createErr = apperrors.New(apperrors.ErrCodeExternalService, "logistics down")
	confirm := NewShipBackConfirm(logistics)
	order := newOrder(domain.TypeReturn, domain.StatusPending)

	err := confirm.Confirm(context.Background(), order, ConfirmArgs{Approve: true}, &Compensations{})

	require.Error(t, err)
	// 외부 호출 실패 시 주문은 변경되지 않는다
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Nil(t, order.ExpressID)
}

func TestRepairConfirm_Approve(t *testing.T) {
	serviceOrders := &mockServiceOrders{nextID: 55}
	confirm := NewRepairConfirm(serviceOrders)
	order := newOrder(domain.TypeRepair, domain.StatusPending)
	comps := &Compensations{}

	err := confirm.Confirm(context.Background(), order, ConfirmArgs{Approve: true, Conclusion: "repairable"}, comps)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusToBeCompleted, order.Status)
	assert.Equal(t, 1, serviceOrders.createCalls)
	assert.False(t, comps.Empty())
}

func TestReceiveAccept(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		logistics := newMockLogistics()
		accept := NewReceiveAccept(logistics)
		order := newOrder(domain.TypeReturn, domain.StatusToBeReceived)

		err := accept.Accept(context.Background(), order, AcceptArgs{Accept: true, Conclusion: "intact"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusReceived, order.Status)
		assert.Empty(t, logistics.createCalls)
	})

	t.Run("reject creates return package", func(t *testing.T) {
		logistics := newMockLogistics()
		logistics.nextID = 999
		accept := NewReceiveAccept(logistics)
		order := newOrder(domain.TypeReturn, domain.StatusToBeReceived)
		comps := &Compensations{}

		err := accept.Accept(context.Background(), order, AcceptArgs{Accept: false, Conclusion: "damaged by customer"}, comps)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, order.Status)
		require.NotNil(t, order.ReturnExpressID)
		assert.Equal(t, int64(999), *order.ReturnExpressID)
		require.Len(t, logistics.createCalls, 1)
		assert.False(t, logistics.createCalls[0].Inbound)
		assert.False(t, comps.Empty())
	})
}

func TestProcess(t *testing.T) {
	t.Run("return completes without side effect", func(t *testing.T) {
		process := NewRefundProcess()
		order := newOrder(domain.TypeReturn, domain.StatusReceived)

		err := process.Process(context.Background(), order, ProcessArgs{Conclusion: "refund issued"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
	})

	t.Run("exchange ships replacement first", func(t *testing.T) {
		logistics := newMockLogistics()
		process := NewReshipProcess(logistics)
		order := newOrder(domain.TypeExchange, domain.StatusReceived)
		comps := &Compensations{}

		err := process.Process(context.Background(), order, ProcessArgs{Conclusion: "replaced"}, comps)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
		require.NotNil(t, order.ReturnExpressID)
		require.Len(t, logistics.createCalls, 1)
		assert.False(t, logistics.createCalls[0].Inbound)
		assert.False(t, comps.Empty())
	})
}

func TestPackageCancel(t *testing.T) {
	t.Run("cancels issued package first", func(t *testing.T) {
		logistics := newMockLogistics()
		cancel := NewPackageCancel(logistics)
		order := newOrder(domain.TypeReturn, domain.StatusToBeReceived)
		order.SetExpressID(888)

		err := cancel.Cancel(context.Background(), order, CancelArgs{Reason: "changed mind"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Equal(t, []int64{888}, logistics.cancelCalls)
	})

	t.Run("no package no logistics call", func(t *testing.T) {
		logistics := newMockLogistics()
		cancel := NewPackageCancel(logistics)
		order := newOrder(domain.TypeExchange, domain.StatusToBeReceived)

		err := cancel.Cancel(context.Background(), order, CancelArgs{}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Empty(t, logistics.cancelCalls)
	})

	t.Run("logistics failure leaves order unchanged", func(t *testing.T) {
		logistics := newMockLogistics()
		logistics.cancelErr = apperrors.New(apperrors.ErrCodeExternalService, "logistics down")
		cancel := NewPackageCancel(logistics)
		order := newOrder(domain.TypeReturn, domain.StatusToBeReceived)
		order.SetExpressID(888)

		err := cancel.Cancel(context.Background(), order, CancelArgs{}, &Compensations{})

		require.Error(t, err)
		assert.Equal(t, domain.StatusToBeReceived, order.Status)
	})
}

func TestRepairCancel(t *testing.T) {
	t.Run("cascades exactly once", func(t *testing.T) {
		serviceOrders := &mockServiceOrders{nextID: 55}
		cancel := NewRepairCancel(serviceOrders)
		order := newOrder(domain.TypeRepair, domain.StatusToBeCompleted)

		err := cancel.Cancel(context.Background(), order, CancelArgs{Reason: "customer request"}, &Compensations{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Equal(t, 1, serviceOrders.cancelCalls)
	})

	t.Run("cascade failure leaves order unchanged", func(t *testing.T) {
		serviceOrders := &mockServiceOrders{cancelErr: apperrors.New(apperrors.ErrCodeExternalService, "service down")}
		cancel := NewRepairCancel(serviceOrders)
		order := newOrder(domain.TypeRepair, domain.StatusToBeCompleted)

		err := cancel.Cancel(context.Background(), order, CancelArgs{}, &Compensations{})

		require.Error(t, err)
		assert.Equal(t, domain.StatusToBeCompleted, order.Status)
		assert.Equal(t, 0, serviceOrders.cancelCalls)
	})
}

func TestCompensations_RunAllReverseOrder(t *testing.T) {
	comps := &Compensations{}
	var order []string
	comps.Push("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	comps.Push("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	failed := comps.RunAll(context.Background(), logger.NewTestLogger())

	assert.Empty(t, failed)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestCompensations_ReportsFailures(t *testing.T) {
	comps := &Compensations{}
	comps.Push("ok", func(context.Context) error { return nil })
	comps.Push("broken", func(context.Context) error {
		return apperrors.New(apperrors.ErrCodeExternalService, "cannot undo")
	})

	failed := comps.RunAll(context.Background(), logger.NewTestLogger())

	assert.Equal(t, []string{"broken"}, failed)
}
