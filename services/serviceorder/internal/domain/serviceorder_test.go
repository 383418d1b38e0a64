package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

func newTestOrder(status ServiceOrderStatus) *ServiceOrder {
	order := NewServiceOrder(1, 10, 200, 300, TypeMailInRepair, "broken screen")
	order.ID = 5
	order.Status = status
	return order
}

func TestStatusCodeRoundTrip(t *testing.T) {
	statuses := []ServiceOrderStatus{
		StatusPending, StatusToBeAssigned, StatusAssigned, StatusReceived,
		StatusRejected, StatusCompleted, StatusCancelled, StatusReturned,
	}

	for _, status := range statuses {
		restored, err := StatusFromCode(status.Code())
		require.NoError(t, err)
		assert.Equal(t, status, restored)
	}

	_, err := StatusFromCode(99)
	assert.Error(t, err)
}

func TestTypeCodeRoundTrip(t *testing.T) {
	for _, serviceType := range []ServiceOrderType{TypeOnsiteRepair, TypeMailInRepair, TypeOther} {
		restored, err := TypeFromCode(serviceType.Code())
		require.NoError(t, err)
		assert.Equal(t, serviceType, restored)
	}
}

func TestStatusPredicates(t *testing.T) {
	terminal := []ServiceOrderStatus{StatusRejected, StatusCompleted, StatusCancelled, StatusReturned}
	for _, status := range terminal {
		assert.True(t, status.IsTerminal(), "%s should be terminal", status)
		assert.False(t, status.IsCancellable(), "%s should not be cancellable", status)
	}

	cancellable := []ServiceOrderStatus{StatusPending, StatusToBeAssigned, StatusAssigned, StatusReceived}
	for _, status := range cancellable {
		assert.False(t, status.IsTerminal())
		assert.True(t, status.IsCancellable(), "%s should be cancellable", status)
	}
}

func TestStatusTransitionTable(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusToBeAssigned))
	assert.True(t, StatusToBeAssigned.CanTransitionTo(StatusAssigned))
	assert.True(t, StatusAssigned.CanTransitionTo(StatusReceived))
	assert.True(t, StatusAssigned.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusReceived.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusReceived.CanTransitionTo(StatusReturned))

	assert.False(t, StatusPending.CanTransitionTo(StatusAssigned))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPending))
	assert.False(t, StatusReceived.CanTransitionTo(StatusCancelled))
}

func TestGuards(t *testing.T) {
	assert.NoError(t, newTestOrder(StatusPending).RequirePending())
	assert.Error(t, newTestOrder(StatusAssigned).RequirePending())

	assert.NoError(t, newTestOrder(StatusToBeAssigned).RequireAssignable())
	assert.Error(t, newTestOrder(StatusPending).RequireAssignable())

	assert.NoError(t, newTestOrder(StatusAssigned).RequireReceivable())
	assert.Error(t, newTestOrder(StatusReceived).RequireReceivable())

	assert.NoError(t, newTestOrder(StatusReceived).RequireReceived())
	assert.Error(t, newTestOrder(StatusAssigned).RequireReceived())

	assert.NoError(t, newTestOrder(StatusAssigned).RequireAssigned())
	assert.Error(t, newTestOrder(StatusReceived).RequireAssigned())

	err := newTestOrder(StatusCompleted).RequireCancellable()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
}

func TestTransitions(t *testing.T) {
	order := newTestOrder(StatusPending)
	order.Accept()
	assert.Equal(t, StatusToBeAssigned, order.Status)

	order.Assign(7, 8)
	assert.Equal(t, StatusAssigned, order.Status)
	require.NotNil(t, order.ProviderID)
	assert.Equal(t, int64(7), *order.ProviderID)
	require.NotNil(t, order.StaffID)
	assert.Equal(t, int64(8), *order.StaffID)

	order.MarkReceived()
	assert.Equal(t, StatusReceived, order.Status)

	order.Complete()
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestCancelAndReturn(t *testing.T) {
	order := newTestOrder(StatusToBeAssigned)
	order.Cancel("customer request")
	assert.Equal(t, StatusCancelled, order.Status)
	assert.Equal(t, "customer request", order.Reason)

	order = newTestOrder(StatusReceived)
	order.Return("cancelled after receipt")
	assert.Equal(t, StatusReturned, order.Status)
}
