package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeRoundTrip(t *testing.T) {
	statuses := []AftersaleStatus{
		StatusPending, StatusToBeReceived, StatusToBeCompleted,
		StatusReceived, StatusRejected, StatusCompleted, StatusCancelled,
	}

	for _, status := range statuses {
		restored, err := StatusFromCode(status.Code())
		require.NoError(t, err)
		assert.Equal(t, status, restored)
	}
}

func TestStatusFromCode_Unknown(t *testing.T) {
	_, err := StatusFromCode(99)
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AftersaleStatus
		to      AftersaleStatus
		allowed bool
	}{
		{StatusPending, StatusToBeReceived, true},
		{StatusPending, StatusToBeCompleted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusReceived, false},
		{StatusPending, StatusCancelled, false},
		{StatusToBeReceived, StatusReceived, true},
		{StatusToBeReceived, StatusRejected, true},
		{StatusToBeReceived, StatusCancelled, true},
		{StatusToBeReceived, StatusCompleted, false},
		{StatusToBeCompleted, StatusCompleted, true},
		{StatusToBeCompleted, StatusRejected, true},
		{StatusToBeCompleted, StatusCancelled, true},
		{StatusToBeCompleted, StatusReceived, false},
		{StatusReceived, StatusCompleted, true},
		{StatusReceived, StatusCancelled, false},
		{StatusRejected, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []AftersaleStatus{StatusRejected, StatusCompleted, StatusCancelled}
	nonTerminal := []AftersaleStatus{StatusPending, StatusToBeReceived, StatusToBeCompleted, StatusReceived}

	for _, status := range terminal {
		assert.True(t, status.IsTerminal(), "%s should be terminal", status)
	}
	for _, status := range nonTerminal {
		assert.False(t, status.IsTerminal(), "%s should not be terminal", status)
	}
}

func TestStatusCancellable(t *testing.T) {
	assert.True(t, StatusToBeReceived.IsCancellable())
	assert.True(t, StatusToBeCompleted.IsCancellable())

	for _, status := range []AftersaleStatus{StatusPending, StatusReceived, StatusRejected, StatusCompleted, StatusCancelled} {
		assert.False(t, status.IsCancellable(), "%s should not be cancellable", status)
	}
}

func TestTypeCodeRoundTrip(t *testing.T) {
	for _, aftersaleType := range []AftersaleType{TypeExchange, TypeReturn, TypeRepair} {
		restored, err := TypeFromCode(aftersaleType.Code())
		require.NoError(t, err)
		assert.Equal(t, aftersaleType, restored)
	}

	_, err := TypeFromCode(7)
	assert.Error(t, err)
}
