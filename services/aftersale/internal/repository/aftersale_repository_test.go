package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
)

func TestRowMapping_RoundTrip(t *testing.T) {
	expressID := int64(888)
	returnExpressID := int64(999)
	now := time.Now().Truncate(time.Microsecond)

	order := &domain.AftersaleOrder{
		ID:              10,
		ShopID:          1,
		OrderID:         100,
		CustomerID:      200,
		ProductID:       300,
		Type:            domain.TypeExchange,
		Status:          domain.StatusToBeReceived,
		Reason:          "defective",
		Conclusion:      "approved",
		ExpressID:       &expressID,
		ReturnExpressID: &returnExpressID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	restored, err := fromDomain(order).toDomain()
	require.NoError(t, err)
	assert.Equal(t, order, restored)
}

func TestRowMapping_NullFields(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)

	order := &domain.AftersaleOrder{
		ID:         10,
		ShopID:     1,
		OrderID:    100,
		CustomerID: 200,
		ProductID:  300,
		Type:       domain.TypeRepair,
		Status:     domain.StatusPending,
		Reason:     "broken",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	row := fromDomain(order)
	assert.False(t, row.Conclusion.Valid)
	assert.False(t, row.ExpressID.Valid)
	assert.False(t, row.ReturnExpressID.Valid)

	restored, err := row.toDomain()
	require.NoError(t, err)
	assert.Nil(t, restored.ExpressID)
	assert.Nil(t, restored.ReturnExpressID)
	assert.Empty(t, restored.Conclusion)
	assert.Equal(t, order, restored)
}

func TestRowMapping_UnknownCodes(t *testing.T) {
	row := &aftersaleRow{TypeCode: 42}
	_, err := row.toDomain()
	assert.Error(t, err)

	row = &aftersaleRow{TypeCode: 0, StatusCode: 42}
	_, err = row.toDomain()
	assert.Error(t, err)
}
