package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

func TestRowMapping_RoundTrip(t *testing.T) {
	providerID := int64(7)
	staffID := int64(8)
	expressID := int64(888)
	returnExpressID := int64(999)
	now := time.Now().Truncate(time.Microsecond)

	order := &domain.ServiceOrder{
		ID:              5,
		ShopID:          1,
		AftersaleID:     10,
		CustomerID:      200,
		ProductID:       300,
		Type:            domain.TypeMailInRepair,
		Status:          domain.StatusReceived,
		ProviderID:      &providerID,
		StaffID:         &staffID,
		Consignee:       "Hong Gildong",
		Mobile:          "010-1234-5678",
		RegionID:        11,
		Address:         "Seoul",
		Reason:          "broken screen",
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

	order := &domain.ServiceOrder{
		ID:          5,
		ShopID:      1,
		AftersaleID: 10,
		CustomerID:  200,
		ProductID:   300,
		Type:        domain.TypeOnsiteRepair,
		Status:      domain.StatusPending,
		Reason:      "broken screen",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	row := fromDomain(order)
	assert.False(t, row.ProviderID.Valid)
	assert.False(t, row.StaffID.Valid)
	assert.False(t, row.Consignee.Valid)
	assert.False(t, row.ExpressID.Valid)
	assert.False(t, row.ReturnExpressID.Valid)

	restored, err := row.toDomain()
	require.NoError(t, err)
	assert.Nil(t, restored.ProviderID)
	assert.Nil(t, restored.StaffID)
	assert.Empty(t, restored.Consignee)
	assert.Equal(t, order, restored)
}

func TestRowMapping_UnknownCodes(t *testing.T) {
	row := &serviceOrderRow{TypeCode: 42}
	_, err := row.toDomain()
	assert.Error(t, err)

	row = &serviceOrderRow{TypeCode: 0, StatusCode: 42}
	_, err = row.toDomain()
	assert.Error(t, err)
}
