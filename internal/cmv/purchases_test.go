package cmv

import (
	"context"
	"errors"
	"testing"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseTotalsExactCategoryMatch(t *testing.T) {
	agg := NewPurchaseAggregator(&stubPurchases{entries: []domain.PurchaseEntry{
		{Category: "CUSTO COMIDA", Amount: -300},
		{Category: "Custo Bebidas", Amount: -150},
		{Category: "Custo Outros", Amount: -50},
		{Category: "Custo Drinks", Amount: -80},
		// Near-miss labels stay out of the buckets.
		{Category: "ALIMENTAÇÃO", Amount: -999},
		{Category: "Custo comida", Amount: -999},
		{Category: "Limpeza", Amount: -40},
	}})

	totals, err := agg.Totals(context.Background(), 1, domain.Period{})
	require.NoError(t, err)

	assert.InDelta(t, 300.0, totals.Food, 1e-9)
	assert.InDelta(t, 200.0, totals.Beverage, 1e-9)
	assert.InDelta(t, 80.0, totals.Drinks, 1e-9)
	assert.Zero(t, totals.Other)
	assert.InDelta(t, 580.0, totals.Total(), 1e-9)
}

func TestPurchaseTotalsAbsoluteAmounts(t *testing.T) {
	agg := NewPurchaseAggregator(&stubPurchases{entries: []domain.PurchaseEntry{
		{Category: "CUSTO COMIDA", Amount: -120},
		{Category: "CUSTO COMIDA", Amount: 30},
	}})

	totals, err := agg.Totals(context.Background(), 1, domain.Period{})
	require.NoError(t, err)

	assert.InDelta(t, 150.0, totals.Food, 1e-9)
}

func TestPurchaseTotalsPropagatesError(t *testing.T) {
	agg := NewPurchaseAggregator(&stubPurchases{err: errors.New("connection refused")})

	_, err := agg.Totals(context.Background(), 1, domain.Period{})
	assert.Error(t, err)
}
