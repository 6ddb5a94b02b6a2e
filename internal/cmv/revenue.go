// internal/cmv/revenue.go
package cmv

import (
	"context"
	"fmt"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// SalesAggregator folds transaction-ledger rows into the period's revenue
// figures and comped-account buckets.
type SalesAggregator struct {
	sales repository.SalesRepository
}

func NewSalesAggregator(sales repository.SalesRepository) *SalesAggregator {
	return &SalesAggregator{sales: sales}
}

// consumptionBuckets fixes the aggregation order so runs are deterministic.
var consumptionBuckets = []string{
	domain.BucketPartner,
	domain.BucketBenefit,
	domain.BucketEntertainer,
	domain.BucketArrivalList,
	domain.BucketAdmin,
	domain.BucketStaff,
}

// ConsumptionTotals aggregates each comped-account bucket independently.
// A failed bucket fetch is logged and left at zero; the remaining buckets
// still aggregate. Bucket value is discount + product amount, covering both
// fully comped rows and partial discounts.
func (a *SalesAggregator) ConsumptionTotals(ctx context.Context, venueID int64, p domain.Period) domain.ConsumptionTotals {
	var totals domain.ConsumptionTotals

	for _, bucket := range consumptionBuckets {
		rules := domain.ConsumptionRules[bucket]
		patterns := make([]string, 0, len(rules))
		for _, r := range rules {
			patterns = append(patterns, r.Pattern)
		}

		entries, err := a.sales.ListByReason(ctx, venueID, p.Start, p.End, patterns)
		if err != nil {
			log.Error().Err(err).
				Int64("venue_id", venueID).
				Str("bucket", bucket).
				Msg("consumption bucket fetch failed, defaulting to zero")
			continue
		}

		var sum float64
		for _, e := range entries {
			sum += e.DiscountAmount + e.ProductAmount
		}

		switch bucket {
		case domain.BucketPartner:
			totals.Partner = sum
		case domain.BucketBenefit:
			totals.Benefit = sum
		case domain.BucketEntertainer:
			totals.Entertainer = sum
		case domain.BucketArrivalList:
			totals.ArrivalList = sum
		case domain.BucketAdmin:
			totals.Admin = sum
		case domain.BucketStaff:
			totals.Staff = sum
		}
	}

	return totals
}

// RevenueTotals sums the whole period ledger, unfiltered by reason, and
// derives the revenue chain in its fixed order: net strips cover charges
// from gross, applicable strips commissions from net. The weekly percentage
// divides by Applicable, so this order is part of the contract.
func (a *SalesAggregator) RevenueTotals(ctx context.Context, venueID int64, p domain.Period) (domain.RevenueTotals, error) {
	entries, err := a.sales.ListByPeriod(ctx, venueID, p.Start, p.End)
	if err != nil {
		return domain.RevenueTotals{}, fmt.Errorf("period sales: %w", err)
	}

	var totals domain.RevenueTotals
	for _, e := range entries {
		totals.Gross += e.PaymentAmount
		totals.Cover += e.CoverAmount
		totals.Commission += e.CommissionAmount
	}

	totals.Net = totals.Gross - totals.Cover
	totals.Applicable = totals.Net - totals.Commission

	return totals, nil
}
