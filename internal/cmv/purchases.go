// internal/cmv/purchases.go
package cmv

import (
	"context"
	"fmt"
	"math"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
)

// PurchaseAggregator sums debit purchase entries into cost buckets by
// exact-case category match.
type PurchaseAggregator struct {
	purchases repository.PurchaseRepository
}

func NewPurchaseAggregator(purchases repository.PurchaseRepository) *PurchaseAggregator {
	return &PurchaseAggregator{purchases: purchases}
}

// Totals fetches the period's debit entries by competence date and buckets
// them. Category matching is exact and case sensitive: "CUSTO COMIDA" is
// food, "Custo comida" is not. Amounts are recorded as negative debits in
// the ledger, so absolute values are summed. The Other bucket stays zero,
// matching the ledger convention of folding "Custo Outros" into beverages.
func (a *PurchaseAggregator) Totals(ctx context.Context, venueID int64, p domain.Period) (domain.PurchaseTotals, error) {
	entries, err := a.purchases.ListDebitsByPeriod(ctx, venueID, p.Start, p.End)
	if err != nil {
		return domain.PurchaseTotals{}, fmt.Errorf("period purchases: %w", err)
	}

	var totals domain.PurchaseTotals
	for _, e := range entries {
		bucket := domain.MatchBucket(domain.PurchaseRules, e.Category)
		if bucket == "" {
			continue
		}
		amount := math.Abs(e.Amount)
		switch bucket {
		case domain.BucketFood:
			totals.Food += amount
		case domain.BucketBeverage:
			totals.Beverage += amount
		case domain.BucketDrinks:
			totals.Drinks += amount
		}
	}

	return totals, nil
}
