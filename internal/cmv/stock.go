// internal/cmv/stock.go
package cmv

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
)

// StockValuator prices a counted snapshot, splitting the total by storage
// location.
type StockValuator struct {
	inventory repository.InventoryRepository
}

func NewStockValuator(inventory repository.InventoryRepository) *StockValuator {
	return &StockValuator{inventory: inventory}
}

// ValueAt sums quantity x unit cost over every row counted on date. Kitchen
// rows feed the kitchen bucket and bar rows the bar bucket. The drinks
// bucket stays zero: drink items counted at the bar are not split out yet
// and ride along in the bar total.
func (v *StockValuator) ValueAt(ctx context.Context, venueID int64, date time.Time) (domain.StockValue, error) {
	counts, err := v.inventory.ListByDate(ctx, venueID, date)
	if err != nil {
		return domain.StockValue{}, fmt.Errorf("inventory counts on %s: %w", date.Format("2006-01-02"), err)
	}

	var value domain.StockValue
	for _, c := range counts {
		amount := c.Quantity * c.UnitCost
		switch c.Location {
		case domain.LocationKitchen:
			value.Kitchen += amount
		case domain.LocationBar:
			value.Bar += amount
		}
	}

	return value, nil
}
