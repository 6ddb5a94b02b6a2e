package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type salesRepository struct {
	db       *sqlx.DB
	pageSize int
	maxPages int
}

func NewSalesRepository(db *sqlx.DB, pageSize, maxPages int) repository.SalesRepository {
	return &salesRepository{db: db, pageSize: pageSize, maxPages: maxPages}
}

const salesColumns = `
	id, venue_id, business_date, reason, customer_name,
	discount_amount, product_amount, payment_amount, cover_amount, commission_amount
`

func (r *salesRepository) ListByPeriod(ctx context.Context, venueID int64, start, end time.Time) ([]domain.SalesEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sales_ledger
		WHERE venue_id = $1
		  AND business_date >= $2
		  AND business_date <= $3
		ORDER BY business_date, id
	`, salesColumns)

	entries, err := fetchAllPaged[domain.SalesEntry](ctx, r.db, query, r.pageSize, r.maxPages, venueID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing sales entries: %w", err)
	}

	return entries, nil
}

func (r *salesRepository) ListByReason(ctx context.Context, venueID int64, start, end time.Time, patterns []string) ([]domain.SalesEntry, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	likes := make([]string, 0, len(patterns))
	for _, p := range patterns {
		likes = append(likes, "%"+p+"%")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sales_ledger
		WHERE venue_id = $1
		  AND business_date >= $2
		  AND business_date <= $3
		  AND reason ILIKE ANY($4)
		ORDER BY business_date, id
	`, salesColumns)

	entries, err := fetchAllPaged[domain.SalesEntry](ctx, r.db, query, r.pageSize, r.maxPages, venueID, start, end, pq.Array(likes))
	if err != nil {
		return nil, fmt.Errorf("error listing sales entries by reason: %w", err)
	}

	return entries, nil
}
