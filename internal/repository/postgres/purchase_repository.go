package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type purchaseRepository struct {
	db       *sqlx.DB
	pageSize int
	maxPages int
}

func NewPurchaseRepository(db *sqlx.DB, pageSize, maxPages int) repository.PurchaseRepository {
	return &purchaseRepository{db: db, pageSize: pageSize, maxPages: maxPages}
}

func (r *purchaseRepository) ListDebitsByPeriod(ctx context.Context, venueID int64, start, end time.Time) ([]domain.PurchaseEntry, error) {
	query := `
		SELECT id, venue_id, competence_date, category, amount, entry_type
		FROM purchase_ledger
		WHERE venue_id = $1
		  AND entry_type = $2
		  AND competence_date >= $3
		  AND competence_date <= $4
		ORDER BY competence_date, id
	`

	entries, err := fetchAllPaged[domain.PurchaseEntry](ctx, r.db, query, r.pageSize, r.maxPages,
		venueID, domain.EntryTypeDebit, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing purchase debits: %w", err)
	}

	return entries, nil
}
