package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type inventoryRepository struct {
	db       *sqlx.DB
	pageSize int
	maxPages int
}

func NewInventoryRepository(db *sqlx.DB, pageSize, maxPages int) repository.InventoryRepository {
	return &inventoryRepository{db: db, pageSize: pageSize, maxPages: maxPages}
}

func (r *inventoryRepository) CandidateDates(ctx context.Context, venueID int64, boundary time.Time, before bool, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 50
	}

	cmp, order := "<=", "DESC"
	if !before {
		cmp, order = ">=", "ASC"
	}

	query := fmt.Sprintf(`
		SELECT count_date
		FROM inventory_counts
		WHERE venue_id = $1
		  AND count_date %s $2
		  AND quantity > 0
		ORDER BY count_date %s
		LIMIT $3
	`, cmp, order)

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, venueID, boundary, limit); err != nil {
		return nil, fmt.Errorf("error listing candidate count dates: %w", err)
	}

	return dates, nil
}

func (r *inventoryRepository) CoverageOn(ctx context.Context, venueID int64, date time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT item_id)
		FROM inventory_counts
		WHERE venue_id = $1
		  AND count_date = $2
		  AND quantity > 0
	`

	var coverage int
	if err := r.db.GetContext(ctx, &coverage, query, venueID, date); err != nil {
		return 0, fmt.Errorf("error counting coverage on %s: %w", date.Format("2006-01-02"), err)
	}

	return coverage, nil
}

func (r *inventoryRepository) ListByDate(ctx context.Context, venueID int64, date time.Time) ([]domain.InventoryCount, error) {
	query := `
		SELECT id, venue_id, count_date, item_id, quantity, unit_cost, location, category
		FROM inventory_counts
		WHERE venue_id = $1
		  AND count_date = $2
		ORDER BY item_id, id
	`

	counts, err := fetchAllPaged[domain.InventoryCount](ctx, r.db, query, r.pageSize, r.maxPages, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("error listing inventory counts: %w", err)
	}

	return counts, nil
}

func (r *inventoryRepository) UpsertCounts(ctx context.Context, counts []domain.InventoryCount) (int, error) {
	if len(counts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO inventory_counts
			(venue_id, count_date, item_id, quantity, unit_cost, location, category)
		VALUES
			(:venue_id, :count_date, :item_id, :quantity, :unit_cost, :location, :category)
		ON CONFLICT (venue_id, count_date, item_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit_cost = EXCLUDED.unit_cost,
			location = EXCLUDED.location,
			category = EXCLUDED.category
	`

	res, err := r.db.NamedExecContext(ctx, query, counts)
	if err != nil {
		return 0, fmt.Errorf("error upserting inventory counts: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return len(counts), nil
	}

	return int(affected), nil
}
