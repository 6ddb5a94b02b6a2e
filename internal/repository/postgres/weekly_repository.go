package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type weeklyRepository struct {
	db *sqlx.DB
}

func NewWeeklyRepository(db *sqlx.DB) repository.WeeklyRepository {
	return &weeklyRepository{db: db}
}

const weeklyColumns = `
	id, venue_id, year, week, period_start, period_end,
	open_kitchen, open_bar, open_drinks, open_total,
	close_kitchen, close_bar, close_drinks, close_total,
	purchase_food, purchase_beverage, purchase_drinks, purchase_other, purchase_total,
	deduct_partner, deduct_benefit, deduct_admin, deduct_staff, deduct_entertain, deduct_total,
	gross_revenue, net_revenue, applicable_revenue,
	misc_adjustment, bonus_adjustment,
	cmv_value, cmv_percent, target_percent, gap,
	status, responsible
`

func (r *weeklyRepository) Get(ctx context.Context, venueID int64, year, week int) (*domain.WeeklyCMV, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM weekly_cmv
		WHERE venue_id = $1 AND year = $2 AND week = $3
	`, weeklyColumns)

	var rec domain.WeeklyCMV
	if err := r.db.GetContext(ctx, &rec, query, venueID, year, week); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting weekly record %d/%d for venue %d: %w", year, week, venueID, err)
	}

	return &rec, nil
}

// Upsert writes the record, fully overwriting any existing row for the same
// (venue, year, week). Idempotent: rerunning a week with unchanged inputs
// rewrites identical content.
func (r *weeklyRepository) Upsert(ctx context.Context, rec *domain.WeeklyCMV) error {
	query := `
		INSERT INTO weekly_cmv (
			venue_id, year, week, period_start, period_end,
			open_kitchen, open_bar, open_drinks, open_total,
			close_kitchen, close_bar, close_drinks, close_total,
			purchase_food, purchase_beverage, purchase_drinks, purchase_other, purchase_total,
			deduct_partner, deduct_benefit, deduct_admin, deduct_staff, deduct_entertain, deduct_total,
			gross_revenue, net_revenue, applicable_revenue,
			misc_adjustment, bonus_adjustment,
			cmv_value, cmv_percent, target_percent, gap,
			status, responsible
		) VALUES (
			:venue_id, :year, :week, :period_start, :period_end,
			:open_kitchen, :open_bar, :open_drinks, :open_total,
			:close_kitchen, :close_bar, :close_drinks, :close_total,
			:purchase_food, :purchase_beverage, :purchase_drinks, :purchase_other, :purchase_total,
			:deduct_partner, :deduct_benefit, :deduct_admin, :deduct_staff, :deduct_entertain, :deduct_total,
			:gross_revenue, :net_revenue, :applicable_revenue,
			:misc_adjustment, :bonus_adjustment,
			:cmv_value, :cmv_percent, :target_percent, :gap,
			:status, :responsible
		)
		ON CONFLICT (venue_id, year, week) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			open_kitchen = EXCLUDED.open_kitchen,
			open_bar = EXCLUDED.open_bar,
			open_drinks = EXCLUDED.open_drinks,
			open_total = EXCLUDED.open_total,
			close_kitchen = EXCLUDED.close_kitchen,
			close_bar = EXCLUDED.close_bar,
			close_drinks = EXCLUDED.close_drinks,
			close_total = EXCLUDED.close_total,
			purchase_food = EXCLUDED.purchase_food,
			purchase_beverage = EXCLUDED.purchase_beverage,
			purchase_drinks = EXCLUDED.purchase_drinks,
			purchase_other = EXCLUDED.purchase_other,
			purchase_total = EXCLUDED.purchase_total,
			deduct_partner = EXCLUDED.deduct_partner,
			deduct_benefit = EXCLUDED.deduct_benefit,
			deduct_admin = EXCLUDED.deduct_admin,
			deduct_staff = EXCLUDED.deduct_staff,
			deduct_entertain = EXCLUDED.deduct_entertain,
			deduct_total = EXCLUDED.deduct_total,
			gross_revenue = EXCLUDED.gross_revenue,
			net_revenue = EXCLUDED.net_revenue,
			applicable_revenue = EXCLUDED.applicable_revenue,
			misc_adjustment = EXCLUDED.misc_adjustment,
			bonus_adjustment = EXCLUDED.bonus_adjustment,
			cmv_value = EXCLUDED.cmv_value,
			cmv_percent = EXCLUDED.cmv_percent,
			target_percent = EXCLUDED.target_percent,
			gap = EXCLUDED.gap,
			status = EXCLUDED.status,
			responsible = EXCLUDED.responsible
	`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("error upserting weekly record %d/%d for venue %d: %w",
			rec.Year, rec.Week, rec.VenueID, err)
	}

	return nil
}

func (r *weeklyRepository) List(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.VenueID > 0 {
		args = append(args, filter.VenueID)
		clauses = append(clauses, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		clauses = append(clauses, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Week > 0 {
		args = append(args, filter.Week)
		clauses = append(clauses, fmt.Sprintf("week = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM weekly_cmv
		WHERE %s
		ORDER BY year DESC, week DESC, venue_id
	`, weeklyColumns, strings.Join(clauses, " AND "))

	var recs []domain.WeeklyCMV
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("error listing weekly records: %w", err)
	}

	return recs, nil
}
