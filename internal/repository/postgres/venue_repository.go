package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type venueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) repository.VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) ListActive(ctx context.Context) ([]domain.Venue, error) {
	query := `
		SELECT id, name, active
		FROM venues
		WHERE active = TRUE
		ORDER BY id
	`

	var venues []domain.Venue
	if err := r.db.SelectContext(ctx, &venues, query); err != nil {
		return nil, fmt.Errorf("error listing active venues: %w", err)
	}

	return venues, nil
}

func (r *venueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	query := `
		SELECT id, name, active
		FROM venues
		WHERE id = $1
	`

	var venue domain.Venue
	if err := r.db.GetContext(ctx, &venue, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("venue %d not found", id)
		}
		return nil, fmt.Errorf("error getting venue %d: %w", id, err)
	}

	return &venue, nil
}
