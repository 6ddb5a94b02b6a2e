// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
)

// VenueRepository reads the venue registry. The registry is managed
// elsewhere; the engine never writes it.
type VenueRepository interface {
	ListActive(ctx context.Context) ([]domain.Venue, error)
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

// SalesRepository reads the transaction ledger for a venue and date range.
// Implementations must page through the store's row cap transparently so
// callers always see the full result set.
type SalesRepository interface {
	ListByPeriod(ctx context.Context, venueID int64, start, end time.Time) ([]domain.SalesEntry, error)
	ListByReason(ctx context.Context, venueID int64, start, end time.Time, patterns []string) ([]domain.SalesEntry, error)
}

// PurchaseRepository reads the accounts-payable ledger.
type PurchaseRepository interface {
	ListDebitsByPeriod(ctx context.Context, venueID int64, start, end time.Time) ([]domain.PurchaseEntry, error)
}

// InventoryRepository reads physical count rows and accepts ingested counts
// from the spreadsheet sync.
type InventoryRepository interface {
	// CandidateDates returns up to limit count dates with positive
	// quantities at or before (before=true, descending) or at or after
	// (before=false, ascending) the boundary. Dates may repeat; callers
	// deduplicate.
	CandidateDates(ctx context.Context, venueID int64, boundary time.Time, before bool, limit int) ([]time.Time, error)
	// CoverageOn counts distinct items with positive quantity on a date.
	CoverageOn(ctx context.Context, venueID int64, date time.Time) (int, error)
	ListByDate(ctx context.Context, venueID int64, date time.Time) ([]domain.InventoryCount, error)
	UpsertCounts(ctx context.Context, counts []domain.InventoryCount) (int, error)
}

// WeeklyRepository persists and reads weekly cost records. Upsert conflicts
// on (venue_id, year, week) and overwrites the existing row.
type WeeklyRepository interface {
	Get(ctx context.Context, venueID int64, year, week int) (*domain.WeeklyCMV, error)
	Upsert(ctx context.Context, rec *domain.WeeklyCMV) error
	List(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, error)
}
