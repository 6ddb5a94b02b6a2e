package cmv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
)

func dkey(t time.Time) string {
	return t.Format("2006-01-02")
}

type stubInventory struct {
	before        []time.Time
	after         []time.Time
	coverage      map[string]int
	coverageErr   map[string]error
	counts        map[string][]domain.InventoryCount
	candidatesErr error
}

func (s *stubInventory) CandidateDates(_ context.Context, _ int64, _ time.Time, before bool, limit int) ([]time.Time, error) {
	if s.candidatesErr != nil {
		return nil, s.candidatesErr
	}
	dates := s.after
	if before {
		dates = s.before
	}
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (s *stubInventory) CoverageOn(_ context.Context, _ int64, date time.Time) (int, error) {
	if err, ok := s.coverageErr[dkey(date)]; ok {
		return 0, err
	}
	return s.coverage[dkey(date)], nil
}

func (s *stubInventory) ListByDate(_ context.Context, _ int64, date time.Time) ([]domain.InventoryCount, error) {
	return s.counts[dkey(date)], nil
}

func (s *stubInventory) UpsertCounts(_ context.Context, counts []domain.InventoryCount) (int, error) {
	return len(counts), nil
}

type stubSales struct {
	entries      []domain.SalesEntry
	periodErr    error
	failPatterns map[string]error
}

func (s *stubSales) ListByPeriod(context.Context, int64, time.Time, time.Time) ([]domain.SalesEntry, error) {
	if s.periodErr != nil {
		return nil, s.periodErr
	}
	return s.entries, nil
}

func (s *stubSales) ListByReason(_ context.Context, _ int64, _, _ time.Time, patterns []string) ([]domain.SalesEntry, error) {
	for _, p := range patterns {
		if err, ok := s.failPatterns[p]; ok {
			return nil, err
		}
	}
	var out []domain.SalesEntry
	for _, e := range s.entries {
		for _, p := range patterns {
			if strings.Contains(strings.ToLower(e.Reason), strings.ToLower(p)) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

type stubPurchases struct {
	entries []domain.PurchaseEntry
	err     error
}

func (s *stubPurchases) ListDebitsByPeriod(context.Context, int64, time.Time, time.Time) ([]domain.PurchaseEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type stubVenues struct {
	venues  []domain.Venue
	listErr error
}

func (s *stubVenues) ListActive(context.Context) ([]domain.Venue, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.venues, nil
}

func (s *stubVenues) GetByID(_ context.Context, id int64) (*domain.Venue, error) {
	for _, v := range s.venues {
		if v.ID == id {
			venue := v
			return &venue, nil
		}
	}
	return nil, nil
}

type stubWeekly struct {
	existing   map[string]*domain.WeeklyCMV
	saved      []*domain.WeeklyCMV
	failVenues map[int64]error
}

func weeklyKey(venueID int64, year, week int) string {
	return fmt.Sprintf("%d:%d:%d", venueID, year, week)
}

func (s *stubWeekly) Get(_ context.Context, venueID int64, year, week int) (*domain.WeeklyCMV, error) {
	if s.existing == nil {
		return nil, nil
	}
	return s.existing[weeklyKey(venueID, year, week)], nil
}

func (s *stubWeekly) Upsert(_ context.Context, rec *domain.WeeklyCMV) error {
	if err, ok := s.failVenues[rec.VenueID]; ok {
		return err
	}
	s.saved = append(s.saved, rec)
	// Conflict on (venue, year, week) overwrites, one row per key.
	if s.existing == nil {
		s.existing = make(map[string]*domain.WeeklyCMV)
	}
	stored := *rec
	s.existing[weeklyKey(rec.VenueID, rec.Year, rec.Week)] = &stored
	return nil
}

func (s *stubWeekly) List(context.Context, domain.WeeklyFilter) ([]domain.WeeklyCMV, error) {
	out := make([]domain.WeeklyCMV, 0, len(s.saved))
	for _, rec := range s.saved {
		out = append(out, *rec)
	}
	return out, nil
}
