// internal/cmv/snapshot.go
package cmv

import (
	"context"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// SnapshotSelector picks the count date that best represents stock at a
// period boundary. Physical counts are irregular and sometimes partial, so
// the selector prefers the most complete count among the candidates nearest
// the boundary rather than blindly taking the nearest date.
type SnapshotSelector struct {
	inventory      repository.InventoryRepository
	candidateLimit int
	minCoverage    int
}

func NewSnapshotSelector(inventory repository.InventoryRepository, candidateLimit, minCoverage int) *SnapshotSelector {
	if candidateLimit <= 0 {
		candidateLimit = 50
	}
	if minCoverage <= 0 {
		minCoverage = 50
	}
	return &SnapshotSelector{
		inventory:      inventory,
		candidateLimit: candidateLimit,
		minCoverage:    minCoverage,
	}
}

// SelectOpening returns the best count date at or before the period start.
// The boolean is false when no count exists on that side of the boundary, or
// when no candidate's coverage could be read.
func (s *SnapshotSelector) SelectOpening(ctx context.Context, venueID int64, periodStart time.Time) (time.Time, bool, error) {
	return s.selectBoundary(ctx, venueID, periodStart, true)
}

// SelectClosing returns the best count date at or after the period end.
func (s *SnapshotSelector) SelectClosing(ctx context.Context, venueID int64, periodEnd time.Time) (time.Time, bool, error) {
	return s.selectBoundary(ctx, venueID, periodEnd, false)
}

func (s *SnapshotSelector) selectBoundary(ctx context.Context, venueID int64, boundary time.Time, before bool) (time.Time, bool, error) {
	raw, err := s.inventory.CandidateDates(ctx, venueID, boundary, before, s.candidateLimit)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("candidate dates near %s: %w", boundary.Format("2006-01-02"), err)
	}
	if len(raw) == 0 {
		return time.Time{}, false, nil
	}

	// Candidates arrive nearest-first and may repeat per counted row.
	seen := make(map[time.Time]struct{}, len(raw))
	dates := make([]time.Time, 0, len(raw))
	for _, d := range raw {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	var (
		best         time.Time
		bestCoverage int
		found        bool
		checked      []time.Time
	)
	for _, d := range dates {
		coverage, err := s.inventory.CoverageOn(ctx, venueID, d)
		if err != nil {
			log.Warn().Err(err).
				Int64("venue_id", venueID).
				Time("count_date", d).
				Msg("snapshot selector: coverage check failed, skipping date")
			continue
		}
		checked = append(checked, d)
		if coverage <= s.minCoverage {
			// Partial count, out of competition.
			continue
		}
		// Strict comparison keeps the first-found date on ties, which
		// is the nearest one given the query order.
		if coverage > bestCoverage {
			best = d
			bestCoverage = coverage
			found = true
		}
	}

	if found {
		return best, true, nil
	}

	// The fallback only considers dates whose coverage was actually
	// established; a date whose check errored is as unknown as no date.
	if len(checked) == 0 {
		log.Warn().
			Int64("venue_id", venueID).
			Time("boundary", boundary).
			Msg("snapshot selector: no candidate with a readable coverage, treating boundary as uncounted")
		return time.Time{}, false, nil
	}

	// Every readable candidate was partial: take the nearest one anyway so
	// a venue with only small counts still values its stock.
	log.Warn().
		Int64("venue_id", venueID).
		Time("boundary", boundary).
		Int("min_coverage", s.minCoverage).
		Msg("snapshot selector: no count met the coverage threshold, falling back to nearest date")
	return checked[0], true, nil
}
