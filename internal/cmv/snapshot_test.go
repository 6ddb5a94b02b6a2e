package cmv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSnapshotSelectorPrefersHighestCoverage(t *testing.T) {
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20"), day("2026-08-15")},
		coverage: map[string]int{
			"2026-08-24": 30,
			"2026-08-20": 51,
			"2026-08-15": 80,
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-15"), date)
}

func TestSnapshotSelectorKeepsNearestOnTie(t *testing.T) {
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20")},
		coverage: map[string]int{
			"2026-08-24": 60,
			"2026-08-20": 60,
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-24"), date)
}

func TestSnapshotSelectorThresholdIsStrict(t *testing.T) {
	// Exactly the minimum does not qualify; the nearest date wins as the
	// partial-count fallback instead.
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20")},
		coverage: map[string]int{
			"2026-08-24": 50,
			"2026-08-20": 50,
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-24"), date)
}

func TestSnapshotSelectorFallsBackToNearestPartial(t *testing.T) {
	inv := &stubInventory{
		before: []time.Time{day("2026-08-22"), day("2026-08-10")},
		coverage: map[string]int{
			"2026-08-22": 12,
			"2026-08-10": 40,
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-22"), date)
}

func TestSnapshotSelectorNoCandidates(t *testing.T) {
	sel := NewSnapshotSelector(&stubInventory{}, 50, 50)

	_, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshotSelectorSkipsDatesWithFailedCoverage(t *testing.T) {
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20")},
		coverage: map[string]int{
			"2026-08-20": 70,
		},
		coverageErr: map[string]error{
			"2026-08-24": errors.New("boom"),
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-20"), date)
}

func TestSnapshotSelectorAllCoverageChecksFailed(t *testing.T) {
	// A date whose coverage could not be read is never picked, not even
	// by the nearest-date fallback.
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20")},
		coverageErr: map[string]error{
			"2026-08-24": errors.New("boom"),
			"2026-08-20": errors.New("boom"),
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	_, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshotSelectorFallbackSkipsUnreadableDates(t *testing.T) {
	inv := &stubInventory{
		before: []time.Time{day("2026-08-24"), day("2026-08-20")},
		coverage: map[string]int{
			"2026-08-20": 30,
		},
		coverageErr: map[string]error{
			"2026-08-24": errors.New("boom"),
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectOpening(context.Background(), 1, day("2026-08-24"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-08-20"), date)
}

func TestSnapshotSelectorDeduplicatesCandidates(t *testing.T) {
	inv := &stubInventory{
		after: []time.Time{day("2026-08-31"), day("2026-08-31"), day("2026-09-02")},
		coverage: map[string]int{
			"2026-08-31": 55,
			"2026-09-02": 90,
		},
	}
	sel := NewSnapshotSelector(inv, 50, 50)

	date, found, err := sel.SelectClosing(context.Background(), 1, day("2026-08-30"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, day("2026-09-02"), date)
}
