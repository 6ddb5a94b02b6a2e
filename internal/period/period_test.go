package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveCurrentWeek(t *testing.T) {
	// A Wednesday mid-week.
	p := Resolve(at("2026-08-26 14:30"), 0)

	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, 35, p.Week)
	assert.Equal(t, "2026-08-24", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-08-30", p.End.Format("2006-01-02"))
}

func TestResolveLastWeek(t *testing.T) {
	p := Resolve(at("2026-08-31 09:00"), -1)

	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, 35, p.Week)
	assert.Equal(t, "2026-08-24", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-08-30", p.End.Format("2006-01-02"))
}

func TestResolveSundayBelongsToItsWeek(t *testing.T) {
	// Sunday is the last day of the ISO week, not the first of the next.
	p := Resolve(at("2026-08-30 23:00"), 0)

	assert.Equal(t, 35, p.Week)
	assert.Equal(t, "2026-08-24", p.Start.Format("2006-01-02"))
}

func TestResolveYearBoundary(t *testing.T) {
	// 2026-01-01 is a Thursday, so the year's first days already belong to
	// week 1 of 2026 even though the week starts in December.
	p := Resolve(at("2025-12-31 10:00"), 0)

	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, 1, p.Week)
	assert.Equal(t, "2025-12-29", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-04", p.End.Format("2006-01-02"))
}

func TestResolveWeekOwnedByPriorYear(t *testing.T) {
	// 2027-01-01 is a Friday; the week containing it belongs to 2026.
	p := Resolve(at("2027-01-01 10:00"), 0)

	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, 53, p.Week)
	assert.Equal(t, "2026-12-28", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2027-01-03", p.End.Format("2006-01-02"))
}

func TestResolveBoundariesAreCalendarDates(t *testing.T) {
	p := Resolve(at("2026-08-26 23:59"), 0)

	assert.Equal(t, time.UTC, p.Start.Location())
	assert.Zero(t, p.Start.Hour())
	assert.Zero(t, p.End.Hour())
	assert.Equal(t, 6*24*time.Hour, p.End.Sub(p.Start))
}

func TestResolvePositiveOffset(t *testing.T) {
	p := Resolve(at("2026-08-26 08:00"), 2)

	assert.Equal(t, 37, p.Week)
	assert.Equal(t, "2026-09-07", p.Start.Format("2006-01-02"))
}
