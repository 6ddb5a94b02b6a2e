// internal/period/period.go
package period

import (
	"time"

	"github.com/barmetrics/backend-go/internal/domain"
)

// Resolve shifts the reference instant by offsetWeeks*7 days and returns the
// ISO-8601 week the shifted date falls in, with its Monday and Sunday as
// calendar dates (UTC midnight, no time-of-day). offsetWeeks is signed; -1
// targets last week. Resolution always succeeds.
func Resolve(ref time.Time, offsetWeeks int) domain.Period {
	shifted := ref.AddDate(0, 0, offsetWeeks*7)

	// ISOWeek applies the Thursday rule: the week owning the shifted
	// date's nearby Thursday decides both week number and week-year.
	year, week := shifted.ISOWeek()

	monday := truncateToDay(shifted)
	// Weekday is Sunday=0; ISO weeks start on Monday.
	wd := int(shifted.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday = monday.AddDate(0, 0, -(wd - 1))
	sunday := monday.AddDate(0, 0, 6)

	return domain.Period{
		Year:  year,
		Week:  week,
		Start: monday,
		End:   sunday,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
