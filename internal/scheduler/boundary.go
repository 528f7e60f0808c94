package scheduler

import (
	"time"

	"github.com/sandeepkv93/taskbrain/internal/timepattern"
)

// Hours at which suggestions change, in order. 10 splits the morning
// defaults without starting a new period.
var periodStarts = []int{6, 10, 12, 17, 21}

// NextBoundary returns the first period start strictly after now, in now's
// location, and the period that begins there.
func NextBoundary(now time.Time) (time.Time, timepattern.Period) {
	y, m, d := now.Date()
	for _, h := range periodStarts {
		at := time.Date(y, m, d, h, 0, 0, 0, now.Location())
		if at.After(now) {
			return at, timepattern.PeriodOf(h)
		}
	}
	at := time.Date(y, m, d+1, periodStarts[0], 0, 0, 0, now.Location())
	return at, timepattern.PeriodOf(periodStarts[0])
}

// BoundaryEvent builds the event for the next period change after now.
func BoundaryEvent(now time.Time) Event {
	at, period := NextBoundary(now)
	return Event{
		ID:     "period-" + at.Format(time.RFC3339),
		Kind:   KindPeriodBoundary,
		Period: period,
		At:     at,
	}
}

// RefreshEvent builds a one-off reload event due at now.
func RefreshEvent(now time.Time) Event {
	return Event{
		ID:   "refresh-" + now.Format(time.RFC3339Nano),
		Kind: KindRefresh,
		At:   now,
	}
}
