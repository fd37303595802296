package utils

import "time"

// LoadWindow describes how far back and forward a load reaches, in days.
type LoadWindow struct {
	DaysPast   int
	DaysFuture int
}

// DateRange is an inclusive load window. The same range must be used for
// the upstream query and for the incremental delete scope, otherwise a
// re-run leaves orphans outside the freshly fetched window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RangeFor computes the load window around now.
func (w LoadWindow) RangeFor(now time.Time) DateRange {
	now = now.UTC()
	return DateRange{
		Start: now.AddDate(0, 0, -w.DaysPast),
		End:   now.AddDate(0, 0, w.DaysFuture),
	}
}
