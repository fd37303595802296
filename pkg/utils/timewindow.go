package utils

import "time"

// Business timing constants. These are fixed operational conventions, not
// configuration.
const (
	// OOOIPaddingMinutes separates scheduled block times from the derived
	// off/on times: offtime = outtime + 6min, ontime = intime - 6min.
	OOOIPaddingMinutes = 6

	// Shift padding applied when per-leg crew assignments are aggregated
	// into duty-period shifts.
	ShiftPreMinutes  = 60
	ShiftPostMinutes = 30

	// DutyDateCutoverHour attributes a shift starting before 09:00 to the
	// previous operational day.
	DutyDateCutoverHour = 9

	// AvailabilityCutoffHour is the end-of-day exclusion rule used only by
	// the crew availability derivation. It is a separate policy from the
	// duty-date cutover and must not be merged with it.
	AvailabilityCutoffHour = 12
)

// OOOITimes carries the derived scheduled timing fields of one movement.
// Durations are in minutes.
type OOOITimes struct {
	OutTime    *time.Time
	OffTime    *time.Time
	OnTime     *time.Time
	InTime     *time.Time
	FlightTime *float64
	BlockTime  *float64
}

// ComputeOOOI derives off/on times and durations from the scheduled
// departure and arrival anchors. A missing anchor nulls every field that
// depends on it; there is no partial computation.
func ComputeOOOI(scheduledDeparture, scheduledArrival *time.Time) OOOITimes {
	times := OOOITimes{
		OutTime: scheduledDeparture,
		InTime:  scheduledArrival,
	}

	if scheduledDeparture != nil {
		off := scheduledDeparture.Add(OOOIPaddingMinutes * time.Minute)
		times.OffTime = &off
	}
	if scheduledArrival != nil {
		on := scheduledArrival.Add(-OOOIPaddingMinutes * time.Minute)
		times.OnTime = &on
	}

	if times.OffTime != nil && times.OnTime != nil {
		flight := times.OnTime.Sub(*times.OffTime).Minutes()
		times.FlightTime = &flight
	}
	if times.OutTime != nil && times.InTime != nil {
		block := times.InTime.Sub(*times.OutTime).Minutes()
		times.BlockTime = &block
	}

	return times
}

// DutyDate returns the operational day a crew shift starting at start
// belongs to: the calendar date when the wall-clock hour is at or past
// the cutover, otherwise the previous day.
func DutyDate(start time.Time) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if start.Hour() >= DutyDateCutoverHour {
		return day
	}
	return day.AddDate(0, 0, -1)
}
