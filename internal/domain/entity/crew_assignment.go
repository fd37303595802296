package entity

import "time"

// Crew position surrogate ids.
const (
	PositionPIC = 1
	PositionSIC = 2
)

// CrewAssignment is one staged per-leg crew row. Rows are later
// aggregated into duty-period shifts grouped by (crew, aircraft, duty
// date, position).
type CrewAssignment struct {
	AircraftID      int
	CrewID          int
	PositionID      int
	StartTime       *time.Time
	EndTime         *time.Time
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	ExternalID      string
	CreateTime      time.Time
	TailNumber      *string
	CrewName        string
}

// SkippedFlight describes one leg dropped because its tail number did not
// resolve against the aircraft reference table.
type SkippedFlight struct {
	ExternalID         string
	TripNumber         string
	TailNumber         string
	Route              string
	ScheduledDeparture string
	Status             string
}

// QualificationResult reports how many qualification rows the derivation
// rebuilt.
type QualificationResult struct {
	PIC   int
	SIC   int
	Total int
}
