package entity

import "time"

// Movement is one internal flight occurrence, keyed by the stable id
// derived from the provider's leg id. The same external id always maps to
// the same Movement.ID, which makes the staged upsert converge on re-runs.
type Movement struct {
	ID             int
	DemandID       *int
	FromAirportID  *int
	ToAirportID    *int
	AircraftID     *int
	OutTime        *time.Time
	OffTime        *time.Time
	OnTime         *time.Time
	InTime         *time.Time
	ActualOutTime  *time.Time
	ActualOffTime  *time.Time
	ActualOnTime   *time.Time
	ActualInTime   *time.Time
	FlightTime     *float64
	BlockTime      *float64
	Status         *string
	PICID          *int
	SICID          *int
	ExternalID     string
	CreateTime     time.Time
	FromAirport    *string
	ToAirport      *string
	TailNumber     *string
	PIC            *string
	SIC            *string
	PassengerCount int
	TripNumber     *int
	IsPosition     int
	IsOwner        int
	TripID         string
}

// DemandAircraftRequest updates one demand row with the trip-level
// requested aircraft type and category.
type DemandAircraftRequest struct {
	DemandID           int
	AircraftTypeID     *int
	AircraftCategoryID *int
}

// LoadResult reports row counts per stage of one pipeline run. It is
// observability output, not control flow.
type LoadResult struct {
	MovementTempLoaded     int
	MovementLoaded         int
	DemandLoaded           int
	DemandAircraftRequests int
	CrewAssignmentsLoaded  int
	CrewShiftsLoaded       int
}
