package entity

// FlightLeg is one raw flight-leg record as returned by the scheduling
// provider. It is immutable input; all normalization happens in the
// transformer.
type FlightLeg struct {
	ID                        string            `json:"id"`
	TripID                    string            `json:"tripID"`
	TripNumber                string            `json:"tripNumber"`
	TailNumber                string            `json:"tailNumber"`
	DepartureICAO             string            `json:"departureICAO"`
	ArrivalICAO               string            `json:"arrivalICAO"`
	ScheduledDepartureDateUTC string            `json:"scheduledDepartureDateUTC"`
	ScheduledArrivalDateUTC   string            `json:"scheduledArrivalDateUTC"`
	ActualDepartureDateUTC    string            `json:"actualDepartureDateUTC"`
	ActualArrivalDateUTC      string            `json:"actualArrivalDateUTC"`
	OutOfBlocksUTC            string            `json:"outOfBlocksUTC"`
	InBlocksUTC               string            `json:"inBlocksUTC"`
	PassengerCount            int               `json:"passengerCount"`
	IsEmpty                   *bool             `json:"isEmpty"`
	TripRegulatoryType        string            `json:"tripRegulatoryType"`
	Status                    string            `json:"status"`
	Crew                      []CrewRosterEntry `json:"crew"`
	CreateDate                string            `json:"createDate"`
}

// CrewRosterEntry is one crew member on a raw flight leg.
type CrewRosterEntry struct {
	CrewPosition string `json:"crewPosition"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// TripItinerary is the richer trip resource used only by the demand
// aircraft-request enrichment step.
type TripItinerary struct {
	ID       string    `json:"id"`
	Aircraft string    `json:"aircraft"`
	Legs     []TripLeg `json:"legs"`
}

// TripLeg is one leg entry of a trip itinerary.
type TripLeg struct {
	ID            string               `json:"id"`
	DemandRequest *TripLegDemandRequest `json:"flightLegDemandRequest"`
}

// TripLegDemandRequest carries the requested aircraft model/category of a
// passenger leg.
type TripLegDemandRequest struct {
	AircraftModelID    string `json:"aircraftModelID"`
	AircraftCategoryID string `json:"aircraftCategoryID"`
}
