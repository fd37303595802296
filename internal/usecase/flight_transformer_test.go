package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"
)

// noopLogger satisfies logger.Logger for tests.
type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (l noopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return l
}

func boolPtr(v bool) *bool { return &v }

func makeLeg(id, tail string) entity.FlightLeg {
	return entity.FlightLeg{
		ID:                        id,
		TripID:                    "trip-" + id,
		TripNumber:                "4021",
		TailNumber:                tail,
		DepartureICAO:             "KTEB",
		ArrivalICAO:               "KPBI",
		ScheduledDepartureDateUTC: "2025-03-01T14:00:00.000Z",
		ScheduledArrivalDateUTC:   "2025-03-01T16:30:00.000Z",
		PassengerCount:            4,
		IsEmpty:                   boolPtr(false),
		TripRegulatoryType:        "Part 135",
		Status:                    "Confirmed",
		Crew: []entity.CrewRosterEntry{
			{CrewPosition: "PIC", FirstName: "Jane", LastName: "Doe"},
			{CrewPosition: "SIC", FirstName: "John", LastName: "Smith"},
		},
		CreateDate: "2025-02-20T08:00:00.000Z",
	}
}

func standardLookups() Lookups {
	return Lookups{
		Crew:     map[string]int{"Jane Doe": 11, "John Smith": 12},
		Aircraft: map[string]int{"N425FX": 7},
		Airports: map[string]int{"KTEB": 101, "KPBI": 102},
	}
}

func TestTransformResolvesAllReferences(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	result := tr.Transform([]entity.FlightLeg{makeLeg("leg-1", "N425FX")}, standardLookups())

	require.Len(t, result.Movements, 1)
	m := result.Movements[0]
	assert.Equal(t, utils.MovementStableID("leg-1"), m.ID)
	require.NotNil(t, m.AircraftID)
	assert.Equal(t, 7, *m.AircraftID)
	require.NotNil(t, m.FromAirportID)
	assert.Equal(t, 101, *m.FromAirportID)
	require.NotNil(t, m.ToAirportID)
	assert.Equal(t, 102, *m.ToAirportID)
	require.NotNil(t, m.PICID)
	assert.Equal(t, 11, *m.PICID)
	require.NotNil(t, m.SICID)
	assert.Equal(t, 12, *m.SICID)
	assert.Equal(t, "trip-leg-1", m.TripID)
	require.NotNil(t, m.TripNumber)
	assert.Equal(t, 4021, *m.TripNumber)

	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.UnmatchedCrew)
	assert.Empty(t, result.UnmatchedAirports)
	assert.Empty(t, result.UnmatchedAircraft)
}

func TestTransformDropsLegWithUnresolvedTail(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	legs := []entity.FlightLeg{
		makeLeg("leg-1", "N425FX"),
		makeLeg("leg-2", "N999XX"),
	}
	result := tr.Transform(legs, standardLookups())

	require.Len(t, result.Movements, 1)
	assert.Equal(t, "leg-1", result.Movements[0].ExternalID)

	// Dropping the leg drops its crew rows too.
	for _, a := range result.CrewAssignments {
		assert.Equal(t, "leg-1", a.ExternalID)
	}

	require.Len(t, result.Skipped, 1)
	skipped := result.Skipped[0]
	assert.Equal(t, "leg-2", skipped.ExternalID)
	assert.Equal(t, "N999XX", skipped.TailNumber)
	assert.Equal(t, "KTEB->KPBI", skipped.Route)
	assert.Equal(t, "Confirmed", skipped.Status)
	assert.Equal(t, []string{"N999XX"}, result.UnmatchedAircraft)
}

func TestTransformSkippedRouteUnknownWhenAirportsMissing(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-9", "N999XX")
	leg.DepartureICAO = ""
	leg.ArrivalICAO = ""
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Unknown route", result.Skipped[0].Route)
}

func TestTransformKeepsLegWithoutTail(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-3", "")
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())

	require.Len(t, result.Movements, 1)
	assert.Nil(t, result.Movements[0].AircraftID)
	assert.Empty(t, result.Skipped)

	// Crew assignments need a resolved aircraft.
	assert.Empty(t, result.CrewAssignments)
}

func TestTransformUnresolvedAirportNullsFieldOnly(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-4", "N425FX")
	leg.ArrivalICAO = "ZZZZ"
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())

	require.Len(t, result.Movements, 1)
	m := result.Movements[0]
	assert.NotNil(t, m.FromAirportID)
	assert.Nil(t, m.ToAirportID)
	require.NotNil(t, m.ToAirport)
	assert.Equal(t, "ZZZZ", *m.ToAirport)
	assert.Equal(t, []string{"ZZZZ"}, result.UnmatchedAirports)
}

func TestTransformDemandPredicate(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	passenger := makeLeg("leg-pax", "N425FX")
	passenger.IsEmpty = boolPtr(false)

	position := makeLeg("leg-pos", "N425FX")
	position.IsEmpty = boolPtr(true)

	unknown := makeLeg("leg-unk", "N425FX")
	unknown.IsEmpty = nil

	result := tr.Transform([]entity.FlightLeg{passenger, position, unknown}, standardLookups())
	require.Len(t, result.Movements, 3)

	byExternal := map[string]entity.Movement{}
	for _, m := range result.Movements {
		byExternal[m.ExternalID] = m
	}

	pax := byExternal["leg-pax"]
	assert.Equal(t, 0, pax.IsPosition)
	require.NotNil(t, pax.DemandID)
	assert.Equal(t, pax.ID, *pax.DemandID)

	pos := byExternal["leg-pos"]
	assert.Equal(t, 1, pos.IsPosition)
	assert.Nil(t, pos.DemandID)

	// An absent flag means not a position leg, so demand exists.
	unk := byExternal["leg-unk"]
	assert.Equal(t, 0, unk.IsPosition)
	require.NotNil(t, unk.DemandID)
	assert.Equal(t, unk.ID, *unk.DemandID)
}

func TestTransformOwnerFlag(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	owner := makeLeg("leg-own", "N425FX")
	owner.TripRegulatoryType = "Part 91"
	charter := makeLeg("leg-chr", "N425FX")
	charter.TripRegulatoryType = "Part 135"

	result := tr.Transform([]entity.FlightLeg{owner, charter}, standardLookups())
	require.Len(t, result.Movements, 2)
	assert.Equal(t, 1, result.Movements[0].IsOwner)
	assert.Equal(t, 0, result.Movements[1].IsOwner)
}

func TestTransformOOOITiming(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	result := tr.Transform([]entity.FlightLeg{makeLeg("leg-5", "N425FX")}, standardLookups())
	require.Len(t, result.Movements, 1)
	m := result.Movements[0]

	departure := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	arrival := time.Date(2025, 3, 1, 16, 30, 0, 0, time.UTC)

	require.NotNil(t, m.OutTime)
	assert.Equal(t, departure, *m.OutTime)
	require.NotNil(t, m.OffTime)
	assert.Equal(t, departure.Add(6*time.Minute), *m.OffTime)
	require.NotNil(t, m.OnTime)
	assert.Equal(t, arrival.Add(-6*time.Minute), *m.OnTime)
	require.NotNil(t, m.InTime)
	assert.Equal(t, arrival, *m.InTime)
	require.NotNil(t, m.FlightTime)
	assert.Equal(t, 138.0, *m.FlightTime)
	require.NotNil(t, m.BlockTime)
	assert.Equal(t, 150.0, *m.BlockTime)
}

func TestTransformCrewAssignments(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-6", "N425FX")
	leg.Crew = append(leg.Crew, entity.CrewRosterEntry{
		CrewPosition: "Flight Attendant", FirstName: "Amy", LastName: "Lee",
	})
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())

	// The attendant has no recognized position id and is dropped.
	require.Len(t, result.CrewAssignments, 2)

	pic := result.CrewAssignments[0]
	assert.Equal(t, entity.PositionPIC, pic.PositionID)
	assert.Equal(t, 11, pic.CrewID)
	assert.Equal(t, 7, pic.AircraftID)
	assert.Equal(t, "Jane Doe", pic.CrewName)

	sic := result.CrewAssignments[1]
	assert.Equal(t, entity.PositionSIC, sic.PositionID)
	assert.Equal(t, 12, sic.CrewID)
}

func TestTransformUnresolvedCrewNullsMovementField(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	lookups := standardLookups()
	delete(lookups.Crew, "John Smith")

	result := tr.Transform([]entity.FlightLeg{makeLeg("leg-7", "N425FX")}, lookups)
	require.Len(t, result.Movements, 1)
	m := result.Movements[0]

	assert.NotNil(t, m.PICID)
	assert.Nil(t, m.SICID)
	require.NotNil(t, m.SIC)
	assert.Equal(t, "John Smith", *m.SIC)

	// Only the PIC row survives as an assignment.
	require.Len(t, result.CrewAssignments, 1)
	assert.Equal(t, entity.PositionPIC, result.CrewAssignments[0].PositionID)
	assert.Equal(t, []string{"John Smith"}, result.UnmatchedCrew)
}

func TestTransformLaterRosterEntryOverridesPosition(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-8", "N425FX")
	leg.Crew = []entity.CrewRosterEntry{
		{CrewPosition: "pic", FirstName: "Jane", LastName: "Doe"},
		{CrewPosition: "pic", FirstName: "John", LastName: "Smith"},
	}
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())

	require.Len(t, result.Movements, 1)
	m := result.Movements[0]
	require.NotNil(t, m.PIC)
	assert.Equal(t, "John Smith", *m.PIC)
	require.NotNil(t, m.PICID)
	assert.Equal(t, 12, *m.PICID)
}

func TestTransformDuplicateExternalIDKeepsBothRows(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	legs := []entity.FlightLeg{makeLeg("leg-dup", "N425FX"), makeLeg("leg-dup", "N425FX")}
	result := tr.Transform(legs, standardLookups())

	// Both rows are staged; the upsert makes the second write win.
	require.Len(t, result.Movements, 2)
	assert.Equal(t, result.Movements[0].ID, result.Movements[1].ID)
}

func TestTransformCreateTimeFallsBackToNow(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	leg := makeLeg("leg-ct", "N425FX")
	leg.CreateDate = "garbage"
	before := time.Now().UTC()
	result := tr.Transform([]entity.FlightLeg{leg}, standardLookups())
	after := time.Now().UTC()

	require.Len(t, result.Movements, 1)
	created := result.Movements[0].CreateTime
	assert.False(t, created.Before(before))
	assert.False(t, created.After(after))
}

func TestTransformEmptyBatch(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})
	result := tr.Transform(nil, standardLookups())
	assert.Empty(t, result.Movements)
	assert.Empty(t, result.CrewAssignments)
}

func TestCollectLookupKeys(t *testing.T) {
	tr := NewFlightTransformer(noopLogger{})

	first := makeLeg("leg-1", "N425FX")
	second := makeLeg("leg-2", "N425FX")
	second.DepartureICAO = "kpbi"
	second.ArrivalICAO = "KSDL"
	second.Crew = []entity.CrewRosterEntry{
		{CrewPosition: "PIC", FirstName: "Jane", LastName: "Doe"},
		{CrewPosition: "Flight Attendant", FirstName: "Amy", LastName: "Lee"},
	}

	crewNames, tailNumbers, icaoCodes := tr.CollectLookupKeys([]entity.FlightLeg{first, second})

	// Only recognized cockpit positions feed the crew lookup; codes are
	// deduplicated and upper-cased.
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, crewNames)
	assert.Equal(t, []string{"N425FX"}, tailNumbers)
	assert.Equal(t, []string{"KPBI", "KSDL", "KTEB"}, icaoCodes)
}
