package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"
)

// Lookups holds the precomputed natural-key to surrogate-id maps for one
// batch. Airports are keyed by upper-cased ICAO code, aircraft by tail
// number, crew by trimmed "first last" name.
type Lookups struct {
	Crew     map[string]int
	Aircraft map[string]int
	Airports map[string]int
}

// TransformResult is the output of one batch transformation: the records
// to stage plus the unmatched-key sets and skipped-leg details used for
// operational diagnosis.
type TransformResult struct {
	Movements         []entity.Movement
	CrewAssignments   []entity.CrewAssignment
	UnmatchedCrew     []string
	UnmatchedAirports []string
	UnmatchedAircraft []string
	Skipped           []entity.SkippedFlight
}

// FlightTransformer converts raw flight legs into movement and
// crew-assignment records. It is pure apart from logging: all lookups are
// precomputed maps, no I/O happens here.
type FlightTransformer struct {
	logger logger.Logger
}

// NewFlightTransformer creates a new flight transformer
func NewFlightTransformer(logger logger.Logger) *FlightTransformer {
	return &FlightTransformer{
		logger: logger,
	}
}

// crewMember is one roster entry with its normalized position.
// PositionID is zero when the position string is unrecognized.
type crewMember struct {
	Name       string
	Position   string
	PositionID int
}

// sharedLegData is extracted once per leg and reused by both the
// movement build and the crew-assignment build.
type sharedLegData struct {
	ExternalID         string
	TripID             string
	StableID           int
	TailNumber         string
	ScheduledDeparture *time.Time
	ScheduledArrival   *time.Time
	ActualDeparture    *time.Time
	ActualArrival      *time.Time
	OutBlocks          *time.Time
	InBlocks           *time.Time
	CreateTime         time.Time
	PICName            string
	SICName            string
	CrewMembers        []crewMember
}

func (t *FlightTransformer) extractSharedData(leg entity.FlightLeg) sharedLegData {
	shared := sharedLegData{
		ExternalID: leg.ID,
		TripID:     leg.TripID,
		StableID:   utils.MovementStableID(leg.ID),
		TailNumber: strings.TrimSpace(leg.TailNumber),

		ScheduledDeparture: utils.ParseUTCTime(leg.ScheduledDepartureDateUTC),
		ScheduledArrival:   utils.ParseUTCTime(leg.ScheduledArrivalDateUTC),
		ActualDeparture:    utils.ParseUTCTime(leg.ActualDepartureDateUTC),
		ActualArrival:      utils.ParseUTCTime(leg.ActualArrivalDateUTC),
		OutBlocks:          utils.ParseUTCTime(leg.OutOfBlocksUTC),
		InBlocks:           utils.ParseUTCTime(leg.InBlocksUTC),
	}

	if created := utils.ParseUTCTime(leg.CreateDate); created != nil {
		shared.CreateTime = *created
	} else {
		shared.CreateTime = time.Now().UTC()
	}

	for _, member := range leg.Crew {
		position := strings.ToLower(strings.TrimSpace(member.CrewPosition))
		name := strings.TrimSpace(strings.TrimSpace(member.FirstName) + " " + strings.TrimSpace(member.LastName))

		positionID := 0
		switch position {
		case "pic":
			positionID = entity.PositionPIC
			shared.PICName = name
		case "sic":
			positionID = entity.PositionSIC
			shared.SICName = name
		}

		shared.CrewMembers = append(shared.CrewMembers, crewMember{
			Name:       name,
			Position:   position,
			PositionID: positionID,
		})
	}

	return shared
}

// CollectLookupKeys gathers the unique natural keys of a batch so each
// reference table is queried once per run, not once per record.
func (t *FlightTransformer) CollectLookupKeys(legs []entity.FlightLeg) (crewNames, tailNumbers, icaoCodes []string) {
	crewSet := map[string]struct{}{}
	tailSet := map[string]struct{}{}
	airportSet := map[string]struct{}{}

	for _, leg := range legs {
		shared := t.extractSharedData(leg)

		for _, member := range shared.CrewMembers {
			if member.PositionID != 0 && member.Name != "" {
				crewSet[member.Name] = struct{}{}
			}
		}
		if shared.TailNumber != "" {
			tailSet[shared.TailNumber] = struct{}{}
		}
		if code := strings.TrimSpace(leg.DepartureICAO); code != "" {
			airportSet[strings.ToUpper(code)] = struct{}{}
		}
		if code := strings.TrimSpace(leg.ArrivalICAO); code != "" {
			airportSet[strings.ToUpper(code)] = struct{}{}
		}
	}

	return sortedKeys(crewSet), sortedKeys(tailSet), sortedKeys(airportSet)
}

// Transform converts a batch of raw legs into movement and
// crew-assignment records. A leg whose tail number does not resolve is
// dropped entirely; airport and crew misses only null the affected
// fields.
func (t *FlightTransformer) Transform(legs []entity.FlightLeg, lookups Lookups) TransformResult {
	result := TransformResult{}
	if len(legs) == 0 {
		return result
	}

	unmatchedCrew := map[string]struct{}{}
	unmatchedAirports := map[string]struct{}{}
	unmatchedAircraft := map[string]struct{}{}
	seenIDs := map[int]string{}

	for _, leg := range legs {
		shared := t.extractSharedData(leg)

		for _, member := range shared.CrewMembers {
			if member.PositionID != 0 && member.Name != "" {
				if _, ok := lookups.Crew[member.Name]; !ok {
					unmatchedCrew[member.Name] = struct{}{}
				}
			}
		}

		departureICAO := strings.ToUpper(strings.TrimSpace(leg.DepartureICAO))
		arrivalICAO := strings.ToUpper(strings.TrimSpace(leg.ArrivalICAO))
		if departureICAO != "" {
			if _, ok := lookups.Airports[departureICAO]; !ok {
				unmatchedAirports[departureICAO] = struct{}{}
			}
		}
		if arrivalICAO != "" {
			if _, ok := lookups.Airports[arrivalICAO]; !ok {
				unmatchedAirports[arrivalICAO] = struct{}{}
			}
		}

		// A present but unresolved tail number drops the whole leg,
		// movement and crew rows alike. An absent tail number keeps the
		// leg with a null aircraft id.
		aircraftID, aircraftFound := lookups.Aircraft[shared.TailNumber]
		if shared.TailNumber != "" && !aircraftFound {
			unmatchedAircraft[shared.TailNumber] = struct{}{}
			route := "Unknown route"
			if departureICAO != "" && arrivalICAO != "" {
				route = departureICAO + "->" + arrivalICAO
			}
			result.Skipped = append(result.Skipped, entity.SkippedFlight{
				ExternalID:         shared.ExternalID,
				TripNumber:         leg.TripNumber,
				TailNumber:         shared.TailNumber,
				Route:              route,
				ScheduledDeparture: leg.ScheduledDepartureDateUTC,
				Status:             leg.Status,
			})
			continue
		}

		if previous, dup := seenIDs[shared.StableID]; dup {
			t.logger.Warn("Duplicate stable id detected; second write wins on upsert",
				"stableId", shared.StableID,
				"previousExternalId", previous,
				"externalId", shared.ExternalID)
		} else {
			seenIDs[shared.StableID] = shared.ExternalID
		}

		movement := t.buildMovement(leg, shared, lookups, departureICAO, arrivalICAO)
		result.Movements = append(result.Movements, movement)

		if aircraftFound {
			result.CrewAssignments = append(result.CrewAssignments,
				t.buildCrewAssignments(shared, aircraftID, lookups.Crew)...)
		}
	}

	result.UnmatchedCrew = sortedKeys(unmatchedCrew)
	result.UnmatchedAirports = sortedKeys(unmatchedAirports)
	result.UnmatchedAircraft = sortedKeys(unmatchedAircraft)

	t.logSummary(result)
	return result
}

func (t *FlightTransformer) buildMovement(leg entity.FlightLeg, shared sharedLegData, lookups Lookups, departureICAO, arrivalICAO string) entity.Movement {
	oooi := utils.ComputeOOOI(shared.ScheduledDeparture, shared.ScheduledArrival)

	isPosition := 0
	if leg.IsEmpty != nil && *leg.IsEmpty {
		isPosition = 1
	}

	var demandID *int
	if isPosition == 0 {
		id := shared.StableID
		demandID = &id
	}

	isOwner := 0
	if leg.TripRegulatoryType == "Part 91" {
		isOwner = 1
	}

	movement := entity.Movement{
		ID:             shared.StableID,
		DemandID:       demandID,
		AircraftID:     lookupOptional(lookups.Aircraft, shared.TailNumber),
		FromAirportID:  lookupOptional(lookups.Airports, departureICAO),
		ToAirportID:    lookupOptional(lookups.Airports, arrivalICAO),
		PICID:          lookupOptional(lookups.Crew, shared.PICName),
		SICID:          lookupOptional(lookups.Crew, shared.SICName),
		OutTime:        oooi.OutTime,
		OffTime:        oooi.OffTime,
		OnTime:         oooi.OnTime,
		InTime:         oooi.InTime,
		ActualOutTime:  shared.OutBlocks,
		ActualOffTime:  shared.ActualDeparture,
		ActualOnTime:   shared.ActualArrival,
		ActualInTime:   shared.InBlocks,
		FlightTime:     oooi.FlightTime,
		BlockTime:      oooi.BlockTime,
		Status:         utils.CleanString(leg.Status),
		ExternalID:     shared.ExternalID,
		CreateTime:     shared.CreateTime,
		FromAirport:    utils.CleanString(leg.DepartureICAO),
		ToAirport:      utils.CleanString(leg.ArrivalICAO),
		TailNumber:     utils.CleanString(shared.TailNumber),
		PIC:            utils.CleanString(shared.PICName),
		SIC:            utils.CleanString(shared.SICName),
		PassengerCount: leg.PassengerCount,
		TripNumber:     utils.SafeInt(leg.TripNumber),
		IsPosition:     isPosition,
		IsOwner:        isOwner,
		TripID:         shared.TripID,
	}

	return movement
}

func (t *FlightTransformer) buildCrewAssignments(shared sharedLegData, aircraftID int, crewLookup map[string]int) []entity.CrewAssignment {
	var assignments []entity.CrewAssignment

	for _, member := range shared.CrewMembers {
		if member.PositionID == 0 {
			t.logger.Warn("Unknown crew position; assignment dropped",
				"position", member.Position, "crew", member.Name, "externalId", shared.ExternalID)
			continue
		}

		crewID, ok := crewLookup[member.Name]
		if !ok {
			t.logger.Debug("Crew not resolved; assignment dropped",
				"crew", member.Name, "externalId", shared.ExternalID)
			continue
		}

		assignments = append(assignments, entity.CrewAssignment{
			AircraftID:      aircraftID,
			CrewID:          crewID,
			PositionID:      member.PositionID,
			StartTime:       shared.ScheduledDeparture,
			EndTime:         shared.ScheduledArrival,
			ActualStartTime: shared.ActualDeparture,
			ActualEndTime:   shared.ActualArrival,
			ExternalID:      shared.ExternalID,
			CreateTime:      shared.CreateTime,
			TailNumber:      utils.CleanString(shared.TailNumber),
			CrewName:        member.Name,
		})
	}

	return assignments
}

func (t *FlightTransformer) logSummary(result TransformResult) {
	for _, name := range result.UnmatchedCrew {
		t.logger.Warn("Crew not found", "crew", name)
	}
	for _, code := range result.UnmatchedAirports {
		t.logger.Warn("Airport not found", "icao", code)
	}
	for _, tail := range result.UnmatchedAircraft {
		t.logger.Warn("Aircraft not found", "tailNumber", tail)
	}

	if len(result.Skipped) > 0 {
		t.logger.Warn("Flights skipped due to unmatched aircraft", "count", len(result.Skipped))
		skippedByTail := map[string]int{}
		for _, skipped := range result.Skipped {
			t.logger.Warn("Skipped flight",
				"externalId", skipped.ExternalID,
				"trip", skipped.TripNumber,
				"tailNumber", skipped.TailNumber,
				"route", skipped.Route,
				"departure", skipped.ScheduledDeparture,
				"status", skipped.Status)
			skippedByTail[skipped.TailNumber]++
		}
		for _, tail := range sortedKeys(toSet(skippedByTail)) {
			t.logger.Warn("Skipped flights by aircraft",
				"tailNumber", tail, "flights", skippedByTail[tail])
		}
	}

	if len(result.UnmatchedCrew) == 0 && len(result.UnmatchedAirports) == 0 && len(result.UnmatchedAircraft) == 0 {
		t.logger.Info("All crew, airports, and aircraft were successfully matched")
	}

	t.logger.Info(fmt.Sprintf("Transformed %d flight records, %d crew assignment records",
		len(result.Movements), len(result.CrewAssignments)))
}

func lookupOptional(lookup map[string]int, key string) *int {
	if key == "" {
		return nil
	}
	if id, ok := lookup[key]; ok {
		return &id
	}
	return nil
}

func sortedKeys[V any](set map[string]V) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func toSet(counts map[string]int) map[string]struct{} {
	set := make(map[string]struct{}, len(counts))
	for key := range counts {
		set[key] = struct{}{}
	}
	return set
}
