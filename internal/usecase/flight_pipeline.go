package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/metrics"
	"skyfleet-etl/pkg/utils"
)

// TripDetailSource fetches the richer per-trip itinerary used by the
// demand aircraft-request enrichment. When no source is configured the
// pipeline falls back to the fleet reference join.
type TripDetailSource interface {
	TripItinerary(ctx context.Context, tripID string) (*entity.TripItinerary, error)
}

// FlightPipeline orchestrates one transform-and-load run: bulk lookups,
// transformation, concurrent staging, the ordered target writes, and
// best-effort staging cleanup on failure. Each write step commits
// independently; there is no cross-step transaction.
type FlightPipeline struct {
	lookupRepo   repository.LookupRepository
	movementRepo repository.MovementRepository
	crewRepo     repository.CrewAssignmentRepository
	transformer  *FlightTransformer
	tripSource   TripDetailSource
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewFlightPipeline creates a new flight pipeline. tripSource may be nil;
// the fleet-reference fallback then handles demand enrichment.
func NewFlightPipeline(
	lookupRepo repository.LookupRepository,
	movementRepo repository.MovementRepository,
	crewRepo repository.CrewAssignmentRepository,
	transformer *FlightTransformer,
	tripSource TripDetailSource,
	m *metrics.Metrics,
	logger logger.Logger,
) *FlightPipeline {
	return &FlightPipeline{
		lookupRepo:   lookupRepo,
		movementRepo: movementRepo,
		crewRepo:     crewRepo,
		transformer:  transformer,
		tripSource:   tripSource,
		metrics:      m,
		logger:       logger,
	}
}

// ProcessFlightSchedules runs the full pipeline for one fetched batch.
// An empty batch is a no-op success. On any step failure both staging
// tables are truncated best-effort and the original error is returned.
func (p *FlightPipeline) ProcessFlightSchedules(ctx context.Context, legs []entity.FlightLeg, isInitial bool, start, end time.Time) (entity.LoadResult, error) {
	started := time.Now()
	loadType := "incremental"
	if isInitial {
		loadType = "initial"
	}

	if len(legs) == 0 {
		p.logger.Info("No flight data to load", "loadType", loadType)
		return entity.LoadResult{}, nil
	}

	result, err := p.run(ctx, legs, isInitial, start, end)

	elapsed := time.Since(started)
	if p.metrics != nil {
		p.metrics.PipelineSeconds.Observe(elapsed.Seconds())
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		p.metrics.PipelineRuns.WithLabelValues(loadType, outcome).Inc()
	}
	if err != nil {
		p.cleanupStaging(ctx)
		return entity.LoadResult{}, err
	}

	p.logger.Info("Flight schedule load complete",
		"loadType", loadType,
		"movements", result.MovementLoaded,
		"demand", result.DemandLoaded,
		"shifts", result.CrewShiftsLoaded,
		"duration", elapsed.String())
	return result, nil
}

func (p *FlightPipeline) run(ctx context.Context, legs []entity.FlightLeg, isInitial bool, start, end time.Time) (entity.LoadResult, error) {
	var result entity.LoadResult

	crewNames, tailNumbers, icaoCodes := p.transformer.CollectLookupKeys(legs)

	crew, err := p.lookupRepo.BulkCrewIDs(ctx, crewNames)
	if err != nil {
		return result, p.stepError("lookup_crew", err)
	}
	aircraft, err := p.lookupRepo.BulkAircraftIDs(ctx, tailNumbers)
	if err != nil {
		return result, p.stepError("lookup_aircraft", err)
	}
	airports, err := p.lookupRepo.BulkAirportIDs(ctx, icaoCodes)
	if err != nil {
		return result, p.stepError("lookup_airports", err)
	}

	transformed := p.transformer.Transform(legs, Lookups{
		Crew:     crew,
		Aircraft: aircraft,
		Airports: airports,
	})
	if p.metrics != nil {
		p.metrics.LegsProcessed.Add(float64(len(legs)))
		p.metrics.LegsSkipped.Add(float64(len(transformed.Skipped)))
	}

	// Stage both tables concurrently; nothing touches the targets until
	// both stagings have committed.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		staged, err := p.movementRepo.StageMovements(groupCtx, transformed.Movements)
		if err != nil {
			return p.stepError("stage_movements", err)
		}
		result.MovementTempLoaded = staged
		return nil
	})
	group.Go(func() error {
		staged, err := p.crewRepo.StageAssignments(groupCtx, transformed.CrewAssignments)
		if err != nil {
			return p.stepError("stage_assignments", err)
		}
		result.CrewAssignmentsLoaded = staged
		return nil
	})
	if err := group.Wait(); err != nil {
		return result, err
	}

	if err := p.movementRepo.ClearMovementTarget(ctx, isInitial, start, end); err != nil {
		return result, p.stepError("clear_movement", err)
	}
	result.MovementLoaded, err = p.movementRepo.UpsertMovementsFromStaging(ctx)
	if err != nil {
		return result, p.stepError("upsert_movement", err)
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues("movement").Add(float64(result.MovementLoaded))
	}

	if err := p.movementRepo.ClearDemandTarget(ctx, isInitial, start, end); err != nil {
		return result, p.stepError("clear_demand", err)
	}
	result.DemandLoaded, err = p.movementRepo.UpsertDemandFromStaging(ctx)
	if err != nil {
		return result, p.stepError("upsert_demand", err)
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues("demand").Add(float64(result.DemandLoaded))
	}

	result.DemandAircraftRequests, err = p.enrichDemand(ctx, transformed.Movements)
	if err != nil {
		return result, p.stepError("enrich_demand", err)
	}

	result.CrewShiftsLoaded, err = p.crewRepo.TransferShifts(ctx)
	if err != nil {
		return result, p.stepError("transfer_shifts", err)
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues("crewassignment").Add(float64(result.CrewShiftsLoaded))
	}

	// Leave movement_temp empty between runs. The shift transfer already
	// truncated its own staging table.
	if err := p.movementRepo.TruncateStaging(ctx); err != nil {
		p.logger.Warn("Failed to truncate movement staging after load", "error", err)
	}

	return result, nil
}

// enrichDemand fills requested aircraft type/category on the freshly
// loaded demand rows. With a trip detail source configured the values
// come from per-trip itineraries; provider errors for a single trip are
// logged and skipped, only warehouse errors fail the step.
func (p *FlightPipeline) enrichDemand(ctx context.Context, movements []entity.Movement) (int, error) {
	if p.tripSource == nil {
		return p.movementRepo.PopulateDemandAircraftRequestsFromFleet(ctx)
	}

	demandIDs := map[int]struct{}{}
	tripIDs := map[string]struct{}{}
	for _, m := range movements {
		if m.DemandID == nil || m.TripID == "" {
			continue
		}
		demandIDs[*m.DemandID] = struct{}{}
		tripIDs[m.TripID] = struct{}{}
	}
	if len(tripIDs) == 0 {
		return 0, nil
	}

	var requests []entity.DemandAircraftRequest
	for tripID := range tripIDs {
		itinerary, err := p.tripSource.TripItinerary(ctx, tripID)
		if err != nil {
			p.logger.Warn("Failed to fetch trip itinerary; demand rows keep null requests",
				"tripId", tripID, "error", err)
			continue
		}
		for _, leg := range itinerary.Legs {
			if leg.DemandRequest == nil {
				continue
			}
			demandID := utils.MovementStableID(leg.ID)
			if _, ok := demandIDs[demandID]; !ok {
				continue
			}
			requests = append(requests, entity.DemandAircraftRequest{
				DemandID:           demandID,
				AircraftTypeID:     fleetID(leg.DemandRequest.AircraftModelID),
				AircraftCategoryID: fleetID(leg.DemandRequest.AircraftCategoryID),
			})
		}
	}
	if len(requests) == 0 {
		p.logger.Info("No demand aircraft requests found in trip itineraries")
		return 0, nil
	}

	return p.movementRepo.UpdateDemandAircraftRequests(ctx, requests)
}

// cleanupStaging truncates both staging tables after a failed run so the
// next run starts from a known-empty state. Cleanup errors are logged and
// never mask the original failure.
func (p *FlightPipeline) cleanupStaging(ctx context.Context) {
	if err := p.movementRepo.TruncateStaging(ctx); err != nil {
		p.logger.Warn("Failed to clean movement staging after error", "error", err)
	}
	if err := p.crewRepo.TruncateStaging(ctx); err != nil {
		p.logger.Warn("Failed to clean crew assignment staging after error", "error", err)
	}
}

func (p *FlightPipeline) stepError(operation string, err error) error {
	if p.metrics != nil {
		p.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
	p.logger.Error("Pipeline step failed", "operation", operation, "error", err)
	return err
}

func fleetID(externalID string) *int {
	if externalID == "" {
		return nil
	}
	id := utils.FleetStableID(externalID)
	return &id
}
