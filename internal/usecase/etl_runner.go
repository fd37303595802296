package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"
)

// FlightLegSource fetches raw flight legs for a date range from the
// scheduling provider.
type FlightLegSource interface {
	FlightLegs(ctx context.Context, start, end time.Time) ([]entity.FlightLeg, error)
}

// ETLRunner drives one end-to-end run: fetch, archive, load, derive. The
// archive repository is optional; without it raw batches are simply not
// retained.
type ETLRunner struct {
	operator          string
	source            FlightLegSource
	archive           repository.ExtractArchiveRepository
	pipeline          *FlightPipeline
	derivation        *CrewDerivation
	initialWindow     utils.LoadWindow
	incrementalWindow utils.LoadWindow
	logger            logger.Logger
}

// NewETLRunner creates a new ETL runner. archive may be nil.
func NewETLRunner(
	operator string,
	source FlightLegSource,
	archive repository.ExtractArchiveRepository,
	pipeline *FlightPipeline,
	derivation *CrewDerivation,
	initialWindow utils.LoadWindow,
	incrementalWindow utils.LoadWindow,
	logger logger.Logger,
) *ETLRunner {
	return &ETLRunner{
		operator:          operator,
		source:            source,
		archive:           archive,
		pipeline:          pipeline,
		derivation:        derivation,
		initialWindow:     initialWindow,
		incrementalWindow: incrementalWindow,
		logger:            logger,
	}
}

// LoadFlightData fetches the window's flight legs and runs the full
// pipeline plus derivations. The archive write is best-effort; a failed
// archive never fails the load.
func (r *ETLRunner) LoadFlightData(ctx context.Context, isInitial bool) (entity.LoadResult, error) {
	runID := uuid.NewString()
	window := r.incrementalWindow
	if isInitial {
		window = r.initialWindow
	}
	dates := window.RangeFor(time.Now())

	log := r.logger.With("runId", runID, "operator", r.operator, "initial", isInitial)
	log.Info("Starting flight data load",
		"start", dates.Start.Format(time.RFC3339), "end", dates.End.Format(time.RFC3339))

	legs, err := r.source.FlightLegs(ctx, dates.Start, dates.End)
	if err != nil {
		return entity.LoadResult{}, err
	}
	log.Info("Fetched flight legs", "count", len(legs))

	if r.archive != nil {
		if err := r.archive.SaveFlightLegBatch(ctx, r.operator, runID, legs, time.Now().UTC()); err != nil {
			log.Warn("Failed to archive raw extract batch", "error", err)
		}
	}

	result, err := r.pipeline.ProcessFlightSchedules(ctx, legs, isInitial, dates.Start, dates.End)
	if err != nil {
		return entity.LoadResult{}, err
	}

	if _, err := r.derivation.RebuildQualifications(ctx); err != nil {
		return result, err
	}
	if _, err := r.derivation.RebuildAvailability(ctx, dates.Start, dates.End, isInitial); err != nil {
		return result, err
	}

	log.Info("Flight data load finished",
		"movements", result.MovementLoaded,
		"demand", result.DemandLoaded,
		"crewShifts", result.CrewShiftsLoaded)
	return result, nil
}
