package usecase

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"
)

// CrewDerivation runs the post-load batch jobs derived from movement
// data: qualification rebuild and day-level availability.
type CrewDerivation struct {
	derivationRepo repository.DerivationRepository
	logger         logger.Logger
}

// NewCrewDerivation creates a new crew derivation usecase
func NewCrewDerivation(derivationRepo repository.DerivationRepository, logger logger.Logger) *CrewDerivation {
	return &CrewDerivation{
		derivationRepo: derivationRepo,
		logger:         logger,
	}
}

// RebuildQualifications recomputes every crew qualification from the
// loaded movements.
func (d *CrewDerivation) RebuildQualifications(ctx context.Context) (entity.QualificationResult, error) {
	return d.derivationRepo.RebuildQualifications(ctx)
}

// RebuildAvailability regenerates per-day crew availability over the load
// window, using the fixed noon cutoff for unavailability end days.
func (d *CrewDerivation) RebuildAvailability(ctx context.Context, start, end time.Time, isInitial bool) (int, error) {
	return d.derivationRepo.RebuildAvailability(ctx, start, end, utils.AvailabilityCutoffHour, isInitial)
}
