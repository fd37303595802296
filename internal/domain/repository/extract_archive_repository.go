package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
)

// ExtractArchiveRepository stores raw provider payloads before
// transformation, for replay and operational diagnosis.
type ExtractArchiveRepository interface {
	SaveFlightLegBatch(ctx context.Context, operator string, runID string, legs []entity.FlightLeg, fetchedAt time.Time) error
}
