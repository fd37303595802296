package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
)

// DerivationRepository runs the downstream batch jobs that recompute crew
// qualifications and day-level availability after a load.
type DerivationRepository interface {
	// RebuildQualifications recomputes crewqualification wholesale from
	// the current movement table: PIC pairs first, then SIC pairs not
	// already present as PIC, with a per-crew sequence number.
	RebuildQualifications(ctx context.Context) (entity.QualificationResult, error)

	// RebuildAvailability regenerates crewavaildate for [start, end]:
	// one row per active crew member and day, excluding days covered by
	// an unavailability interval. A day equal to the interval's end date
	// is excluded only when the end hour is past cutoffHour.
	RebuildAvailability(ctx context.Context, start, end time.Time, cutoffHour int, isInitial bool) (int, error)
}
