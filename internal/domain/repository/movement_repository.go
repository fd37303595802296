package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
)

// MovementRepository owns the movement staging table, the movement target
// table and the demand projection. Each method runs in its own
// transaction; there is no cross-step transaction.
type MovementRepository interface {
	// StageMovements truncates movement_temp unconditionally and bulk
	// inserts the transformed records. The staging table is always fully
	// rebuilt per run, never date-scoped.
	StageMovements(ctx context.Context, movements []entity.Movement) (int, error)

	// ClearMovementTarget truncates the whole movement table on an
	// initial load; on an incremental load it deletes only rows whose
	// outtime falls inside [start, end], compared by calendar date on
	// both ends.
	ClearMovementTarget(ctx context.Context, isInitial bool, start, end time.Time) error

	// UpsertMovementsFromStaging inserts every staged row into movement;
	// on id conflict every non-key column is overwritten with the staged
	// value.
	UpsertMovementsFromStaging(ctx context.Context) (int, error)

	// ClearDemandTarget applies the same truncate / date-scoped-delete
	// policy to demand.
	ClearDemandTarget(ctx context.Context, isInitial bool, start, end time.Time) error

	// UpsertDemandFromStaging inserts the staged rows with isposition = 0
	// into demand, overwriting on id conflict.
	UpsertDemandFromStaging(ctx context.Context) (int, error)

	// UpdateDemandAircraftRequests applies trip-level requested
	// aircraft type/category values. Requests for absent demand rows are
	// silently skipped. Returns the number of rows actually updated.
	UpdateDemandAircraftRequests(ctx context.Context, requests []entity.DemandAircraftRequest) (int, error)

	// PopulateDemandAircraftRequestsFromFleet is the reference-join
	// fallback used when no trip detail source is configured: it fills
	// requested type/category from the assigned aircraft's type and
	// category. Rows without a fleet match stay null.
	PopulateDemandAircraftRequestsFromFleet(ctx context.Context) (int, error)

	// TruncateStaging empties movement_temp. Used for best-effort
	// cleanup; its error must never mask the original failure.
	TruncateStaging(ctx context.Context) error
}
