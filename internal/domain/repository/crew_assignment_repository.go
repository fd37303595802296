package repository

import (
	"context"

	"skyfleet-etl/internal/domain/entity"
)

// CrewAssignmentRepository owns the crew-assignment staging table and the
// aggregated shift target table.
type CrewAssignmentRepository interface {
	// StageAssignments truncates crewassignment_temp unconditionally and
	// bulk inserts the per-leg rows.
	StageAssignments(ctx context.Context, assignments []entity.CrewAssignment) (int, error)

	// TransferShifts deletes target rows whose duty date falls inside the
	// staging table's observed start-time span, inserts one shift per
	// (crew, aircraft, duty date, position) group with -60/+30 minute
	// padding, then truncates the staging table. Returns the number of
	// shifts inserted.
	TransferShifts(ctx context.Context) (int, error)

	// TruncateStaging empties crewassignment_temp for best-effort
	// cleanup.
	TruncateStaging(ctx context.Context) error
}
