package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"

	"gorm.io/gorm"
)

const crewAssignmentColumns = `aircraftid, crewid, positionid,
	starttime, endtime, actualstarttime, actualendtime,
	externalid, createtime, tailnumber, crewname`

const crewAssignmentColumnCount = 11

// GormCrewAssignmentRepository implements CrewAssignmentRepository
// against crewassignment_temp and the aggregated crewassignment target.
type GormCrewAssignmentRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormCrewAssignmentRepository creates a new GORM crew assignment repository
func NewGormCrewAssignmentRepository(db *gorm.DB, logger logger.Logger) repository.CrewAssignmentRepository {
	return &GormCrewAssignmentRepository{
		db:     db,
		logger: logger,
	}
}

// StageAssignments rebuilds crewassignment_temp with the per-leg rows.
func (r *GormCrewAssignmentRepository) StageAssignments(ctx context.Context, assignments []entity.CrewAssignment) (int, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE TABLE crewassignment_temp").Error; err != nil {
			return err
		}

		for offset := 0; offset < len(assignments); offset += insertBatchSize {
			end := offset + insertBatchSize
			if end > len(assignments) {
				end = len(assignments)
			}
			chunk := assignments[offset:end]

			args := make([]interface{}, 0, len(chunk)*crewAssignmentColumnCount)
			for _, a := range chunk {
				args = append(args,
					a.AircraftID, a.CrewID, a.PositionID,
					a.StartTime, a.EndTime, a.ActualStartTime, a.ActualEndTime,
					a.ExternalID, a.CreateTime, a.TailNumber, a.CrewName,
				)
			}

			insert := "INSERT INTO crewassignment_temp (" + crewAssignmentColumns + ") VALUES " +
				valuesPlaceholders(len(chunk), crewAssignmentColumnCount)
			if err := tx.Exec(insert, args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Staged crew assignment records", "count", len(assignments))
	return len(assignments), nil
}

type stagingSpan struct {
	MinDate *time.Time
	MaxDate *time.Time
}

// TransferShifts aggregates the staged per-leg rows into duty-period
// shifts. The delete scope is the observed start-time span of the staged
// batch, not the nominal query range.
func (r *GormCrewAssignmentRepository) TransferShifts(ctx context.Context) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var span stagingSpan
		err := tx.Raw(`
			SELECT MIN(starttime)::date AS min_date, MAX(starttime)::date AS max_date
			FROM crewassignment_temp
			WHERE starttime IS NOT NULL`).Scan(&span).Error
		if err != nil {
			return err
		}
		if span.MinDate == nil || span.MaxDate == nil {
			r.logger.Info("No staged crew assignments to transfer")
			return nil
		}

		deleteResult := tx.Exec(`
			DELETE FROM crewassignment
			WHERE dutydate BETWEEN ? AND ?`, span.MinDate, span.MaxDate)
		if deleteResult.Error != nil {
			return deleteResult.Error
		}
		r.logger.Info("Deleted existing crew shifts in observed span",
			"deleted", deleteResult.RowsAffected,
			"minDate", span.MinDate, "maxDate", span.MaxDate)

		insertResult := tx.Exec(`
			INSERT INTO crewassignment (
				crewid, dutydate, aircraftid, positionid,
				starttime, endtime, actualstarttime, actualendtime,
				externalid, createtime, tailnumber, crewname
			)
			SELECT
				crewid,
				dutydate,
				aircraftid,
				positionid,
				MIN(starttime - make_interval(mins => ?)) AS starttime,
				MAX(endtime + make_interval(mins => ?)) AS endtime,
				MIN(actualstarttime) AS actualstarttime,
				MAX(actualendtime) AS actualendtime,
				STRING_AGG(DISTINCT externalid, ',' ORDER BY externalid) AS externalid,
				NOW() AS createtime,
				STRING_AGG(DISTINCT tailnumber, ',' ORDER BY tailnumber) AS tailnumber,
				MAX(crewname) AS crewname
			FROM (
				SELECT
					crewid, aircraftid, positionid,
					starttime, endtime, actualstarttime, actualendtime,
					externalid, tailnumber, crewname,
					CASE
						WHEN EXTRACT(HOUR FROM starttime) >= ? THEN starttime::date
						ELSE starttime::date - 1
					END AS dutydate
				FROM crewassignment_temp
				WHERE crewid IS NOT NULL
				AND starttime IS NOT NULL
				AND endtime IS NOT NULL
			) staged
			GROUP BY crewid, aircraftid, dutydate, positionid
			ORDER BY dutydate, crewid, positionid`,
			utils.ShiftPreMinutes, utils.ShiftPostMinutes, utils.DutyDateCutoverHour)
		if insertResult.Error != nil {
			return insertResult.Error
		}
		inserted = int(insertResult.RowsAffected)

		// Garbage collect the staging table once the transfer holds.
		return tx.Exec("TRUNCATE TABLE crewassignment_temp").Error
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Transferred aggregated crew shifts", "shifts", inserted)
	return inserted, nil
}

// TruncateStaging empties crewassignment_temp.
func (r *GormCrewAssignmentRepository) TruncateStaging(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE crewassignment_temp").Error
}
