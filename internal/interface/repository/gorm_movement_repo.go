package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"

	"gorm.io/gorm"
)

// movementColumns is the exhaustive column list shared by the staging
// insert and the staging-to-target upsert. The upsert enumerates columns
// explicitly so the overwrite contract stays auditable.
const movementColumns = `id, demandid, fromairportid, toairportid, aircraftid,
	outtime, offtime, ontime, intime,
	actualouttime, actualofftime, actualontime, actualintime,
	flighttime, blocktime, status, picid, sicid,
	externalid, createtime, fromairport, toairport, tailnumber,
	pic, sic, numberpassenger, tripnumber, isposition, isowner, tripid`

const movementColumnCount = 30

// GormMovementRepository implements MovementRepository against the
// movement_temp staging table and the movement/demand targets.
type GormMovementRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormMovementRepository creates a new GORM movement repository
func NewGormMovementRepository(db *gorm.DB, logger logger.Logger) repository.MovementRepository {
	return &GormMovementRepository{
		db:     db,
		logger: logger,
	}
}

// StageMovements rebuilds movement_temp from scratch with the transformed
// batch.
func (r *GormMovementRepository) StageMovements(ctx context.Context, movements []entity.Movement) (int, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE TABLE movement_temp").Error; err != nil {
			return err
		}

		for offset := 0; offset < len(movements); offset += insertBatchSize {
			end := offset + insertBatchSize
			if end > len(movements) {
				end = len(movements)
			}
			chunk := movements[offset:end]

			args := make([]interface{}, 0, len(chunk)*movementColumnCount)
			for _, m := range chunk {
				args = append(args,
					m.ID, m.DemandID, m.FromAirportID, m.ToAirportID, m.AircraftID,
					m.OutTime, m.OffTime, m.OnTime, m.InTime,
					m.ActualOutTime, m.ActualOffTime, m.ActualOnTime, m.ActualInTime,
					m.FlightTime, m.BlockTime, m.Status, m.PICID, m.SICID,
					m.ExternalID, m.CreateTime, m.FromAirport, m.ToAirport, m.TailNumber,
					m.PIC, m.SIC, m.PassengerCount, m.TripNumber, m.IsPosition, m.IsOwner, m.TripID,
				)
			}

			insert := "INSERT INTO movement_temp (" + movementColumns + ") VALUES " +
				valuesPlaceholders(len(chunk), movementColumnCount)
			if err := tx.Exec(insert, args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Staged movement records", "count", len(movements))
	return len(movements), nil
}

// ClearMovementTarget empties the movement target for the load scope.
func (r *GormMovementRepository) ClearMovementTarget(ctx context.Context, isInitial bool, start, end time.Time) error {
	if isInitial {
		r.logger.Info("Truncating movement table for initial load")
		return r.db.WithContext(ctx).Exec("TRUNCATE TABLE movement").Error
	}

	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM movement
		WHERE outtime::date BETWEEN ?::date AND ?::date`, start, end)
	if result.Error != nil {
		return result.Error
	}
	r.logger.Info("Cleared movement rows in load window",
		"deleted", result.RowsAffected, "start", start, "end", end)
	return nil
}

// UpsertMovementsFromStaging copies every staged row into movement,
// overwriting all non-key columns on id conflict.
func (r *GormMovementRepository) UpsertMovementsFromStaging(ctx context.Context) (int, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO movement (` + movementColumns + `)
		SELECT ` + movementColumns + `
		FROM movement_temp
		ON CONFLICT (id) DO UPDATE SET
			demandid = EXCLUDED.demandid,
			fromairportid = EXCLUDED.fromairportid,
			toairportid = EXCLUDED.toairportid,
			aircraftid = EXCLUDED.aircraftid,
			outtime = EXCLUDED.outtime,
			offtime = EXCLUDED.offtime,
			ontime = EXCLUDED.ontime,
			intime = EXCLUDED.intime,
			actualouttime = EXCLUDED.actualouttime,
			actualofftime = EXCLUDED.actualofftime,
			actualontime = EXCLUDED.actualontime,
			actualintime = EXCLUDED.actualintime,
			flighttime = EXCLUDED.flighttime,
			blocktime = EXCLUDED.blocktime,
			status = EXCLUDED.status,
			picid = EXCLUDED.picid,
			sicid = EXCLUDED.sicid,
			externalid = EXCLUDED.externalid,
			createtime = EXCLUDED.createtime,
			fromairport = EXCLUDED.fromairport,
			toairport = EXCLUDED.toairport,
			tailnumber = EXCLUDED.tailnumber,
			pic = EXCLUDED.pic,
			sic = EXCLUDED.sic,
			numberpassenger = EXCLUDED.numberpassenger,
			tripnumber = EXCLUDED.tripnumber,
			isposition = EXCLUDED.isposition,
			isowner = EXCLUDED.isowner,
			tripid = EXCLUDED.tripid`)
	if result.Error != nil {
		return 0, result.Error
	}

	r.logger.Info("Upserted movements from staging", "rows", result.RowsAffected)
	return int(result.RowsAffected), nil
}

// ClearDemandTarget applies the movement clearing policy to demand.
func (r *GormMovementRepository) ClearDemandTarget(ctx context.Context, isInitial bool, start, end time.Time) error {
	if isInitial {
		r.logger.Info("Truncating demand table for initial load")
		return r.db.WithContext(ctx).Exec("TRUNCATE TABLE demand").Error
	}

	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM demand
		WHERE outtime::date BETWEEN ?::date AND ?::date`, start, end)
	if result.Error != nil {
		return result.Error
	}
	r.logger.Info("Cleared demand rows in load window",
		"deleted", result.RowsAffected, "start", start, "end", end)
	return nil
}

// UpsertDemandFromStaging projects the qualifying staged rows
// (isposition = 0) into demand, sharing the movement id.
func (r *GormMovementRepository) UpsertDemandFromStaging(ctx context.Context) (int, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO demand (
			id, legnumber, tripnumber, requestaircrafttypeid, requestaircraftcategoryid,
			fromairportid, toairportid, aircraftid, outtime, intime,
			numberpassenger, flighttime, blocktime, status, flexbefore, flexafter,
			isowner, iswholesale, isofffleet, externalid, createtime
		)
		SELECT
			demandid, 1, tripnumber, NULL, NULL,
			fromairportid, toairportid, aircraftid, outtime, intime,
			numberpassenger, flighttime, blocktime, status, 0, 0,
			isowner, 0, 0, tripid, createtime
		FROM movement_temp
		WHERE isposition = 0
		ON CONFLICT (id) DO UPDATE SET
			legnumber = EXCLUDED.legnumber,
			tripnumber = EXCLUDED.tripnumber,
			fromairportid = EXCLUDED.fromairportid,
			toairportid = EXCLUDED.toairportid,
			aircraftid = EXCLUDED.aircraftid,
			outtime = EXCLUDED.outtime,
			intime = EXCLUDED.intime,
			numberpassenger = EXCLUDED.numberpassenger,
			flighttime = EXCLUDED.flighttime,
			blocktime = EXCLUDED.blocktime,
			status = EXCLUDED.status,
			isowner = EXCLUDED.isowner,
			externalid = EXCLUDED.externalid,
			createtime = EXCLUDED.createtime`)
	if result.Error != nil {
		return 0, result.Error
	}

	r.logger.Info("Upserted demand from staging", "rows", result.RowsAffected)
	return int(result.RowsAffected), nil
}

// UpdateDemandAircraftRequests applies trip-level requested aircraft
// values row by row. Requests without a matching demand row are skipped.
func (r *GormMovementRepository) UpdateDemandAircraftRequests(ctx context.Context, requests []entity.DemandAircraftRequest) (int, error) {
	updated := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, req := range requests {
			result := tx.Exec(`
				UPDATE demand
				SET requestaircrafttypeid = ?, requestaircraftcategoryid = ?
				WHERE id = ?`, req.AircraftTypeID, req.AircraftCategoryID, req.DemandID)
			if result.Error != nil {
				return result.Error
			}
			updated += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Populated demand aircraft requests", "updated", updated, "requested", len(requests))
	return updated, nil
}

// PopulateDemandAircraftRequestsFromFleet fills requested type/category
// from the assigned aircraft's fleet reference rows.
func (r *GormMovementRepository) PopulateDemandAircraftRequestsFromFleet(ctx context.Context) (int, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE demand d
		SET requestaircrafttypeid = a.aircrafttypeid,
		    requestaircraftcategoryid = t.aircraftcategoryid
		FROM aircraft a
		JOIN aircrafttype t ON t.id = a.aircrafttypeid
		WHERE d.aircraftid = a.id`)
	if result.Error != nil {
		return 0, result.Error
	}

	r.logger.Info("Populated demand aircraft requests from fleet reference", "updated", result.RowsAffected)
	return int(result.RowsAffected), nil
}

// TruncateStaging empties movement_temp.
func (r *GormMovementRepository) TruncateStaging(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE movement_temp").Error
}
