package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"

	"gorm.io/gorm"
)

// updatedBy tags the derivation jobs' writes in the warehouse.
const updatedBy = "skyfleet_etl"

// GormDerivationRepository implements the downstream qualification and
// availability batch jobs.
type GormDerivationRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormDerivationRepository creates a new GORM derivation repository
func NewGormDerivationRepository(db *gorm.DB, logger logger.Logger) repository.DerivationRepository {
	return &GormDerivationRepository{
		db:     db,
		logger: logger,
	}
}

// RebuildQualifications recomputes crewqualification wholesale from the
// current movement table. Types 1 and 2 are merged into type 1, an
// operator convention for interchangeable light types.
func (r *GormDerivationRepository) RebuildQualifications(ctx context.Context) (entity.QualificationResult, error) {
	var counts entity.QualificationResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM crewqualification").Error; err != nil {
			return err
		}

		picResult := tx.Exec(`
			INSERT INTO crewqualification (crewid, aircrafttypeid, positionid, isactive, typecount, createtime, updatedby)
			SELECT
				picid,
				aircrafttypeid,
				1,
				1,
				ROW_NUMBER() OVER (PARTITION BY picid ORDER BY aircrafttypeid),
				MIN(createtime),
				?
			FROM (
				SELECT DISTINCT
					m.picid,
					CASE WHEN a.aircrafttypeid IN (1, 2) THEN 1 ELSE a.aircrafttypeid END AS aircrafttypeid,
					m.createtime
				FROM movement m
				LEFT JOIN aircraft a ON m.aircraftid = a.id
				WHERE m.picid IS NOT NULL
			) p
			GROUP BY picid, aircrafttypeid`, updatedBy)
		if picResult.Error != nil {
			return picResult.Error
		}
		counts.PIC = int(picResult.RowsAffected)

		sicResult := tx.Exec(`
			INSERT INTO crewqualification (crewid, aircrafttypeid, positionid, isactive, typecount, createtime, updatedby)
			SELECT
				sicid,
				aircrafttypeid,
				2,
				1,
				ROW_NUMBER() OVER (PARTITION BY sicid ORDER BY aircrafttypeid),
				MIN(createtime),
				?
			FROM (
				SELECT DISTINCT s.sicid, s.aircrafttypeid, s.createtime
				FROM (
					SELECT DISTINCT
						m.sicid,
						CASE WHEN a.aircrafttypeid IN (1, 2) THEN 1 ELSE a.aircrafttypeid END AS aircrafttypeid,
						m.createtime
					FROM movement m
					LEFT JOIN aircraft a ON m.aircraftid = a.id
					WHERE m.sicid IS NOT NULL
				) s
				WHERE NOT EXISTS (
					SELECT 1 FROM crewqualification cq
					WHERE cq.crewid = s.sicid AND cq.aircrafttypeid = s.aircrafttypeid
				)
			) q
			GROUP BY sicid, aircrafttypeid`, updatedBy)
		if sicResult.Error != nil {
			return sicResult.Error
		}
		counts.SIC = int(sicResult.RowsAffected)
		counts.Total = counts.PIC + counts.SIC
		return nil
	})
	if err != nil {
		return entity.QualificationResult{}, err
	}

	r.logger.Info("Rebuilt crew qualifications",
		"pic", counts.PIC, "sic", counts.SIC, "total", counts.Total)
	return counts, nil
}

// RebuildAvailability regenerates crewavaildate for the window. A day is
// unavailable when it falls strictly inside an unavailability interval,
// or equals the interval's end date with an end hour past the cutoff.
func (r *GormDerivationRepository) RebuildAvailability(ctx context.Context, start, end time.Time, cutoffHour int, isInitial bool) (int, error) {
	inserted := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isInitial {
			if err := tx.Exec("TRUNCATE TABLE crewavaildate").Error; err != nil {
				return err
			}
			r.logger.Info("Truncated crewavaildate for initial load")
		} else {
			deleteResult := tx.Exec(`
				DELETE FROM crewavaildate
				WHERE availdate BETWEEN ?::date AND ?::date`, start, end)
			if deleteResult.Error != nil {
				return deleteResult.Error
			}
			r.logger.Info("Cleared availability rows in window",
				"deleted", deleteResult.RowsAffected, "start", start, "end", end)
		}

		insertResult := tx.Exec(`
			INSERT INTO crewavaildate (crewid, availdate, crewname, createtime)
			SELECT g.crewid, g.availdate, g.crewname, NOW()
			FROM (
				SELECT c.id AS crewid, c.name AS crewname, d.day::date AS availdate
				FROM crew c
				CROSS JOIN generate_series(?::date, ?::date, INTERVAL '1 day') AS d(day)
				WHERE c.isactive = 1
			) g
			LEFT JOIN crewunavaildate u
				ON g.crewid = u.crewid
				AND g.availdate BETWEEN u.starttime::date AND u.endtime::date - 1
			LEFT JOIN crewunavaildate u2
				ON g.crewid = u2.crewid
				AND g.availdate = u2.endtime::date
				AND EXTRACT(HOUR FROM u2.endtime) > ?
			WHERE u.crewid IS NULL
			AND u2.crewid IS NULL
			ON CONFLICT DO NOTHING`, start, end, cutoffHour)
		if insertResult.Error != nil {
			return insertResult.Error
		}
		inserted = int(insertResult.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Rebuilt crew availability", "inserted", inserted, "start", start, "end", end)
	return inserted, nil
}
