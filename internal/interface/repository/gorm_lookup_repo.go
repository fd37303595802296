package repository

import (
	"context"

	"skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/pkg/logger"

	"gorm.io/gorm"
)

// GormLookupRepository implements the LookupRepository interface against
// the warehouse reference tables.
type GormLookupRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormLookupRepository creates a new GORM lookup repository
func NewGormLookupRepository(db *gorm.DB, logger logger.Logger) repository.LookupRepository {
	return &GormLookupRepository{
		db:     db,
		logger: logger,
	}
}

type idNameRow struct {
	ID  int
	Key string
}

// BulkCrewIDs matches "first last" names against the crew table.
func (r *GormLookupRepository) BulkCrewIDs(ctx context.Context, names []string) (map[string]int, error) {
	if len(names) == 0 {
		return map[string]int{}, nil
	}

	var rows []idNameRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, TRIM(CONCAT(firstname, ' ', lastname)) AS key
		FROM crew
		WHERE TRIM(CONCAT(firstname, ' ', lastname)) IN ?`, names).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]int, len(rows))
	for _, row := range rows {
		lookup[row.Key] = row.ID
	}

	r.logger.Info("Crew lookup complete", "matched", len(lookup), "requested", len(names))
	return lookup, nil
}

// BulkAircraftIDs matches tail numbers against the aircraft table.
func (r *GormLookupRepository) BulkAircraftIDs(ctx context.Context, tailNumbers []string) (map[string]int, error) {
	if len(tailNumbers) == 0 {
		return map[string]int{}, nil
	}

	var rows []idNameRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, tailnumber AS key
		FROM aircraft
		WHERE tailnumber IN ?`, tailNumbers).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]int, len(rows))
	for _, row := range rows {
		lookup[row.Key] = row.ID
	}

	r.logger.Info("Aircraft lookup complete", "matched", len(lookup), "requested", len(tailNumbers))
	return lookup, nil
}

// BulkAirportIDs matches upper-cased ICAO codes against the airport
// table. The bulk flight path intentionally does not accept IATA codes.
func (r *GormLookupRepository) BulkAirportIDs(ctx context.Context, icaoCodes []string) (map[string]int, error) {
	if len(icaoCodes) == 0 {
		return map[string]int{}, nil
	}

	var rows []idNameRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, icaocode AS key
		FROM airport
		WHERE icaocode IN ?`, icaoCodes).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]int, len(rows))
	for _, row := range rows {
		lookup[row.Key] = row.ID
	}

	r.logger.Info("Airport lookup complete", "matched", len(lookup), "requested", len(icaoCodes))
	return lookup, nil
}

// AirportIDByCode resolves one airport by ICAO or IATA code.
func (r *GormLookupRepository) AirportIDByCode(ctx context.Context, code string) (int, bool, error) {
	if len(code) < 3 {
		return 0, false, nil
	}

	var id int
	result := r.db.WithContext(ctx).Raw(`
		SELECT id FROM airport
		WHERE iatacode = ? OR icaocode = ?
		LIMIT 1`, code[:3], code).Scan(&id)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Airport not found", "code", code)
		return 0, false, nil
	}
	return id, true, nil
}
