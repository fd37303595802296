package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyfleet-etl/internal/domain/entity"
)

func testMovements(n int) []entity.Movement {
	movements := make([]entity.Movement, n)
	for i := range movements {
		movements[i] = entity.Movement{
			ID:         100000 + i,
			ExternalID: "leg",
			CreateTime: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return movements
}

func TestStageMovementsTruncatesThenInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE TABLE movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.StageMovements(context.Background(), testMovements(2))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStageMovementsChunksLargeBatches(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE TABLE movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// 501 rows at a 500-row chunk size means two inserts.
	mock.ExpectExec("INSERT INTO movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 500))
	mock.ExpectExec("INSERT INTO movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.StageMovements(context.Background(), testMovements(501))
	require.NoError(t, err)
	assert.Equal(t, 501, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearMovementTargetInitialTruncates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectExec("TRUNCATE TABLE movement").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClearMovementTarget(context.Background(), true, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearMovementTargetIncrementalScopesByDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM movement").
		WithArgs(start, end).
		WillReturnResult(sqlmock.NewResult(0, 37))

	err := repo.ClearMovementTarget(context.Background(), false, start, end)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMovementsFromStaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectExec("INSERT INTO movement").
		WillReturnResult(sqlmock.NewResult(0, 42))

	count, err := repo.UpsertMovementsFromStaging(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDemandFromStaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectExec("INSERT INTO demand").
		WillReturnResult(sqlmock.NewResult(0, 30))

	count, err := repo.UpsertDemandFromStaging(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDemandAircraftRequestsCountsMatchedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	typeID := 1042
	categoryID := 1007

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE demand").
		WithArgs(typeID, categoryID, 100001).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second request targets a demand row that does not exist.
	mock.ExpectExec("UPDATE demand").
		WithArgs(typeID, categoryID, 100002).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := repo.UpdateDemandAircraftRequests(context.Background(), []entity.DemandAircraftRequest{
		{DemandID: 100001, AircraftTypeID: &typeID, AircraftCategoryID: &categoryID},
		{DemandID: 100002, AircraftTypeID: &typeID, AircraftCategoryID: &categoryID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPopulateDemandAircraftRequestsFromFleet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectExec("UPDATE demand").
		WillReturnResult(sqlmock.NewResult(0, 12))

	updated, err := repo.PopulateDemandAircraftRequestsFromFleet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTruncateMovementStaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormMovementRepository(db, noopLogger{})

	mock.ExpectExec("TRUNCATE TABLE movement_temp").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.TruncateStaging(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
