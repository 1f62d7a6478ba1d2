package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

func TestShiftRepositoryReplaceWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE business_id = $1 AND week_start = $2")).
		WithArgs("biz-1", weekStart).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO shifts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO shifts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	shifts := []models.Shift{
		{SlotID: "slot-1", EmployeeID: "emp-1", Day: weekStart, StartTime: "09:00", EndTime: "13:00", Source: models.ScheduleSourceHeuristic},
		{SlotID: "slot-1", EmployeeID: "emp-2", Day: weekStart, StartTime: "09:00", EndTime: "13:00", Source: models.ScheduleSourceHeuristic},
	}
	err := repo.ReplaceWeek(context.Background(), "biz-1", weekStart, shifts)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryReplaceWeekRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE business_id = $1 AND week_start = $2")).
		WithArgs("biz-1", weekStart).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO shifts").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	shifts := []models.Shift{{SlotID: "slot-1", EmployeeID: "emp-1", Day: weekStart, StartTime: "09:00", EndTime: "13:00", Source: models.ScheduleSourceAI}}
	err := repo.ReplaceWeek(context.Background(), "biz-1", weekStart, shifts)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryDeleteWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE business_id = $1 AND week_start = $2")).
		WithArgs("biz-1", weekStart).
		WillReturnResult(sqlmock.NewResult(0, 7))

	affected, err := repo.DeleteWeek(context.Background(), "biz-1", weekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(7), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
