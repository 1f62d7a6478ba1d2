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

func TestAvailabilityRepositoryReplaceWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability WHERE business_id = $1 AND employee_id = $2 AND day >= $3 AND day < $4")).
		WithArgs("biz-1", "emp-1", weekStart, weekStart.AddDate(0, 0, 7)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("INSERT INTO availability").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.AvailabilityEntry{{Day: weekStart, Available: true}}
	err := repo.ReplaceWeek(context.Background(), "biz-1", "emp-1", weekStart, entries)
	require.NoError(t, err)
	assert.Equal(t, "biz-1", entries[0].BusinessID)
	assert.Equal(t, "emp-1", entries[0].EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListForRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	weekStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "business_id", "employee_id", "day", "available", "created_at", "updated_at"}).
		AddRow("av-1", "biz-1", "emp-1", weekStart, true, time.Now(), time.Now()).
		AddRow("av-2", "biz-1", "emp-2", weekStart, false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM availability WHERE business_id = \\$1 AND day >= \\$2 AND day < \\$3").
		WithArgs("biz-1", weekStart, weekStart.AddDate(0, 0, 7)).
		WillReturnRows(rows)

	entries, err := repo.ListForRange(context.Background(), "biz-1", weekStart, weekStart.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Available)
	assert.False(t, entries[1].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
