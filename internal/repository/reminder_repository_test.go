package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

func TestReminderRepositoryListFiltersByDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReminderRepository(db)

	rows := sqlmock.NewRows([]string{"id", "business_id", "type", "day_of_week", "time_of_day", "message", "active", "created_at", "updated_at"}).
		AddRow("rem-1", "biz-1", "payroll", "friday", "09:00", "Run payroll", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reminders WHERE business_id = \\$1 AND day_of_week = \\$2 ORDER BY array_position").
		WithArgs("biz-1", "friday").
		WillReturnRows(rows)

	reminders, err := repo.List(context.Background(), "biz-1", "friday")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, models.ReminderTypePayroll, reminders[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepositoryListActiveForDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReminderRepository(db)

	rows := sqlmock.NewRows([]string{"id", "business_id", "type", "day_of_week", "time_of_day", "message", "active", "created_at", "updated_at"}).
		AddRow("rem-1", "biz-1", "inventory", "monday", "08:00", "Count stock", true, time.Now(), time.Now()).
		AddRow("rem-2", "biz-1", "schedule", "monday", "16:00", "Publish schedule", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reminders WHERE business_id = \\$1 AND day_of_week = \\$2 AND active = true").
		WithArgs("biz-1", "monday").
		WillReturnRows(rows)

	reminders, err := repo.ListActiveForDay(context.Background(), "biz-1", "monday")
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, "08:00", reminders[0].TimeOfDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReminderRepository(db)

	mock.ExpectExec("INSERT INTO reminders").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	reminder := &models.Reminder{
		BusinessID: "biz-1",
		Type:       models.ReminderTypeSchedule,
		DayOfWeek:  "sunday",
		TimeOfDay:  "18:00",
		Message:    "Draft next week's schedule",
		Active:     true,
	}
	require.NoError(t, repo.Create(context.Background(), reminder))
	assert.NotEmpty(t, reminder.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
