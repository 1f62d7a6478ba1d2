package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type fakeReminderRepo struct {
	reminders map[string]*models.Reminder
	lastDay   string
}

func newFakeReminderRepo(reminders ...models.Reminder) *fakeReminderRepo {
	repo := &fakeReminderRepo{reminders: make(map[string]*models.Reminder)}
	for i := range reminders {
		reminder := reminders[i]
		repo.reminders[reminder.ID] = &reminder
	}
	return repo
}

func (f *fakeReminderRepo) List(_ context.Context, _, day string) ([]models.Reminder, error) {
	f.lastDay = day
	var out []models.Reminder
	for _, reminder := range f.reminders {
		if day != "" && reminder.DayOfWeek != day {
			continue
		}
		out = append(out, *reminder)
	}
	return out, nil
}

func (f *fakeReminderRepo) FindByID(_ context.Context, _, id string) (*models.Reminder, error) {
	if reminder, ok := f.reminders[id]; ok {
		copied := *reminder
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeReminderRepo) Create(_ context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = "generated"
	}
	copied := *reminder
	f.reminders[reminder.ID] = &copied
	return nil
}

func (f *fakeReminderRepo) Update(_ context.Context, reminder *models.Reminder) error {
	copied := *reminder
	f.reminders[reminder.ID] = &copied
	return nil
}

func (f *fakeReminderRepo) Delete(_ context.Context, _, id string) error {
	delete(f.reminders, id)
	return nil
}

func TestReminderCreateDefaultsToActive(t *testing.T) {
	repo := newFakeReminderRepo()
	svc := NewReminderService(repo, nil, nil)

	reminder, err := svc.Create(context.Background(), "biz-1", models.CreateReminderRequest{
		Type:      "payroll",
		DayOfWeek: "friday",
		TimeOfDay: "09:00",
		Message:   "Run payroll before noon",
	})
	require.NoError(t, err)

	assert.True(t, reminder.Active)
	assert.Equal(t, models.ReminderTypePayroll, reminder.Type)
	assert.Equal(t, "friday", reminder.DayOfWeek)
}

func TestReminderCreateRejectsUnknownType(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo(), nil, nil)

	_, err := svc.Create(context.Background(), "biz-1", models.CreateReminderRequest{
		Type:      "birthday",
		DayOfWeek: "friday",
		TimeOfDay: "09:00",
		Message:   "cake",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReminderListFiltersByDay(t *testing.T) {
	repo := newFakeReminderRepo(
		models.Reminder{ID: "r1", DayOfWeek: "monday", Message: "Count stock"},
		models.Reminder{ID: "r2", DayOfWeek: "friday", Message: "Run payroll"},
	)
	svc := NewReminderService(repo, nil, nil)

	reminders, err := svc.List(context.Background(), "biz-1", "friday")
	require.NoError(t, err)

	assert.Equal(t, "friday", repo.lastDay)
	require.Len(t, reminders, 1)
	assert.Equal(t, "Run payroll", reminders[0].Message)
}

func TestReminderListRejectsBadDay(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo(), nil, nil)

	_, err := svc.List(context.Background(), "biz-1", "someday")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReminderUpdateTogglesActive(t *testing.T) {
	repo := newFakeReminderRepo(models.Reminder{
		ID: "r1", Type: models.ReminderTypeInventory, DayOfWeek: "monday", TimeOfDay: "08:00",
		Message: "Count stock", Active: true,
	})
	svc := NewReminderService(repo, nil, nil)

	off := false
	reminder, err := svc.Update(context.Background(), "biz-1", "r1", models.UpdateReminderRequest{Active: &off})
	require.NoError(t, err)
	assert.False(t, reminder.Active)
	assert.Equal(t, "Count stock", reminder.Message)
}

func TestReminderUpdateUnknownID(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo(), nil, nil)

	active := false
	_, err := svc.Update(context.Background(), "biz-1", "missing", models.UpdateReminderRequest{Active: &active})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReminderDelete(t *testing.T) {
	repo := newFakeReminderRepo(models.Reminder{ID: "r1", DayOfWeek: "monday"})
	svc := NewReminderService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "biz-1", "r1"))
	assert.Empty(t, repo.reminders)

	err := svc.Delete(context.Background(), "biz-1", "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
