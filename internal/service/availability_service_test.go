package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type fakeAvailabilityRepo struct {
	byEmployee map[string][]models.AvailabilityEntry
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{byEmployee: make(map[string][]models.AvailabilityEntry)}
}

func (f *fakeAvailabilityRepo) ReplaceWeek(_ context.Context, businessID, employeeID string, weekStart time.Time, entries []models.AvailabilityEntry) error {
	weekEnd := weekStart.AddDate(0, 0, 7)
	var kept []models.AvailabilityEntry
	for _, entry := range f.byEmployee[employeeID] {
		if entry.Day.Before(weekStart) || !entry.Day.Before(weekEnd) {
			kept = append(kept, entry)
		}
	}
	for _, entry := range entries {
		entry.BusinessID = businessID
		entry.EmployeeID = employeeID
		kept = append(kept, entry)
	}
	f.byEmployee[employeeID] = kept
	return nil
}

func (f *fakeAvailabilityRepo) ListForEmployee(_ context.Context, _, employeeID string, from, to time.Time) ([]models.AvailabilityEntry, error) {
	var out []models.AvailabilityEntry
	for _, entry := range f.byEmployee[employeeID] {
		if !entry.Day.Before(from) && entry.Day.Before(to) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) ListForRange(_ context.Context, _ string, from, to time.Time) ([]models.AvailabilityEntry, error) {
	var out []models.AvailabilityEntry
	for _, entries := range f.byEmployee {
		for _, entry := range entries {
			if !entry.Day.Before(from) && entry.Day.Before(to) {
				out = append(out, entry)
			}
		}
	}
	return out, nil
}

type fakeEmployeeFinder struct {
	known map[string]bool
}

func (f *fakeEmployeeFinder) FindByID(_ context.Context, businessID, id string) (*models.Employee, error) {
	if f.known[id] {
		return &models.Employee{ID: id, BusinessID: businessID, Active: true}, nil
	}
	return nil, sql.ErrNoRows
}

func TestAvailabilitySubmitWeekReplacesEntries(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewAvailabilityService(repo, &fakeEmployeeFinder{known: map[string]bool{"3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e": true}}, nil, nil)

	req := models.SubmitAvailabilityRequest{
		EmployeeID: "3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e",
		WeekStart:  "2025-03-03",
		Days: []models.AvailabilityDayItem{
			{Day: "2025-03-03", Available: true},
			{Day: "2025-03-04", Available: false},
		},
	}
	entries, err := svc.SubmitWeek(context.Background(), "biz-1", req)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Resubmitting swaps the whole week.
	req.Days = []models.AvailabilityDayItem{{Day: "2025-03-05", Available: true}}
	_, err = svc.SubmitWeek(context.Background(), "biz-1", req)
	require.NoError(t, err)

	stored, err := svc.GetWeek(context.Background(), "biz-1", "3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e", "2025-03-03")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "2025-03-05", stored[0].Day.Format("2006-01-02"))
}

func TestAvailabilitySubmitWeekRejectsOutOfWeekDay(t *testing.T) {
	svc := NewAvailabilityService(newFakeAvailabilityRepo(), &fakeEmployeeFinder{known: map[string]bool{"3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e": true}}, nil, nil)

	_, err := svc.SubmitWeek(context.Background(), "biz-1", models.SubmitAvailabilityRequest{
		EmployeeID: "3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e",
		WeekStart:  "2025-03-03",
		Days:       []models.AvailabilityDayItem{{Day: "2025-03-12", Available: true}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilitySubmitWeekRejectsUnknownEmployee(t *testing.T) {
	svc := NewAvailabilityService(newFakeAvailabilityRepo(), &fakeEmployeeFinder{known: map[string]bool{}}, nil, nil)

	_, err := svc.SubmitWeek(context.Background(), "biz-1", models.SubmitAvailabilityRequest{
		EmployeeID: "3e9c7c5a-98e4-4dbb-9b5c-6cfa65d87b2e",
		WeekStart:  "2025-03-03",
		Days:       []models.AvailabilityDayItem{{Day: "2025-03-03", Available: true}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
