package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type fakeStatsCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string][]byte)}
}

func (f *fakeStatsCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeStatsCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeStatsCache) DeleteByPattern(_ context.Context, _ string) error {
	f.entries = make(map[string][]byte)
	f.deletes++
	return nil
}

type fakeEmployeeCounter struct{ active int }

func (f *fakeEmployeeCounter) CountActive(context.Context, string) (int, error) {
	return f.active, nil
}

type fakeShiftCounter struct {
	week     int
	upcoming []models.ShiftWithDetails
}

func (f *fakeShiftCounter) CountForWeek(context.Context, string, time.Time) (int, error) {
	return f.week, nil
}

func (f *fakeShiftCounter) ListUpcoming(context.Context, string, time.Time, int) ([]models.ShiftWithDetails, error) {
	return f.upcoming, nil
}

type fakeInventoryCounter struct{ low, out int }

func (f *fakeInventoryCounter) CountByStatus(context.Context, string) (int, int, error) {
	return f.low, f.out, nil
}

type fakeReminderLister struct {
	reminders []models.Reminder
	lastDay   string
}

func (f *fakeReminderLister) ListActiveForDay(_ context.Context, _ string, day string) ([]models.Reminder, error) {
	f.lastDay = day
	return f.reminders, nil
}

type fakeLatestFinancial struct{ record *models.WeeklyFinancial }

func (f *fakeLatestFinancial) Latest(context.Context, string) (*models.WeeklyFinancial, error) {
	if f.record == nil {
		return nil, sql.ErrNoRows
	}
	copied := *f.record
	return &copied, nil
}

func newDashboardFixture(cache *fakeStatsCache, reminders *fakeReminderLister) *DashboardService {
	svc := NewDashboardService(
		cache,
		&fakeEmployeeCounter{active: 5},
		&fakeShiftCounter{week: 12},
		&fakeInventoryCounter{low: 2, out: 1},
		reminders,
		&fakeLatestFinancial{record: &models.WeeklyFinancial{
			WeekStart: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Sales: 10000, PayrollCost: 3000,
		}},
		nil,
		DashboardServiceConfig{CacheTTL: time.Minute},
	)
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardStatsAggregates(t *testing.T) {
	reminders := &fakeReminderLister{reminders: []models.Reminder{
		{Type: models.ReminderTypePayroll, DayOfWeek: "wednesday", TimeOfDay: "09:00", Message: "Run payroll", Active: true},
	}}
	svc := newDashboardFixture(newFakeStatsCache(), reminders)

	stats, cacheHit, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.False(t, cacheHit)
	assert.Equal(t, 5, stats.ActiveEmployees)
	assert.Equal(t, 12, stats.ShiftsThisWeek)
	assert.Equal(t, 2, stats.LowStockItems)
	assert.Equal(t, 1, stats.OutOfStockItems)
	// The fixture pins "now" to Wednesday 2025-03-05.
	assert.Equal(t, "wednesday", reminders.lastDay)
	require.Len(t, stats.TodaysReminders, 1)
	assert.Equal(t, "Run payroll", stats.TodaysReminders[0].Message)
	require.NotNil(t, stats.LatestFinancial)
	assert.Equal(t, models.PayrollStatusYellow, stats.LatestFinancial.Status)
}

func TestDashboardStatsServedFromCache(t *testing.T) {
	cache := newFakeStatsCache()
	svc := newDashboardFixture(cache, &fakeReminderLister{})

	_, cacheHit, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 1, cache.sets)

	stats, cacheHit, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, 5, stats.ActiveEmployees)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardInvalidateDropsCache(t *testing.T) {
	cache := newFakeStatsCache()
	svc := newDashboardFixture(cache, &fakeReminderLister{})

	_, _, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "biz-1")
	assert.Equal(t, 1, cache.deletes)

	_, cacheHit, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.False(t, cacheHit)
}

func TestDashboardStatsWithoutCacheOrFinancials(t *testing.T) {
	svc := NewDashboardService(
		nil,
		&fakeEmployeeCounter{active: 1},
		&fakeShiftCounter{},
		&fakeInventoryCounter{},
		&fakeReminderLister{},
		&fakeLatestFinancial{},
		nil,
		DashboardServiceConfig{},
	)

	stats, cacheHit, err := svc.Stats(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Nil(t, stats.LatestFinancial)
	assert.Equal(t, 1, stats.ActiveEmployees)
}
