package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type dashboardEmployeeCounter interface {
	CountActive(ctx context.Context, businessID string) (int, error)
}

type dashboardShiftReader interface {
	CountForWeek(ctx context.Context, businessID string, weekStart time.Time) (int, error)
	ListUpcoming(ctx context.Context, businessID string, from time.Time, limit int) ([]models.ShiftWithDetails, error)
}

type dashboardInventoryCounter interface {
	CountByStatus(ctx context.Context, businessID string) (low int, out int, err error)
}

type dashboardReminderReader interface {
	ListActiveForDay(ctx context.Context, businessID, day string) ([]models.Reminder, error)
}

type dashboardFinancialReader interface {
	Latest(ctx context.Context, businessID string) (*models.WeeklyFinancial, error)
}

// DashboardServiceConfig governs stats caching.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService aggregates the home-screen stats, cached briefly in Redis
// since every page load asks for them.
type DashboardService struct {
	cache      dashboardCache
	employees  dashboardEmployeeCounter
	shifts     dashboardShiftReader
	inventory  dashboardInventoryCounter
	reminders  dashboardReminderReader
	financials dashboardFinancialReader
	logger     *zap.Logger
	config     DashboardServiceConfig
	now        func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	cache dashboardCache,
	employees dashboardEmployeeCounter,
	shifts dashboardShiftReader,
	inventory dashboardInventoryCounter,
	reminders dashboardReminderReader,
	financials dashboardFinancialReader,
	logger *zap.Logger,
	cfg DashboardServiceConfig,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	return &DashboardService{
		cache:      cache,
		employees:  employees,
		shifts:     shifts,
		inventory:  inventory,
		reminders:  reminders,
		financials: financials,
		logger:     logger,
		config:     cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Stats returns the aggregated dashboard payload for a business. The second
// return value reports whether the payload came from cache.
func (s *DashboardService) Stats(ctx context.Context, businessID string) (*dto.DashboardStats, bool, error) {
	key := fmt.Sprintf("dashboard:stats:%s", businessID)
	if s.cache != nil {
		var cached dto.DashboardStats
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, true, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	now := s.now()
	weekStart := startOfWeek(now)

	activeEmployees, err := s.employees.CountActive(ctx, businessID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count employees")
	}

	shiftsThisWeek, err := s.shifts.CountForWeek(ctx, businessID, weekStart)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count shifts")
	}

	low, out, err := s.inventory.CountByStatus(ctx, businessID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count inventory status")
	}

	today := models.WeekDays[(int(now.Weekday())+6)%7]
	todaysReminders, err := s.reminders.ListActiveForDay(ctx, businessID, today)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's reminders")
	}

	upcoming, err := s.shifts.ListUpcoming(ctx, businessID, now.Truncate(24*time.Hour), 10)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load upcoming shifts")
	}

	stats := &dto.DashboardStats{
		ActiveEmployees: activeEmployees,
		ShiftsThisWeek:  shiftsThisWeek,
		LowStockItems:   low,
		OutOfStockItems: out,
		TodaysReminders: todaysReminders,
		UpcomingShifts:  upcoming,
	}

	latest, err := s.financials.Latest(ctx, businessID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest financial week")
		}
	} else {
		decorate(latest)
		stats.LatestFinancial = latest
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.config.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}

// Invalidate drops cached stats for a business after a mutating operation.
func (s *DashboardService) Invalidate(ctx context.Context, businessID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("dashboard:stats:%s", businessID)); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// startOfWeek truncates a timestamp to the Monday of its week.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
