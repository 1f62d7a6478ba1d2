package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type availabilityRepository interface {
	ReplaceWeek(ctx context.Context, businessID, employeeID string, weekStart time.Time, entries []models.AvailabilityEntry) error
	ListForEmployee(ctx context.Context, businessID, employeeID string, from, to time.Time) ([]models.AvailabilityEntry, error)
	ListForRange(ctx context.Context, businessID string, from, to time.Time) ([]models.AvailabilityEntry, error)
}

type availabilityEmployeeReader interface {
	FindByID(ctx context.Context, businessID, id string) (*models.Employee, error)
}

// AvailabilityService manages weekly availability submissions.
type AvailabilityService struct {
	availability availabilityRepository
	employees    availabilityEmployeeReader
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(availability availabilityRepository, employees availabilityEmployeeReader, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{availability: availability, employees: employees, validator: validate, logger: logger}
}

// SubmitWeek replaces an employee's availability for one week. Days outside
// the submitted week are rejected.
func (s *AvailabilityService) SubmitWeek(ctx context.Context, businessID string, req models.SubmitAvailabilityRequest) ([]models.AvailabilityEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		return nil, err
	}

	if _, err := s.employees.FindByID(ctx, businessID, req.EmployeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	entries := make([]models.AvailabilityEntry, 0, len(req.Days))
	seen := make(map[string]bool, len(req.Days))
	for _, item := range req.Days {
		day, err := time.ParseInLocation("2006-01-02", item.Day, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %q is not a YYYY-MM-DD date", item.Day))
		}
		if day.Before(weekStart) || !day.Before(weekEnd) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %s falls outside the submitted week", item.Day))
		}
		if seen[item.Day] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %s submitted twice", item.Day))
		}
		seen[item.Day] = true
		entries = append(entries, models.AvailabilityEntry{Day: day, Available: item.Available})
	}

	if err := s.availability.ReplaceWeek(ctx, businessID, req.EmployeeID, weekStart, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store availability")
	}
	return entries, nil
}

// GetWeek returns an employee's entries for one week.
func (s *AvailabilityService) GetWeek(ctx context.Context, businessID, employeeID, weekStartRaw string) ([]models.AvailabilityEntry, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, err
	}
	entries, err := s.availability.ListForEmployee(ctx, businessID, employeeID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return entries, nil
}

// GetWeekForBusiness returns every employee's entries for one week.
func (s *AvailabilityService) GetWeekForBusiness(ctx context.Context, businessID, weekStartRaw string) ([]models.AvailabilityEntry, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, err
	}
	entries, err := s.availability.ListForRange(ctx, businessID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return entries, nil
}
