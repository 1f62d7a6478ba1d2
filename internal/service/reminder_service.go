package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type reminderRepository interface {
	List(ctx context.Context, businessID, day string) ([]models.Reminder, error)
	FindByID(ctx context.Context, businessID, id string) (*models.Reminder, error)
	Create(ctx context.Context, reminder *models.Reminder) error
	Update(ctx context.Context, reminder *models.Reminder) error
	Delete(ctx context.Context, businessID, id string) error
}

// ReminderService manages the recurring weekly reminders of a business.
type ReminderService struct {
	reminders reminderRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReminderService constructs a ReminderService.
func NewReminderService(reminders reminderRepository, validate *validator.Validate, logger *zap.Logger) *ReminderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{reminders: reminders, validator: validate, logger: logger}
}

// List returns the reminders of a business, ordered by weekday then time.
// A non-empty day restricts the list to that weekday.
func (s *ReminderService) List(ctx context.Context, businessID, day string) ([]models.Reminder, error) {
	if day != "" && models.DayIndex(day) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a lowercase weekday name")
	}
	reminders, err := s.reminders.List(ctx, businessID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reminders")
	}
	return reminders, nil
}

// Create adds a reminder. New reminders default to active.
func (s *ReminderService) Create(ctx context.Context, businessID string, req models.CreateReminderRequest) (*models.Reminder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	reminder := &models.Reminder{
		BusinessID: businessID,
		Type:       models.ReminderType(req.Type),
		DayOfWeek:  req.DayOfWeek,
		TimeOfDay:  req.TimeOfDay,
		Message:    req.Message,
		Active:     active,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reminder")
	}
	return reminder, nil
}

// Update applies a partial update; toggling active is the common case.
func (s *ReminderService) Update(ctx context.Context, businessID, id string, req models.UpdateReminderRequest) (*models.Reminder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload")
	}

	reminder, err := s.reminders.FindByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reminder not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reminder")
	}

	if req.Type != nil {
		reminder.Type = models.ReminderType(*req.Type)
	}
	if req.DayOfWeek != nil {
		reminder.DayOfWeek = *req.DayOfWeek
	}
	if req.TimeOfDay != nil {
		reminder.TimeOfDay = *req.TimeOfDay
	}
	if req.Message != nil {
		if *req.Message == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "message cannot be empty")
		}
		reminder.Message = *req.Message
	}
	if req.Active != nil {
		reminder.Active = *req.Active
	}

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reminder")
	}
	return reminder, nil
}

// Delete removes a reminder.
func (s *ReminderService) Delete(ctx context.Context, businessID, id string) error {
	if _, err := s.reminders.FindByID(ctx, businessID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reminder not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reminder")
	}
	if err := s.reminders.Delete(ctx, businessID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reminder")
	}
	return nil
}
