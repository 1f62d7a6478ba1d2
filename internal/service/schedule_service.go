package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/export"
)

type shiftSlotRepository interface {
	List(ctx context.Context, businessID string) ([]models.ShiftSlot, error)
	FindByID(ctx context.Context, businessID, id string) (*models.ShiftSlot, error)
	Create(ctx context.Context, slot *models.ShiftSlot) error
	Update(ctx context.Context, slot *models.ShiftSlot) error
	Delete(ctx context.Context, businessID, id string) error
}

type shiftReader interface {
	ListWeek(ctx context.Context, businessID string, weekStart time.Time) ([]models.ShiftWithDetails, error)
	DeleteWeek(ctx context.Context, businessID string, weekStart time.Time) (int64, error)
}

// ScheduleService manages slot templates and stored week schedules.
type ScheduleService struct {
	slots     shiftSlotRepository
	shifts    shiftReader
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(slots shiftSlotRepository, shifts shiftReader, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ScheduleService{slots: slots, shifts: shifts, pdf: pdf, validator: validate, logger: logger}
}

// ListSlots returns the slot templates of a business.
func (s *ScheduleService) ListSlots(ctx context.Context, businessID string) ([]models.ShiftSlot, error) {
	slots, err := s.slots.List(ctx, businessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shift slots")
	}
	return slots, nil
}

// CreateSlot defines a new slot template.
func (s *ScheduleService) CreateSlot(ctx context.Context, businessID string, req models.CreateShiftSlotRequest) (*models.ShiftSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift slot payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	slot := &models.ShiftSlot{
		BusinessID: businessID,
		Name:       req.Name,
		Day:        req.Day,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Required:   req.Required,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift slot")
	}
	return slot, nil
}

// UpdateSlot applies a partial update to a slot template.
func (s *ScheduleService) UpdateSlot(ctx context.Context, businessID, id string, req models.UpdateShiftSlotRequest) (*models.ShiftSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift slot payload")
	}

	slot, err := s.slots.FindByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift slot")
	}

	if req.Name != nil {
		slot.Name = *req.Name
	}
	if req.Day != nil {
		slot.Day = *req.Day
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.Required != nil {
		slot.Required = *req.Required
	}
	if slot.EndTime <= slot.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update shift slot")
	}
	return slot, nil
}

// DeleteSlot removes a slot template.
func (s *ScheduleService) DeleteSlot(ctx context.Context, businessID, id string) error {
	if _, err := s.slots.FindByID(ctx, businessID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shift slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift slot")
	}
	if err := s.slots.Delete(ctx, businessID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete shift slot")
	}
	return nil
}

// GetWeek returns the stored schedule for one week grouped by day.
func (s *ScheduleService) GetWeek(ctx context.Context, businessID, weekStartRaw string) (*dto.WeekSchedule, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListWeek(ctx, businessID, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week schedule")
	}

	result := &dto.WeekSchedule{
		WeekStart: weekStartRaw,
		Days:      make(map[string][]models.ShiftWithDetails, len(models.WeekDays)),
		Shifts:    shifts,
	}
	for _, day := range models.WeekDays {
		result.Days[day] = []models.ShiftWithDetails{}
	}
	for _, shift := range shifts {
		offset := int(shift.Day.Sub(weekStart).Hours() / 24)
		if offset < 0 || offset >= len(models.WeekDays) {
			continue
		}
		day := models.WeekDays[offset]
		result.Days[day] = append(result.Days[day], shift)
	}
	return result, nil
}

// DeleteWeek clears the stored schedule for one week.
func (s *ScheduleService) DeleteWeek(ctx context.Context, businessID, weekStartRaw string) (int64, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return 0, err
	}
	deleted, err := s.shifts.DeleteWeek(ctx, businessID, weekStart)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete week schedule")
	}
	return deleted, nil
}

// ExportWeekPDF renders the week's roster as a printable PDF.
func (s *ScheduleService) ExportWeekPDF(ctx context.Context, businessID, weekStartRaw string) ([]byte, string, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, "", err
	}

	shifts, err := s.shifts.ListWeek(ctx, businessID, weekStart)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week schedule")
	}

	data := export.Dataset{
		Headers: []string{"Day", "Date", "Shift", "Time", "Employee"},
		Rows:    make([]map[string]string, 0, len(shifts)),
	}
	for _, shift := range shifts {
		offset := int(shift.Day.Sub(weekStart).Hours() / 24)
		day := ""
		if offset >= 0 && offset < len(models.WeekDays) {
			day = models.WeekDays[offset]
		}
		data.Rows = append(data.Rows, map[string]string{
			"Day":      day,
			"Date":     shift.Day.Format("2006-01-02"),
			"Shift":    shift.SlotName,
			"Time":     fmt.Sprintf("%s-%s", shift.StartTime, shift.EndTime),
			"Employee": shift.EmployeeName,
		})
	}

	payload, err := s.pdf.Render(data, fmt.Sprintf("Week of %s", weekStartRaw))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule pdf")
	}
	filename := fmt.Sprintf("schedule-%s.pdf", weekStartRaw)
	return payload, filename, nil
}

func parseWeekStart(raw string) (time.Time, error) {
	weekStart, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "week_start must be a YYYY-MM-DD date")
	}
	if weekStart.Weekday() != time.Monday {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "week_start must fall on a Monday")
	}
	return weekStart, nil
}
