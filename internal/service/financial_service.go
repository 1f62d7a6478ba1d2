package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type financialRepository interface {
	Upsert(ctx context.Context, record *models.WeeklyFinancial) error
	FindByWeek(ctx context.Context, businessID string, weekStart time.Time) (*models.WeeklyFinancial, error)
	ListRecent(ctx context.Context, businessID string, limit int) ([]models.WeeklyFinancial, error)
	Latest(ctx context.Context, businessID string) (*models.WeeklyFinancial, error)
}

// FinancialService tracks weekly sales against payroll cost.
type FinancialService struct {
	records   financialRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFinancialService constructs a FinancialService.
func NewFinancialService(records financialRepository, validate *validator.Validate, logger *zap.Logger) *FinancialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinancialService{records: records, validator: validate, logger: logger}
}

// SubmitWeek records one week's figures, overwriting an earlier submission
// for the same week.
func (s *FinancialService) SubmitWeek(ctx context.Context, businessID string, req models.UpsertFinancialRequest) (*models.WeeklyFinancial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid financial payload")
	}
	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		return nil, err
	}

	record := &models.WeeklyFinancial{
		BusinessID:  businessID,
		WeekStart:   weekStart,
		Sales:       req.Sales,
		PayrollCost: req.PayrollCost,
	}
	if err := s.records.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store financial week")
	}
	decorate(record)
	return record, nil
}

// GetWeek returns one week's figures with derived payroll health.
func (s *FinancialService) GetWeek(ctx context.Context, businessID, weekStartRaw string) (*models.WeeklyFinancial, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, err
	}
	record, err := s.records.FindByWeek(ctx, businessID, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no figures recorded for that week")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load financial week")
	}
	decorate(record)
	return record, nil
}

// ListRecent returns the latest recorded weeks, newest first.
func (s *FinancialService) ListRecent(ctx context.Context, businessID string, limit int) ([]models.WeeklyFinancial, error) {
	records, err := s.records.ListRecent(ctx, businessID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list financial weeks")
	}
	for i := range records {
		decorate(&records[i])
	}
	return records, nil
}

// decorate fills the derived payroll percentage and status. Zero sales with
// nonzero payroll is reported as red rather than dividing by zero.
func decorate(record *models.WeeklyFinancial) {
	if record.Sales > 0 {
		record.PayrollPct = record.PayrollCost / record.Sales * 100
		record.Status = models.PayrollStatus(record.PayrollPct)
		return
	}
	record.PayrollPct = 0
	if record.PayrollCost > 0 {
		record.Status = models.PayrollStatusRed
	} else {
		record.Status = models.PayrollStatusGreen
	}
}
