package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// FinancialRepository manages weekly sales and payroll figures.
type FinancialRepository struct {
	db *sqlx.DB
}

// NewFinancialRepository constructs a FinancialRepository.
func NewFinancialRepository(db *sqlx.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// Upsert writes a week's figures. A second submission for the same week
// overwrites the first.
func (r *FinancialRepository) Upsert(ctx context.Context, record *models.WeeklyFinancial) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO weekly_financials (id, business_id, week_start, sales, payroll_cost, created_at, updated_at)
        VALUES (:id, :business_id, :week_start, :sales, :payroll_cost, :created_at, :updated_at)
        ON CONFLICT (business_id, week_start)
        DO UPDATE SET sales = EXCLUDED.sales, payroll_cost = EXCLUDED.payroll_cost, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert financial week: %w", err)
	}
	return nil
}

// FindByWeek fetches one week's figures.
func (r *FinancialRepository) FindByWeek(ctx context.Context, businessID string, weekStart time.Time) (*models.WeeklyFinancial, error) {
	const query = `SELECT id, business_id, week_start, sales, payroll_cost, created_at, updated_at
        FROM weekly_financials WHERE business_id = $1 AND week_start = $2`
	var record models.WeeklyFinancial
	if err := r.db.GetContext(ctx, &record, query, businessID, weekStart); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the latest weeks, newest first.
func (r *FinancialRepository) ListRecent(ctx context.Context, businessID string, limit int) ([]models.WeeklyFinancial, error) {
	if limit <= 0 || limit > 52 {
		limit = 12
	}
	query := fmt.Sprintf(`SELECT id, business_id, week_start, sales, payroll_cost, created_at, updated_at
        FROM weekly_financials WHERE business_id = $1 ORDER BY week_start DESC LIMIT %d`, limit)
	var records []models.WeeklyFinancial
	if err := r.db.SelectContext(ctx, &records, query, businessID); err != nil {
		return nil, fmt.Errorf("list financials: %w", err)
	}
	return records, nil
}

// Latest returns the most recent recorded week, or sql.ErrNoRows.
func (r *FinancialRepository) Latest(ctx context.Context, businessID string) (*models.WeeklyFinancial, error) {
	const query = `SELECT id, business_id, week_start, sales, payroll_cost, created_at, updated_at
        FROM weekly_financials WHERE business_id = $1 ORDER BY week_start DESC LIMIT 1`
	var record models.WeeklyFinancial
	if err := r.db.GetContext(ctx, &record, query, businessID); err != nil {
		return nil, err
	}
	return &record, nil
}
