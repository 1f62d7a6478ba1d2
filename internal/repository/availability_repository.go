package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// AvailabilityRepository manages per-date availability entries.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ReplaceWeek swaps an employee's entries inside [weekStart, weekStart+7d)
// for the given set, in one transaction.
func (r *AvailabilityRepository) ReplaceWeek(ctx context.Context, businessID, employeeID string, weekStart time.Time, entries []models.AvailabilityEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `DELETE FROM availability WHERE business_id = $1 AND employee_id = $2 AND day >= $3 AND day < $4`
	weekEnd := weekStart.AddDate(0, 0, 7)
	if _, err := tx.ExecContext(ctx, deleteQuery, businessID, employeeID, weekStart, weekEnd); err != nil {
		return fmt.Errorf("clear availability week: %w", err)
	}

	const insertQuery = `INSERT INTO availability (id, business_id, employee_id, day, available, created_at, updated_at)
        VALUES (:id, :business_id, :employee_id, :day, :available, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range entries {
		entries[i].ID = uuid.NewString()
		entries[i].BusinessID = businessID
		entries[i].EmployeeID = employeeID
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertQuery, entries[i]); err != nil {
			return fmt.Errorf("insert availability entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability tx: %w", err)
	}
	return nil
}

// ListForRange returns all availability entries of a business inside
// [from, to), across employees.
func (r *AvailabilityRepository) ListForRange(ctx context.Context, businessID string, from, to time.Time) ([]models.AvailabilityEntry, error) {
	const query = `SELECT id, business_id, employee_id, day, available, created_at, updated_at
        FROM availability WHERE business_id = $1 AND day >= $2 AND day < $3 ORDER BY day ASC`
	var entries []models.AvailabilityEntry
	if err := r.db.SelectContext(ctx, &entries, query, businessID, from, to); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return entries, nil
}

// ListForEmployee returns one employee's entries inside [from, to).
func (r *AvailabilityRepository) ListForEmployee(ctx context.Context, businessID, employeeID string, from, to time.Time) ([]models.AvailabilityEntry, error) {
	const query = `SELECT id, business_id, employee_id, day, available, created_at, updated_at
        FROM availability WHERE business_id = $1 AND employee_id = $2 AND day >= $3 AND day < $4 ORDER BY day ASC`
	var entries []models.AvailabilityEntry
	if err := r.db.SelectContext(ctx, &entries, query, businessID, employeeID, from, to); err != nil {
		return nil, fmt.Errorf("list employee availability: %w", err)
	}
	return entries, nil
}
