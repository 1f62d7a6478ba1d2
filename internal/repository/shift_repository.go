package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// ShiftRepository manages generated schedule rows.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ReplaceWeek swaps the stored schedule of one week for the given shifts in a
// single transaction. Regenerating a week never leaves a partial mix of old
// and new rows behind.
func (r *ShiftRepository) ReplaceWeek(ctx context.Context, businessID string, weekStart time.Time, shifts []models.Shift) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `DELETE FROM shifts WHERE business_id = $1 AND week_start = $2`
	if _, err := tx.ExecContext(ctx, deleteQuery, businessID, weekStart); err != nil {
		return fmt.Errorf("clear schedule week: %w", err)
	}

	const insertQuery = `INSERT INTO shifts (id, business_id, slot_id, employee_id, week_start, day, start_time, end_time, source, created_at)
        VALUES (:id, :business_id, :slot_id, :employee_id, :week_start, :day, :start_time, :end_time, :source, :created_at)`
	now := time.Now().UTC()
	for i := range shifts {
		if shifts[i].ID == "" {
			shifts[i].ID = uuid.NewString()
		}
		shifts[i].BusinessID = businessID
		shifts[i].WeekStart = weekStart
		shifts[i].CreatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertQuery, shifts[i]); err != nil {
			return fmt.Errorf("insert shift: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule tx: %w", err)
	}
	return nil
}

// ListWeek returns the stored schedule of one week with slot and employee
// names joined in, ordered by day then start time.
func (r *ShiftRepository) ListWeek(ctx context.Context, businessID string, weekStart time.Time) ([]models.ShiftWithDetails, error) {
	const query = `SELECT sh.id, sh.business_id, sh.slot_id, sh.employee_id, sh.week_start, sh.day, sh.start_time, sh.end_time, sh.source, sh.created_at,
        sl.name AS slot_name, e.name AS employee_name
        FROM shifts sh
        JOIN shift_slots sl ON sl.id = sh.slot_id
        JOIN employees e ON e.id = sh.employee_id
        WHERE sh.business_id = $1 AND sh.week_start = $2
        ORDER BY sh.day ASC, sh.start_time ASC, e.name ASC`
	var shifts []models.ShiftWithDetails
	if err := r.db.SelectContext(ctx, &shifts, query, businessID, weekStart); err != nil {
		return nil, fmt.Errorf("list week schedule: %w", err)
	}
	return shifts, nil
}

// DeleteWeek removes the stored schedule of one week and reports how many
// rows were dropped.
func (r *ShiftRepository) DeleteWeek(ctx context.Context, businessID string, weekStart time.Time) (int64, error) {
	const query = `DELETE FROM shifts WHERE business_id = $1 AND week_start = $2`
	res, err := r.db.ExecContext(ctx, query, businessID, weekStart)
	if err != nil {
		return 0, fmt.Errorf("delete week schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete week schedule rows: %w", err)
	}
	return affected, nil
}

// CountForWeek returns the number of stored shifts for one week.
func (r *ShiftRepository) CountForWeek(ctx context.Context, businessID string, weekStart time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM shifts WHERE business_id = $1 AND week_start = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, businessID, weekStart); err != nil {
		return 0, fmt.Errorf("count week shifts: %w", err)
	}
	return count, nil
}

// ListUpcoming returns the next shifts on or after the given day.
func (r *ShiftRepository) ListUpcoming(ctx context.Context, businessID string, from time.Time, limit int) ([]models.ShiftWithDetails, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT sh.id, sh.business_id, sh.slot_id, sh.employee_id, sh.week_start, sh.day, sh.start_time, sh.end_time, sh.source, sh.created_at,
        sl.name AS slot_name, e.name AS employee_name
        FROM shifts sh
        JOIN shift_slots sl ON sl.id = sh.slot_id
        JOIN employees e ON e.id = sh.employee_id
        WHERE sh.business_id = $1 AND sh.day >= $2
        ORDER BY sh.day ASC, sh.start_time ASC LIMIT %d`, limit)
	var shifts []models.ShiftWithDetails
	if err := r.db.SelectContext(ctx, &shifts, query, businessID, from); err != nil {
		return nil, fmt.Errorf("list upcoming shifts: %w", err)
	}
	return shifts, nil
}
