package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

const reminderDayOrder = `array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], day_of_week)`

// ReminderRepository manages recurring weekly reminders.
type ReminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository constructs a ReminderRepository.
func NewReminderRepository(db *sqlx.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// List returns the reminders of a business in week order, optionally
// restricted to one day.
func (r *ReminderRepository) List(ctx context.Context, businessID, day string) ([]models.Reminder, error) {
	query := `SELECT id, business_id, type, day_of_week, time_of_day, message, active, created_at, updated_at
        FROM reminders WHERE business_id = $1`
	args := []interface{}{businessID}
	if day != "" {
		query += ` AND day_of_week = $2`
		args = append(args, day)
	}
	query += ` ORDER BY ` + reminderDayOrder + `, time_of_day ASC`

	var reminders []models.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// ListActiveForDay returns the active reminders of one weekday, earliest
// time first. The dashboard uses this for "today".
func (r *ReminderRepository) ListActiveForDay(ctx context.Context, businessID, day string) ([]models.Reminder, error) {
	const query = `SELECT id, business_id, type, day_of_week, time_of_day, message, active, created_at, updated_at
        FROM reminders WHERE business_id = $1 AND day_of_week = $2 AND active = true
        ORDER BY time_of_day ASC`
	var reminders []models.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, businessID, day); err != nil {
		return nil, fmt.Errorf("list active reminders: %w", err)
	}
	return reminders, nil
}

// FindByID fetches a reminder scoped to a business.
func (r *ReminderRepository) FindByID(ctx context.Context, businessID, id string) (*models.Reminder, error) {
	const query = `SELECT id, business_id, type, day_of_week, time_of_day, message, active, created_at, updated_at
        FROM reminders WHERE business_id = $1 AND id = $2`
	var reminder models.Reminder
	if err := r.db.GetContext(ctx, &reminder, query, businessID, id); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// Create inserts a new reminder.
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	const query = `INSERT INTO reminders (id, business_id, type, day_of_week, time_of_day, message, active, created_at, updated_at)
        VALUES (:id, :business_id, :type, :day_of_week, :time_of_day, :message, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

// Update modifies an existing reminder.
func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	reminder.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reminders SET type = :type, day_of_week = :day_of_week, time_of_day = :time_of_day,
        message = :message, active = :active, updated_at = :updated_at
        WHERE business_id = :business_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}

// Delete removes a reminder.
func (r *ReminderRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM reminders WHERE business_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, businessID, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}
