package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// ShiftSlotRepository manages recurring staffing templates.
type ShiftSlotRepository struct {
	db *sqlx.DB
}

// NewShiftSlotRepository constructs a ShiftSlotRepository.
func NewShiftSlotRepository(db *sqlx.DB) *ShiftSlotRepository {
	return &ShiftSlotRepository{db: db}
}

// List returns every slot of a business in stable schedule order: weekday
// first, then start time, then name.
func (r *ShiftSlotRepository) List(ctx context.Context, businessID string) ([]models.ShiftSlot, error) {
	const query = `SELECT id, business_id, name, day, start_time, end_time, required, created_at, updated_at
        FROM shift_slots WHERE business_id = $1
        ORDER BY array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], day), start_time ASC, name ASC`
	var slots []models.ShiftSlot
	if err := r.db.SelectContext(ctx, &slots, query, businessID); err != nil {
		return nil, fmt.Errorf("list shift slots: %w", err)
	}
	return slots, nil
}

// FindByID fetches a slot scoped to a business.
func (r *ShiftSlotRepository) FindByID(ctx context.Context, businessID, id string) (*models.ShiftSlot, error) {
	const query = `SELECT id, business_id, name, day, start_time, end_time, required, created_at, updated_at
        FROM shift_slots WHERE business_id = $1 AND id = $2`
	var slot models.ShiftSlot
	if err := r.db.GetContext(ctx, &slot, query, businessID, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new slot.
func (r *ShiftSlotRepository) Create(ctx context.Context, slot *models.ShiftSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	const query = `INSERT INTO shift_slots (id, business_id, name, day, start_time, end_time, required, created_at, updated_at)
        VALUES (:id, :business_id, :name, :day, :start_time, :end_time, :required, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create shift slot: %w", err)
	}
	return nil
}

// Update modifies an existing slot.
func (r *ShiftSlotRepository) Update(ctx context.Context, slot *models.ShiftSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shift_slots SET name = :name, day = :day, start_time = :start_time, end_time = :end_time,
        required = :required, updated_at = :updated_at
        WHERE business_id = :business_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update shift slot: %w", err)
	}
	return nil
}

// Delete removes a slot. Already generated shifts keep their copied times.
func (r *ShiftSlotRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM shift_slots WHERE business_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, businessID, id); err != nil {
		return fmt.Errorf("delete shift slot: %w", err)
	}
	return nil
}
