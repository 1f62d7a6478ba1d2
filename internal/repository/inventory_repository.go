package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// InventoryRepository manages stock lines.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository constructs an InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// List returns every inventory item of a business ordered by name.
func (r *InventoryRepository) List(ctx context.Context, businessID string) ([]models.InventoryItem, error) {
	const query = `SELECT id, business_id, name, quantity, min_quantity, unit, instacart_link, created_at, updated_at
        FROM inventory_items WHERE business_id = $1 ORDER BY LOWER(name) ASC`
	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, businessID); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// FindByID fetches an item scoped to a business.
func (r *InventoryRepository) FindByID(ctx context.Context, businessID, id string) (*models.InventoryItem, error) {
	const query = `SELECT id, business_id, name, quantity, min_quantity, unit, instacart_link, created_at, updated_at
        FROM inventory_items WHERE business_id = $1 AND id = $2`
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, businessID, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new inventory item.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO inventory_items (id, business_id, name, quantity, min_quantity, unit, instacart_link, created_at, updated_at)
        VALUES (:id, :business_id, :name, :quantity, :min_quantity, :unit, :instacart_link, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update modifies an existing item.
func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE inventory_items SET name = :name, quantity = :quantity, min_quantity = :min_quantity,
        unit = :unit, instacart_link = :instacart_link, updated_at = :updated_at
        WHERE business_id = :business_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete removes an item.
func (r *InventoryRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM inventory_items WHERE business_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, businessID, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// ListBelowMinimum returns items at or below their minimum quantity.
func (r *InventoryRepository) ListBelowMinimum(ctx context.Context, businessID string) ([]models.InventoryItem, error) {
	const query = `SELECT id, business_id, name, quantity, min_quantity, unit, instacart_link, created_at, updated_at
        FROM inventory_items WHERE business_id = $1 AND quantity <= min_quantity ORDER BY quantity ASC, LOWER(name) ASC`
	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, businessID); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

// CountByStatus returns how many items are low and how many are out.
func (r *InventoryRepository) CountByStatus(ctx context.Context, businessID string) (low int, out int, err error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE quantity > 0 AND quantity <= min_quantity) AS low,
        COUNT(*) FILTER (WHERE quantity <= 0) AS out
        FROM inventory_items WHERE business_id = $1`
	row := r.db.QueryRowxContext(ctx, query, businessID)
	if err := row.Scan(&low, &out); err != nil {
		return 0, 0, fmt.Errorf("count inventory status: %w", err)
	}
	return low, out, nil
}
