package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// BusinessRepository manages persistence for tenant records.
type BusinessRepository struct {
	db *sqlx.DB
}

// NewBusinessRepository constructs a BusinessRepository.
func NewBusinessRepository(db *sqlx.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create inserts a new business.
func (r *BusinessRepository) Create(ctx context.Context, business *models.Business) error {
	if business.ID == "" {
		business.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	business.CreatedAt = now
	business.UpdatedAt = now
	const query = `INSERT INTO businesses (id, name, logo_path, created_at, updated_at)
        VALUES (:id, :name, :logo_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, business); err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

// FindByID fetches a business by ID.
func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*models.Business, error) {
	const query = `SELECT id, name, logo_path, created_at, updated_at FROM businesses WHERE id = $1`
	var business models.Business
	if err := r.db.GetContext(ctx, &business, query, id); err != nil {
		return nil, err
	}
	return &business, nil
}

// UpdateName renames a business.
func (r *BusinessRepository) UpdateName(ctx context.Context, id, name string) error {
	const query = `UPDATE businesses SET name = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("update business name: %w", err)
	}
	return nil
}

// UpdateLogo stores the relative path of the uploaded logo file.
func (r *BusinessRepository) UpdateLogo(ctx context.Context, id, logoPath string) error {
	const query = `UPDATE businesses SET logo_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, logoPath, time.Now().UTC()); err != nil {
		return fmt.Errorf("update business logo: %w", err)
	}
	return nil
}
