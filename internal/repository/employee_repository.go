package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mainstreet/copilot-api/internal/models"
)

// EmployeeRepository manages persistence for worker records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns the employees of a business ordered by creation time. When
// activeOnly is set, deactivated workers are skipped.
func (r *EmployeeRepository) List(ctx context.Context, businessID string, activeOnly bool) ([]models.Employee, error) {
	query := `SELECT id, business_id, user_id, name, email, phone, role, strength, hourly_wage, active, created_at, updated_at
        FROM employees WHERE business_id = $1`
	if activeOnly {
		query += " AND active = true"
	}
	query += " ORDER BY created_at ASC"

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, businessID); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// FindByID fetches an employee scoped to a business.
func (r *EmployeeRepository) FindByID(ctx context.Context, businessID, id string) (*models.Employee, error) {
	const query = `SELECT id, business_id, user_id, name, email, phone, role, strength, hourly_wage, active, created_at, updated_at
        FROM employees WHERE business_id = $1 AND id = $2`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, businessID, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, business_id, user_id, name, email, phone, role, strength, hourly_wage, active, created_at, updated_at)
        VALUES (:id, :business_id, :user_id, :name, :email, :phone, :role, :strength, :hourly_wage, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET name = :name, email = :email, phone = :phone, role = :role, strength = :strength,
        hourly_wage = :hourly_wage, active = :active, updated_at = :updated_at
        WHERE business_id = :business_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Deactivate marks an employee as inactive. Historical shifts are kept.
func (r *EmployeeRepository) Deactivate(ctx context.Context, businessID, id string) error {
	const query = `UPDATE employees SET active = false, updated_at = $3 WHERE business_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, businessID, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	return nil
}

// LinkUser attaches a login account to an employee after an invite.
func (r *EmployeeRepository) LinkUser(ctx context.Context, businessID, id, userID string) error {
	const query = `UPDATE employees SET user_id = $3, updated_at = $4 WHERE business_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, businessID, id, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link employee user: %w", err)
	}
	return nil
}

// CountActive returns the number of active employees of a business.
func (r *EmployeeRepository) CountActive(ctx context.Context, businessID string) (int, error) {
	const query = `SELECT COUNT(*) FROM employees WHERE business_id = $1 AND active = true`
	var count int
	if err := r.db.GetContext(ctx, &count, query, businessID); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}
