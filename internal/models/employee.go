package models

import "time"

// EmployeeStrength classifies how experienced a worker is. The scheduler uses
// it to avoid staffing a slot with inexperienced workers only.
type EmployeeStrength string

const (
	StrengthNew         EmployeeStrength = "new"
	StrengthNormal      EmployeeStrength = "normal"
	StrengthShiftLeader EmployeeStrength = "shift_leader"
)

// ValidStrength reports whether s is one of the recognized strength values.
func ValidStrength(s EmployeeStrength) bool {
	switch s {
	case StrengthNew, StrengthNormal, StrengthShiftLeader:
		return true
	}
	return false
}

// Employee is a worker of a business. Employees are scheduling subjects and
// do not need a login account; an account gets linked when the worker accepts
// an invite.
type Employee struct {
	ID         string           `db:"id" json:"id"`
	BusinessID string           `db:"business_id" json:"business_id"`
	UserID     *string          `db:"user_id" json:"user_id,omitempty"`
	Name       string           `db:"name" json:"name"`
	Email      string           `db:"email" json:"email,omitempty"`
	Phone      string           `db:"phone" json:"phone,omitempty"`
	Role       string           `db:"role" json:"role,omitempty"`
	Strength   EmployeeStrength `db:"strength" json:"strength"`
	HourlyWage float64          `db:"hourly_wage" json:"hourly_wage"`
	Active     bool             `db:"active" json:"active"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// CreateEmployeeRequest payload for adding a worker.
type CreateEmployeeRequest struct {
	Name       string           `json:"name" validate:"required"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Phone      string           `json:"phone"`
	Role       string           `json:"role"`
	Strength   EmployeeStrength `json:"strength" validate:"required,oneof=new normal shift_leader"`
	HourlyWage float64          `json:"hourly_wage" validate:"gte=0"`
}

// UpdateEmployeeRequest payload for partial updates. Nil fields are left
// untouched.
type UpdateEmployeeRequest struct {
	Name       *string           `json:"name,omitempty"`
	Email      *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string           `json:"phone,omitempty"`
	Role       *string           `json:"role,omitempty"`
	Strength   *EmployeeStrength `json:"strength,omitempty" validate:"omitempty,oneof=new normal shift_leader"`
	HourlyWage *float64          `json:"hourly_wage,omitempty" validate:"omitempty,gte=0"`
	Active     *bool             `json:"active,omitempty"`
}
