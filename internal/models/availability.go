package models

import "time"

// AvailabilityEntry marks whether an employee can work on a calendar date.
// A missing entry for a date means unavailable.
type AvailabilityEntry struct {
	ID         string    `db:"id" json:"id"`
	BusinessID string    `db:"business_id" json:"business_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Day        time.Time `db:"day" json:"day"`
	Available  bool      `db:"available" json:"available"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SubmitAvailabilityRequest replaces an employee's entries for one week.
type SubmitAvailabilityRequest struct {
	EmployeeID string                `json:"employee_id" validate:"required,uuid"`
	WeekStart  string                `json:"week_start" validate:"required,datetime=2006-01-02"`
	Days       []AvailabilityDayItem `json:"days" validate:"required,min=1,max=7,dive"`
}

// AvailabilityDayItem is one day inside a weekly submission.
type AvailabilityDayItem struct {
	Day       string `json:"day" validate:"required,datetime=2006-01-02"`
	Available bool   `json:"available"`
}
