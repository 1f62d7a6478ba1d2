package models

import "time"

// ReminderType categorizes a recurring reminder.
type ReminderType string

const (
	ReminderTypePayroll   ReminderType = "payroll"
	ReminderTypeInventory ReminderType = "inventory"
	ReminderTypeSchedule  ReminderType = "schedule"
)

// Reminder is a weekly recurring nudge for the business owner: a typed
// message anchored to a weekday and time. Active reminders for the current
// day surface on the dashboard.
type Reminder struct {
	ID         string       `db:"id" json:"id"`
	BusinessID string       `db:"business_id" json:"business_id"`
	Type       ReminderType `db:"type" json:"type"`
	DayOfWeek  string       `db:"day_of_week" json:"day_of_week"`
	TimeOfDay  string       `db:"time_of_day" json:"time_of_day"`
	Message    string       `db:"message" json:"message"`
	Active     bool         `db:"active" json:"active"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// CreateReminderRequest payload for adding a reminder. New reminders are
// active unless the payload says otherwise.
type CreateReminderRequest struct {
	Type      string `json:"type" validate:"required,oneof=payroll inventory schedule"`
	DayOfWeek string `json:"day_of_week" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	TimeOfDay string `json:"time_of_day" validate:"required,datetime=15:04"`
	Message   string `json:"message" validate:"required"`
	Active    *bool  `json:"active,omitempty"`
}

// UpdateReminderRequest payload for partial updates.
type UpdateReminderRequest struct {
	Type      *string `json:"type,omitempty" validate:"omitempty,oneof=payroll inventory schedule"`
	DayOfWeek *string `json:"day_of_week,omitempty" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	TimeOfDay *string `json:"time_of_day,omitempty" validate:"omitempty,datetime=15:04"`
	Message   *string `json:"message,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
