package models

import "time"

// Days of the week in schedule order. Weeks start on Monday.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayIndex maps a lowercase day name to its offset from the week start.
// Unknown names map to -1.
func DayIndex(day string) int {
	for i, d := range WeekDays {
		if d == day {
			return i
		}
	}
	return -1
}

// ShiftSlot is a recurring staffing template: a named window on a weekday
// with a required headcount. Slots carry no dates; the generator projects
// them onto a concrete week.
type ShiftSlot struct {
	ID         string    `db:"id" json:"id"`
	BusinessID string    `db:"business_id" json:"business_id"`
	Name       string    `db:"name" json:"name"`
	Day        string    `db:"day" json:"day"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Required   int       `db:"required" json:"required"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreateShiftSlotRequest payload for defining a slot.
type CreateShiftSlotRequest struct {
	Name      string `json:"name" validate:"required"`
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Required  int    `json:"required" validate:"required,min=1"`
}

// UpdateShiftSlotRequest payload for partial slot updates.
type UpdateShiftSlotRequest struct {
	Name      *string `json:"name,omitempty"`
	Day       *string `json:"day,omitempty" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Required  *int    `json:"required,omitempty" validate:"omitempty,min=1"`
}

// Shift is one concrete assignment: an employee working a slot on a date.
type Shift struct {
	ID         string    `db:"id" json:"id"`
	BusinessID string    `db:"business_id" json:"business_id"`
	SlotID     string    `db:"slot_id" json:"slot_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	WeekStart  time.Time `db:"week_start" json:"week_start"`
	Day        time.Time `db:"day" json:"day"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Source     string    `db:"source" json:"source"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ShiftWithDetails joins shift rows with slot and employee names for reads.
type ShiftWithDetails struct {
	Shift
	SlotName     string `db:"slot_name" json:"slot_name"`
	EmployeeName string `db:"employee_name" json:"employee_name"`
}

// Schedule sources.
const (
	ScheduleSourceAI        = "ai"
	ScheduleSourceHeuristic = "heuristic"
)
