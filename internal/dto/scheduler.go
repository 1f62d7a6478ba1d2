package dto

import "github.com/mainstreet/copilot-api/internal/models"

// GenerateScheduleRequest asks for a schedule covering the week starting at
// WeekStart (a Monday). Preferences is free text forwarded to the AI planner.
type GenerateScheduleRequest struct {
	WeekStart   string `json:"week_start" validate:"required,datetime=2006-01-02"`
	Preferences string `json:"preferences"`
}

// Assignment is one generated pairing of employee and slot occurrence.
type Assignment struct {
	Day          string `json:"day"`
	Date         string `json:"date"`
	SlotID       string `json:"slot_id"`
	SlotName     string `json:"slot_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

// UnderstaffedSlot reports a slot occurrence the generator could not fill.
type UnderstaffedSlot struct {
	Day      string `json:"day"`
	Date     string `json:"date"`
	SlotName string `json:"slot_name"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
}

// GenerateScheduleResponse is the outcome of a generation run. Source tells
// whether the AI plan was accepted or the heuristic produced the result.
type GenerateScheduleResponse struct {
	WeekStart     string             `json:"week_start"`
	Source        string             `json:"source"`
	ShiftsCreated int                `json:"shifts_created"`
	Assignments   []Assignment       `json:"assignments"`
	Understaffed  []UnderstaffedSlot `json:"understaffed,omitempty"`
}

// WeekSchedule is the stored schedule for one week, grouped by day.
type WeekSchedule struct {
	WeekStart string                               `json:"week_start"`
	Days      map[string][]models.ShiftWithDetails `json:"days"`
	Shifts    []models.ShiftWithDetails            `json:"shifts"`
}
