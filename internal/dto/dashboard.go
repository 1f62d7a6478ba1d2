package dto

import "github.com/mainstreet/copilot-api/internal/models"

// DashboardStats is the aggregated home-screen payload.
type DashboardStats struct {
	ActiveEmployees int                       `json:"active_employees"`
	ShiftsThisWeek  int                       `json:"shifts_this_week"`
	LowStockItems   int                       `json:"low_stock_items"`
	OutOfStockItems int                       `json:"out_of_stock_items"`
	TodaysReminders []models.Reminder         `json:"todays_reminders"`
	LatestFinancial *models.WeeklyFinancial   `json:"latest_financial,omitempty"`
	UpcomingShifts  []models.ShiftWithDetails `json:"upcoming_shifts"`
}
