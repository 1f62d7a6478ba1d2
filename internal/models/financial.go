package models

import "time"

// Payroll health statuses. Thresholds follow the common food-service rule of
// thumb: under 28% of sales is healthy, above 35% is a problem.
const (
	PayrollStatusGreen  = "green"
	PayrollStatusYellow = "yellow"
	PayrollStatusRed    = "red"
)

// PayrollStatus classifies a payroll percentage.
func PayrollStatus(pct float64) string {
	switch {
	case pct < 28:
		return PayrollStatusGreen
	case pct <= 35:
		return PayrollStatusYellow
	default:
		return PayrollStatusRed
	}
}

// WeeklyFinancial is one week's sales versus labor cost for a business.
type WeeklyFinancial struct {
	ID          string    `db:"id" json:"id"`
	BusinessID  string    `db:"business_id" json:"business_id"`
	WeekStart   time.Time `db:"week_start" json:"week_start"`
	Sales       float64   `db:"sales" json:"sales"`
	PayrollCost float64   `db:"payroll_cost" json:"payroll_cost"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	PayrollPct float64 `db:"-" json:"payroll_pct"`
	Status     string  `db:"-" json:"status"`
}

// UpsertFinancialRequest records a week's figures. Submitting the same week
// twice overwrites the previous row.
type UpsertFinancialRequest struct {
	WeekStart   string  `json:"week_start" validate:"required,datetime=2006-01-02"`
	Sales       float64 `json:"sales" validate:"gte=0"`
	PayrollCost float64 `json:"payroll_cost" validate:"gte=0"`
}
