package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

type fakeFinancialRepo struct {
	records map[string]*models.WeeklyFinancial
}

func newFakeFinancialRepo() *fakeFinancialRepo {
	return &fakeFinancialRepo{records: make(map[string]*models.WeeklyFinancial)}
}

func (f *fakeFinancialRepo) Upsert(_ context.Context, record *models.WeeklyFinancial) error {
	copied := *record
	f.records[record.WeekStart.Format("2006-01-02")] = &copied
	return nil
}

func (f *fakeFinancialRepo) FindByWeek(_ context.Context, _ string, weekStart time.Time) (*models.WeeklyFinancial, error) {
	if record, ok := f.records[weekStart.Format("2006-01-02")]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFinancialRepo) ListRecent(context.Context, string, int) ([]models.WeeklyFinancial, error) {
	out := make([]models.WeeklyFinancial, 0, len(f.records))
	for _, record := range f.records {
		out = append(out, *record)
	}
	return out, nil
}

func (f *fakeFinancialRepo) Latest(context.Context, string) (*models.WeeklyFinancial, error) {
	var latest *models.WeeklyFinancial
	for _, record := range f.records {
		if latest == nil || record.WeekStart.After(latest.WeekStart) {
			latest = record
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	copied := *latest
	return &copied, nil
}

func TestFinancialServicePayrollStatusThresholds(t *testing.T) {
	repo := newFakeFinancialRepo()
	svc := NewFinancialService(repo, nil, nil)

	cases := []struct {
		name    string
		sales   float64
		payroll float64
		status  string
		pct     float64
	}{
		{"healthy", 10000, 2700, models.PayrollStatusGreen, 27},
		{"watch", 10000, 3000, models.PayrollStatusYellow, 30},
		{"at the line", 10000, 3500, models.PayrollStatusYellow, 35},
		{"over", 10000, 3600, models.PayrollStatusRed, 36},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := svc.SubmitWeek(context.Background(), "biz-1", models.UpsertFinancialRequest{
				WeekStart: "2025-03-03", Sales: tc.sales, PayrollCost: tc.payroll,
			})
			require.NoError(t, err)
			assert.InDelta(t, tc.pct, record.PayrollPct, 0.001)
			assert.Equal(t, tc.status, record.Status)
		})
	}
}

func TestFinancialServiceZeroSales(t *testing.T) {
	repo := newFakeFinancialRepo()
	svc := NewFinancialService(repo, nil, nil)

	record, err := svc.SubmitWeek(context.Background(), "biz-1", models.UpsertFinancialRequest{
		WeekStart: "2025-03-03", Sales: 0, PayrollCost: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PayrollStatusRed, record.Status)
	assert.Zero(t, record.PayrollPct)
}

func TestFinancialServiceResubmitOverwrites(t *testing.T) {
	repo := newFakeFinancialRepo()
	svc := NewFinancialService(repo, nil, nil)

	_, err := svc.SubmitWeek(context.Background(), "biz-1", models.UpsertFinancialRequest{
		WeekStart: "2025-03-03", Sales: 8000, PayrollCost: 4000,
	})
	require.NoError(t, err)

	_, err = svc.SubmitWeek(context.Background(), "biz-1", models.UpsertFinancialRequest{
		WeekStart: "2025-03-03", Sales: 9000, PayrollCost: 2000,
	})
	require.NoError(t, err)

	record, err := svc.GetWeek(context.Background(), "biz-1", "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, 9000.0, record.Sales)
	assert.Equal(t, models.PayrollStatusGreen, record.Status)
}

func TestFinancialServiceRejectsNonMonday(t *testing.T) {
	svc := NewFinancialService(newFakeFinancialRepo(), nil, nil)

	_, err := svc.SubmitWeek(context.Background(), "biz-1", models.UpsertFinancialRequest{
		WeekStart: "2025-03-05", Sales: 100, PayrollCost: 10,
	})
	require.Error(t, err)
}
