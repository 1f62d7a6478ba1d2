package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

func TestFinancialRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFinancialRepository(db)

	mock.ExpectExec("INSERT INTO weekly_financials").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.WeeklyFinancial{
		BusinessID:  "biz-1",
		WeekStart:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Sales:       12000,
		PayrollCost: 3400,
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinancialRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFinancialRepository(db)

	rows := sqlmock.NewRows([]string{"id", "business_id", "week_start", "sales", "payroll_cost", "created_at", "updated_at"}).
		AddRow("fin-2", "biz-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 9800.0, 3500.0, time.Now(), time.Now()).
		AddRow("fin-1", "biz-1", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 12000.0, 3400.0, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM weekly_financials WHERE business_id = \\$1 ORDER BY week_start DESC LIMIT 12").
		WithArgs("biz-1").
		WillReturnRows(rows)

	records, err := repo.ListRecent(context.Background(), "biz-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].WeekStart.After(records[1].WeekStart))
	assert.NoError(t, mock.ExpectationsWereMet())
}
