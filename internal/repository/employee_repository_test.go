package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryListActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "business_id", "user_id", "name", "email", "phone", "role", "strength", "hourly_wage", "active", "created_at", "updated_at"}).
		AddRow("emp-1", "biz-1", nil, "Alice", "alice@example.com", "", "barista", "normal", 17.5, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, business_id, user_id, name, email, phone, role, strength, hourly_wage, active, created_at, updated_at\n        FROM employees WHERE business_id = $1 AND active = true ORDER BY created_at ASC")).
		WithArgs("biz-1").
		WillReturnRows(rows)

	employees, err := repo.List(context.Background(), "biz-1", true)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, "Alice", employees[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{BusinessID: "biz-1", Name: "Bob", Strength: models.StrengthNew, HourlyWage: 15, Active: true}
	err := repo.Create(context.Background(), employee)
	require.NoError(t, err)
	assert.NotEmpty(t, employee.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET active = false, updated_at = $3 WHERE business_id = $1 AND id = $2")).
		WithArgs("biz-1", "emp-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "biz-1", "emp-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
