package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

func TestInventoryRepositoryListBelowMinimum(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "business_id", "name", "quantity", "min_quantity", "unit", "instacart_link", "created_at", "updated_at"}).
		AddRow("item-1", "biz-1", "Espresso beans", 0, 5, "kg", "", time.Now(), time.Now()).
		AddRow("item-2", "biz-1", "Oat milk", 3, 6, "carton", "https://instacart.example/oat", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM inventory_items WHERE business_id = \\$1 AND quantity <= min_quantity").
		WithArgs("biz-1").
		WillReturnRows(rows)

	items, err := repo.ListBelowMinimum(context.Background(), "biz-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.StockStatusOut, items[0].StockStatus())
	assert.Equal(t, models.StockStatusLow, items[1].StockStatus())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectExec("INSERT INTO inventory_items").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.InventoryItem{BusinessID: "biz-1", Name: "Cups", Quantity: 200, MinQuantity: 50}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery("SELECT\n        COUNT").
		WithArgs("biz-1").
		WillReturnRows(sqlmock.NewRows([]string{"low", "out"}).AddRow(2, 1))

	low, out, err := repo.CountByStatus(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, 2, low)
	assert.Equal(t, 1, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM inventory_items WHERE business_id = $1 AND id = $2")).
		WithArgs("biz-1", "item-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "biz-1", "item-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
