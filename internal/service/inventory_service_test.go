package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/models"
)

type fakeInventoryRepo struct {
	items map[string]*models.InventoryItem
}

func newFakeInventoryRepo(items ...models.InventoryItem) *fakeInventoryRepo {
	repo := &fakeInventoryRepo{items: make(map[string]*models.InventoryItem)}
	for i := range items {
		item := items[i]
		repo.items[item.ID] = &item
	}
	return repo
}

func (f *fakeInventoryRepo) List(context.Context, string) ([]models.InventoryItem, error) {
	out := make([]models.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeInventoryRepo) FindByID(_ context.Context, _, id string) (*models.InventoryItem, error) {
	if item, ok := f.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeInventoryRepo) Create(_ context.Context, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = "generated"
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeInventoryRepo) Update(_ context.Context, item *models.InventoryItem) error {
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeInventoryRepo) Delete(_ context.Context, _, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeInventoryRepo) ListBelowMinimum(context.Context, string) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range f.items {
		if item.Quantity <= item.MinQuantity {
			out = append(out, *item)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	checks int
}

func (f *fakeNotifier) EnqueueCheck(string) { f.checks++ }

func TestInventoryServiceStatusDerivation(t *testing.T) {
	repo := newFakeInventoryRepo(
		models.InventoryItem{ID: "beans", Name: "Beans", Quantity: 20, MinQuantity: 5},
		models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 3, MinQuantity: 6},
		models.InventoryItem{ID: "cups", Name: "Cups", Quantity: 0, MinQuantity: 50},
	)
	svc := NewInventoryService(repo, nil, nil, nil, nil, InventoryServiceConfig{})

	items, err := svc.List(context.Background(), "biz-1")
	require.NoError(t, err)

	statuses := map[string]string{}
	for _, item := range items {
		statuses[item.ID] = item.Status
	}
	assert.Equal(t, models.StockStatusIn, statuses["beans"])
	assert.Equal(t, models.StockStatusLow, statuses["milk"])
	assert.Equal(t, models.StockStatusOut, statuses["cups"])
}

func TestInventoryServiceUpdateTriggersAlertCheck(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 10, MinQuantity: 6})
	notifier := &fakeNotifier{}
	svc := NewInventoryService(repo, notifier, nil, nil, nil, InventoryServiceConfig{})

	qty := 4
	item, err := svc.Update(context.Background(), "biz-1", "milk", models.UpdateInventoryItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, models.StockStatusLow, item.Status)
	assert.Equal(t, 1, notifier.checks)
}

func TestInventoryServiceUpdateAboveMinimumSkipsAlert(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 10, MinQuantity: 6})
	notifier := &fakeNotifier{}
	svc := NewInventoryService(repo, notifier, nil, nil, nil, InventoryServiceConfig{})

	qty := 12
	_, err := svc.Update(context.Background(), "biz-1", "milk", models.UpdateInventoryItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Zero(t, notifier.checks)
}

func TestOrderSuggestionsBufferRuleFallback(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 3, MinQuantity: 10, InstacartLink: "https://instacart.example/milk"})
	svc := NewInventoryService(repo, nil, &fakeCompleter{err: errors.New("unavailable")}, nil, nil, InventoryServiceConfig{})

	resp, err := svc.OrderSuggestions(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
	require.Len(t, resp.Suggestions, 1)
	// Shortfall of 7 plus a 20% buffer on the minimum.
	assert.Equal(t, 9, resp.Suggestions[0].OrderQuantity)
	assert.Equal(t, "https://instacart.example/milk", resp.Suggestions[0].InstacartLink)
}

func TestOrderSuggestionsAcceptsAIAdvice(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 3, MinQuantity: 10})
	completer := &fakeCompleter{response: "```json\n{\"items\":[{\"item_id\":\"milk\",\"order_quantity\":12,\"reason\":\"weekend rush\"}]}\n```"}
	svc := NewInventoryService(repo, nil, completer, nil, nil, InventoryServiceConfig{})

	resp, err := svc.OrderSuggestions(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleSourceAI, resp.Source)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, 12, resp.Suggestions[0].OrderQuantity)
	assert.Equal(t, "weekend rush", resp.Suggestions[0].Reason)
}

func TestOrderSuggestionsRejectsBogusAIAdvice(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 3, MinQuantity: 10})
	completer := &fakeCompleter{response: `{"items":[{"item_id":"unknown","order_quantity":5}]}`}
	svc := NewInventoryService(repo, nil, completer, nil, nil, InventoryServiceConfig{})

	resp, err := svc.OrderSuggestions(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
}

func TestInventoryExportCSV(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 3, MinQuantity: 6, Unit: "gallons"})
	svc := NewInventoryService(repo, nil, nil, nil, nil, InventoryServiceConfig{})

	data, filename, err := svc.ExportCSV(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "inventory-"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	csv := string(data)
	assert.Contains(t, csv, "Name,Quantity,Minimum,Unit,Status,Instacart Link")
	assert.Contains(t, csv, "Milk,3,6,gallons,Low,")
}

func TestOrderSuggestionsEmptyWhenStocked(t *testing.T) {
	repo := newFakeInventoryRepo(models.InventoryItem{ID: "milk", Name: "Milk", Quantity: 30, MinQuantity: 10})
	svc := NewInventoryService(repo, nil, nil, nil, nil, InventoryServiceConfig{})

	resp, err := svc.OrderSuggestions(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
}
