package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/pkg/ai"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/export"
)

type inventoryRepository interface {
	List(ctx context.Context, businessID string) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, businessID, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, businessID, id string) error
	ListBelowMinimum(ctx context.Context, businessID string) ([]models.InventoryItem, error)
}

type lowStockNotifier interface {
	EnqueueCheck(businessID string)
}

// InventoryServiceConfig governs the AI order advisor.
type InventoryServiceConfig struct {
	AITimeout time.Duration
}

// InventoryService manages stock lines and reorder advice.
type InventoryService struct {
	items     inventoryRepository
	alerts    lowStockNotifier
	completer ai.Completer
	csv       *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
	config    InventoryServiceConfig
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(items inventoryRepository, alerts lowStockNotifier, completer ai.Completer, validate *validator.Validate, logger *zap.Logger, cfg InventoryServiceConfig) *InventoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 6 * time.Second
	}
	return &InventoryService{items: items, alerts: alerts, completer: completer, csv: export.NewCSVExporter(), validator: validate, logger: logger, config: cfg}
}

// List returns every stock line with its derived status.
func (s *InventoryService) List(ctx context.Context, businessID string) ([]models.InventoryItem, error) {
	items, err := s.items.List(ctx, businessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}
	for i := range items {
		items[i].Status = items[i].StockStatus()
	}
	return items, nil
}

// Get fetches one stock line.
func (s *InventoryService) Get(ctx context.Context, businessID, id string) (*models.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inventory item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory item")
	}
	item.Status = item.StockStatus()
	return item, nil
}

// Create adds a stock line and kicks off a low-stock check.
func (s *InventoryService) Create(ctx context.Context, businessID string, req models.CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inventory payload")
	}

	item := &models.InventoryItem{
		BusinessID:    businessID,
		Name:          req.Name,
		Quantity:      req.Quantity,
		MinQuantity:   req.MinQuantity,
		Unit:          req.Unit,
		InstacartLink: req.InstacartLink,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inventory item")
	}
	item.Status = item.StockStatus()
	s.notifyIfLow(businessID, item)
	return item, nil
}

// Update applies a partial update and kicks off a low-stock check when the
// item drops to or below its minimum.
func (s *InventoryService) Update(ctx context.Context, businessID, id string, req models.UpdateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inventory payload")
	}

	item, err := s.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.InstacartLink != nil {
		item.InstacartLink = *req.InstacartLink
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inventory item")
	}
	item.Status = item.StockStatus()
	s.notifyIfLow(businessID, item)
	return item, nil
}

// Delete removes a stock line.
func (s *InventoryService) Delete(ctx context.Context, businessID, id string) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, businessID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inventory item")
	}
	return nil
}

// ExportCSV renders the full inventory as a CSV download.
func (s *InventoryService) ExportCSV(ctx context.Context, businessID string) ([]byte, string, error) {
	items, err := s.List(ctx, businessID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Name", "Quantity", "Minimum", "Unit", "Status", "Instacart Link"},
	}
	for _, item := range items {
		data.Rows = append(data.Rows, map[string]string{
			"Name":           item.Name,
			"Quantity":       fmt.Sprintf("%d", item.Quantity),
			"Minimum":        fmt.Sprintf("%d", item.MinQuantity),
			"Unit":           item.Unit,
			"Status":         item.Status,
			"Instacart Link": item.InstacartLink,
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render inventory csv")
	}
	filename := fmt.Sprintf("inventory-%s.csv", time.Now().UTC().Format("2006-01-02"))
	return payload, filename, nil
}

// OrderSuggestions recommends reorder quantities for low and out items. The
// AI advisor is asked first; when it fails or returns nonsense the fixed
// buffer rule answers instead: order the shortfall plus a 20% cushion.
func (s *InventoryService) OrderSuggestions(ctx context.Context, businessID string) (*dto.OrderSuggestionsResponse, error) {
	low, err := s.items.ListBelowMinimum(ctx, businessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load low stock items")
	}
	if len(low) == 0 {
		return &dto.OrderSuggestionsResponse{Source: models.ScheduleSourceHeuristic, Suggestions: []dto.OrderSuggestion{}}, nil
	}

	if suggestions, ok := s.tryAIOrderAdvice(ctx, low); ok {
		return &dto.OrderSuggestionsResponse{Source: models.ScheduleSourceAI, Suggestions: suggestions}, nil
	}

	suggestions := make([]dto.OrderSuggestion, 0, len(low))
	for _, item := range low {
		shortfall := item.MinQuantity - item.Quantity
		if shortfall < 0 {
			shortfall = 0
		}
		buffer := (item.MinQuantity + 4) / 5
		suggestions = append(suggestions, dto.OrderSuggestion{
			ItemID:        item.ID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			MinQuantity:   item.MinQuantity,
			OrderQuantity: shortfall + buffer,
			Reason:        "restock to minimum plus 20% buffer",
			InstacartLink: item.InstacartLink,
		})
	}
	return &dto.OrderSuggestionsResponse{Source: models.ScheduleSourceHeuristic, Suggestions: suggestions}, nil
}

type aiOrderAdvice struct {
	Items []struct {
		ItemID        string `json:"item_id"`
		OrderQuantity int    `json:"order_quantity"`
		Reason        string `json:"reason"`
	} `json:"items"`
}

func (s *InventoryService) tryAIOrderAdvice(ctx context.Context, low []models.InventoryItem) ([]dto.OrderSuggestion, bool) {
	if s.completer == nil {
		return nil, false
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.config.AITimeout)
	defer cancel()

	var b strings.Builder
	b.WriteString("You advise a small business on restocking. For each item, recommend how many units to order.\n")
	b.WriteString("Items:\n")
	for _, item := range low {
		b.WriteString(fmt.Sprintf("- item_id=%s name=%q current=%d minimum=%d unit=%q\n", item.ID, item.Name, item.Quantity, item.MinQuantity, item.Unit))
	}
	b.WriteString("\nRespond with JSON only: {\"items\":[{\"item_id\":\"...\",\"order_quantity\":0,\"reason\":\"...\"}]}")

	raw, err := s.completer.Complete(aiCtx, b.String())
	if err != nil {
		s.logger.Warn("ai order advisor unavailable, using buffer rule", zap.Error(err))
		return nil, false
	}

	var advice aiOrderAdvice
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &advice); err != nil {
		s.logger.Warn("ai order advice malformed, using buffer rule", zap.Error(err))
		return nil, false
	}

	byID := make(map[string]models.InventoryItem, len(low))
	for _, item := range low {
		byID[item.ID] = item
	}

	suggestions := make([]dto.OrderSuggestion, 0, len(advice.Items))
	for _, rec := range advice.Items {
		item, ok := byID[rec.ItemID]
		if !ok || rec.OrderQuantity <= 0 {
			return nil, false
		}
		suggestions = append(suggestions, dto.OrderSuggestion{
			ItemID:        item.ID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			MinQuantity:   item.MinQuantity,
			OrderQuantity: rec.OrderQuantity,
			Reason:        rec.Reason,
			InstacartLink: item.InstacartLink,
		})
	}
	if len(suggestions) == 0 {
		return nil, false
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Name < suggestions[j].Name })
	return suggestions, true
}

func (s *InventoryService) notifyIfLow(businessID string, item *models.InventoryItem) {
	if s.alerts == nil {
		return
	}
	if item.StockStatus() == models.StockStatusIn {
		return
	}
	s.alerts.EnqueueCheck(businessID)
}
