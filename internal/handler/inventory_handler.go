package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// InventoryHandler exposes inventory endpoints.
type InventoryHandler struct {
	service   *service.InventoryService
	dashboard *service.DashboardService
}

// NewInventoryHandler constructs the handler.
func NewInventoryHandler(svc *service.InventoryService, dashboard *service.DashboardService) *InventoryHandler {
	return &InventoryHandler{service: svc, dashboard: dashboard}
}

func (h *InventoryHandler) invalidateDashboard(c *gin.Context, businessID string) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), businessID)
	}
}

// List godoc
// @Summary List inventory items
// @Description Items carry a derived stock status of In Stock, Low or Out
// @Tags Inventory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.List(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get an inventory item
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	item, err := h.service.Get(c.Request.Context(), claims.BusinessID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create an inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body models.CreateInventoryItemRequest true "Item payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid item payload"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.Created(c, item)
}

// Update godoc
// @Summary Update an inventory item
// @Description Quantity changes can trigger a low-stock alert email to the owner
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param payload body models.UpdateInventoryItemRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid item payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), claims.BusinessID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete an inventory item
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.BusinessID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.NoContent(c)
}

// Export godoc
// @Summary Export the inventory as CSV
// @Tags Inventory
// @Produce text/csv
// @Success 200 {file} binary
// @Router /inventory/export [get]
func (h *InventoryHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	data, filename, err := h.service.ExportCSV(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// OrderSuggestions godoc
// @Summary Suggest restock orders
// @Description Suggests order quantities for items at or below their minimum. Uses the AI advisor when configured and falls back to the buffer rule.
// @Tags Inventory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inventory/order-suggestions [get]
func (h *InventoryHandler) OrderSuggestions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.OrderSuggestions(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
