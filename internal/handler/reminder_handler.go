package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// ReminderHandler exposes reminder endpoints.
type ReminderHandler struct {
	service   *service.ReminderService
	dashboard *service.DashboardService
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(svc *service.ReminderService, dashboard *service.DashboardService) *ReminderHandler {
	return &ReminderHandler{service: svc, dashboard: dashboard}
}

func (h *ReminderHandler) invalidateDashboard(c *gin.Context, businessID string) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), businessID)
	}
}

// List godoc
// @Summary List reminders
// @Description Reminders sort by weekday then time; pass day to see one weekday
// @Tags Reminders
// @Produce json
// @Param day query string false "Weekday filter (monday..sunday)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	reminders, err := h.service.List(c.Request.Context(), claims.BusinessID, c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reminders, nil)
}

// Create godoc
// @Summary Create a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param payload body models.CreateReminderRequest true "Reminder payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reminders [post]
func (h *ReminderHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
		return
	}

	reminder, err := h.service.Create(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.Created(c, reminder)
}

// Update godoc
// @Summary Update a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param id path string true "Reminder ID"
// @Param payload body models.UpdateReminderRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reminders/{id} [put]
func (h *ReminderHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
		return
	}

	reminder, err := h.service.Update(c.Request.Context(), claims.BusinessID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.JSON(c, http.StatusOK, reminder, nil)
}

// Delete godoc
// @Summary Delete a reminder
// @Tags Reminders
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *gin.Context) {
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
