package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// ScheduleHandler exposes shift slot and weekly schedule endpoints.
type ScheduleHandler struct {
	service   *service.ScheduleService
	generator *service.ScheduleGeneratorService
	metrics   *service.MetricsService
	dashboard *service.DashboardService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService, generator *service.ScheduleGeneratorService, metrics *service.MetricsService, dashboard *service.DashboardService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, generator: generator, metrics: metrics, dashboard: dashboard}
}

func (h *ScheduleHandler) invalidateDashboard(c *gin.Context, businessID string) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), businessID)
	}
}

// ListSlots godoc
// @Summary List shift slots
// @Description Slots are the recurring weekly staffing template
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /shift-slots [get]
func (h *ScheduleHandler) ListSlots(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// CreateSlot godoc
// @Summary Create a shift slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body models.CreateShiftSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /shift-slots [post]
func (h *ScheduleHandler) CreateSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateShiftSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// UpdateSlot godoc
// @Summary Update a shift slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body models.UpdateShiftSlotRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shift-slots/{id} [put]
func (h *ScheduleHandler) UpdateSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateShiftSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	slot, err := h.service.UpdateSlot(c.Request.Context(), claims.BusinessID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// DeleteSlot godoc
// @Summary Delete a shift slot
// @Tags Schedule
// @Produce json
// @Param id path string true "Slot ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shift-slots/{id} [delete]
func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), claims.BusinessID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Generate a weekly schedule
// @Description Builds a schedule for the week from slots, the roster and availability. Uses the AI planner when configured and falls back to the deterministic heuristic.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordScheduleGenerated(result.Source)
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.JSON(c, http.StatusOK, result, nil)
}

// Week godoc
// @Summary Get the schedule for a week
// @Description Returns shifts grouped per day with slot and employee names
// @Tags Schedule
// @Produce json
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	week, err := h.service.GetWeek(c.Request.Context(), claims.BusinessID, c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// DeleteWeek godoc
// @Summary Clear the schedule for a week
// @Tags Schedule
// @Produce json
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [delete]
func (h *ScheduleHandler) DeleteWeek(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	deleted, err := h.service.DeleteWeek(c.Request.Context(), claims.BusinessID, c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

// Export godoc
// @Summary Export the weekly schedule as PDF
// @Tags Schedule
// @Produce application/pdf
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	data, filename, err := h.service.ExportWeekPDF(c.Request.Context(), claims.BusinessID, c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
