package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// AvailabilityHandler exposes weekly availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Submit godoc
// @Summary Submit weekly availability for an employee
// @Description Replaces the employee's availability for the given week in one shot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.SubmitAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	entries, err := h.service.SubmitWeek(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// WeekForEmployee godoc
// @Summary Get an employee's availability for a week
// @Tags Availability
// @Produce json
// @Param id path string true "Employee ID"
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /employees/{id}/availability [get]
func (h *AvailabilityHandler) WeekForEmployee(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entries, err := h.service.GetWeek(c.Request.Context(), claims.BusinessID, c.Param("id"), c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// WeekForBusiness godoc
// @Summary Get all availability for a week
// @Description Returns every roster entry's availability for the given week
// @Tags Availability
// @Produce json
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) WeekForBusiness(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entries, err := h.service.GetWeekForBusiness(c.Request.Context(), claims.BusinessID, c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
