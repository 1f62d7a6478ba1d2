package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// FinancialHandler exposes weekly financial endpoints.
type FinancialHandler struct {
	service   *service.FinancialService
	dashboard *service.DashboardService
}

// NewFinancialHandler constructs the handler.
func NewFinancialHandler(svc *service.FinancialService, dashboard *service.DashboardService) *FinancialHandler {
	return &FinancialHandler{service: svc, dashboard: dashboard}
}

// Submit godoc
// @Summary Submit weekly financials
// @Description Upserts sales and payroll cost for a week and returns the payroll health status
// @Tags Financials
// @Accept json
// @Produce json
// @Param payload body models.UpsertFinancialRequest true "Financial payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /financials [post]
func (h *FinancialHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpsertFinancialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid financial payload"))
		return
	}

	record, err := h.service.SubmitWeek(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), claims.BusinessID)
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Week godoc
// @Summary Get financials for a week
// @Tags Financials
// @Produce json
// @Param week query string true "Week start (Monday, YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /financials/week [get]
func (h *FinancialHandler) Week(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	record, err := h.service.GetWeek(c.Request.Context(), claims.BusinessID, c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Recent godoc
// @Summary List recent weekly financials
// @Tags Financials
// @Produce json
// @Param limit query int false "Number of weeks (default 12, max 52)"
// @Success 200 {object} response.Envelope
// @Router /financials [get]
func (h *FinancialHandler) Recent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.service.ListRecent(c.Request.Context(), claims.BusinessID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
