package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// EmployeeHandler exposes employee roster endpoints.
type EmployeeHandler struct {
	service   *service.EmployeeService
	dashboard *service.DashboardService
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(svc *service.EmployeeService, dashboard *service.DashboardService) *EmployeeHandler {
	return &EmployeeHandler{service: svc, dashboard: dashboard}
}

func (h *EmployeeHandler) invalidateDashboard(c *gin.Context, businessID string) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), businessID)
	}
}

// List godoc
// @Summary List employees
// @Description Lists the roster, optionally restricted to active employees
// @Tags Employees
// @Produce json
// @Param active query bool false "Only active employees"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	activeOnly := c.Query("active") == "true"
	employees, err := h.service.List(c.Request.Context(), claims.BusinessID, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Get godoc
// @Summary Get a single employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	employee, err := h.service.Get(c.Request.Context(), claims.BusinessID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create godoc
// @Summary Add an employee to the roster
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body models.CreateEmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}

	employee, err := h.service.Create(c.Request.Context(), claims.BusinessID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.Created(c, employee)
}

// Update godoc
// @Summary Update an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body models.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}

	employee, err := h.service.Update(c.Request.Context(), claims.BusinessID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.JSON(c, http.StatusOK, employee, nil)
}

// Deactivate godoc
// @Summary Deactivate an employee
// @Description Soft-deletes the employee so history and past schedules remain intact
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), claims.BusinessID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, claims.BusinessID)
	response.NoContent(c)
}

// Invite godoc
// @Summary Invite an employee to the app
// @Description Creates an EMPLOYEE login for a roster entry and emails a temporary password
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body dto.InviteEmployeeRequest true "Invite payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /employees/invite [post]
func (h *EmployeeHandler) Invite(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.InviteEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invite payload"))
		return
	}

	result, err := h.service.Invite(c.Request.Context(), claims.BusinessID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
