package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/middleware"
	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context, businessID string) (*dto.DashboardStats, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
	metrics *service.MetricsService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService, metrics *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{service: svc, metrics: metrics}
}

// Stats godoc
// @Summary Dashboard summary
// @Description Aggregated home-screen stats for the current business, cached briefly
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	start := time.Now()
	stats, cacheHit, err := h.service.Stats(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCacheOperation(cacheHit)
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, meta)
}
