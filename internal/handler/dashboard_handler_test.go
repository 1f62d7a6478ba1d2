package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/middleware"
	"github.com/mainstreet/copilot-api/internal/models"
)

type fakeDashboardSrv struct {
	resp           *dto.DashboardStats
	hit            bool
	err            error
	lastBusinessID string
}

func (f *fakeDashboardSrv) Stats(_ context.Context, businessID string) (*dto.DashboardStats, bool, error) {
	f.lastBusinessID = businessID
	return f.resp, f.hit, f.err
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestDashboardHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		resp: &dto.DashboardStats{ActiveEmployees: 4},
		hit:  true,
	}
	handler := NewDashboardHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", BusinessID: "biz-1"})

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "biz-1", srv.lastBusinessID)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(4), envelope.Data["active_employees"])
}
