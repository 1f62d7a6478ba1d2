package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mainstreet/copilot-api/internal/service"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/response"
)

// BusinessHandler exposes business profile endpoints.
type BusinessHandler struct {
	service *service.BusinessService
}

// NewBusinessHandler constructs the handler.
func NewBusinessHandler(svc *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: svc}
}

// Get godoc
// @Summary Get the current business profile
// @Tags Business
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /business [get]
func (h *BusinessHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	business, err := h.service.Get(c.Request.Context(), claims.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// Update godoc
// @Summary Rename the current business
// @Tags Business
// @Accept json
// @Produce json
// @Param payload body map[string]string true "New business name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /business [put]
func (h *BusinessHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "business name required"))
		return
	}

	business, err := h.service.Rename(c.Request.Context(), claims.BusinessID, payload.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// UploadLogo godoc
// @Summary Upload a business logo
// @Description Accepts a PNG or JPEG file as multipart form field "logo"
// @Tags Business
// @Accept multipart/form-data
// @Produce json
// @Param logo formData file true "Logo image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /business/logo [post]
func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "logo file required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read logo file"))
		return
	}
	defer file.Close()

	business, err := h.service.UploadLogo(c.Request.Context(), claims.BusinessID, fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// Logo godoc
// @Summary Serve a business logo
// @Description Serves the logo addressed by a signed token, no session required
// @Tags Business
// @Produce image/png
// @Param token query string true "Signed logo token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /business/logo [get]
func (h *BusinessHandler) Logo(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	reader, err := h.service.OpenLogo(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read logo"))
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
