package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/pkg/config"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/storage"
)

type businessRepository interface {
	FindByID(ctx context.Context, id string) (*models.Business, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateLogo(ctx context.Context, id, logoPath string) error
}

// BusinessService manages tenant profile and logo assets. Logos are stored
// on local disk and served through short-lived signed URLs.
type BusinessService struct {
	businesses businessRepository
	store      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	config     config.LogoConfig
}

// NewBusinessService constructs a BusinessService.
func NewBusinessService(businesses businessRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, cfg config.LogoConfig) *BusinessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessService{businesses: businesses, store: store, signer: signer, logger: logger, config: cfg}
}

// Get returns the business profile with a fresh signed logo URL.
func (s *BusinessService) Get(ctx context.Context, businessID string) (*models.Business, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load business")
	}
	s.attachLogoURL(business)
	return business, nil
}

// Rename updates the business display name.
func (s *BusinessService) Rename(ctx context.Context, businessID, name string) (*models.Business, error) {
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	if err := s.businesses.UpdateName(ctx, businessID, name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rename business")
	}
	return s.Get(ctx, businessID)
}

// UploadLogo validates and stores a PNG or JPEG logo up to the configured
// size limit, replacing any previous file.
func (s *BusinessService) UploadLogo(ctx context.Context, businessID, filename string, r io.Reader) (*models.Business, error) {
	business, err := s.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}

	limited := io.LimitReader(r, s.config.MaxFileSizeBytes+1)
	payload, err := io.ReadAll(limited)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read logo upload")
	}
	if int64(len(payload)) > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("logo exceeds %d byte limit", s.config.MaxFileSizeBytes))
	}

	mimeType := http.DetectContentType(payload)
	if !s.allowedMIME(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "logo must be a PNG or JPEG image")
	}

	ext := ".png"
	if mimeType == "image/jpeg" {
		ext = ".jpg"
	}
	relPath := path.Join(businessID, fmt.Sprintf("logo-%s%s", uuid.NewString()[:8], ext))
	if _, err := s.store.SaveStream(relPath, bytes.NewReader(payload)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store logo")
	}

	old := business.LogoPath
	if err := s.businesses.UpdateLogo(ctx, businessID, relPath); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record logo")
	}
	if old != "" && old != relPath {
		if err := s.store.Delete(old); err != nil {
			s.logger.Warn("failed to remove previous logo", zap.Error(err), zap.String("path", old))
		}
	}

	business.LogoPath = relPath
	s.attachLogoURL(business)
	return business, nil
}

// OpenLogo resolves a signed token to the logo file of the business it was
// issued for.
func (s *BusinessService) OpenLogo(token string) (io.ReadCloser, error) {
	businessID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired logo token")
	}
	if businessID == "" || relPath == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid logo token")
	}
	f, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "logo not found")
	}
	return f, nil
}

func (s *BusinessService) attachLogoURL(business *models.Business) {
	if business.LogoPath == "" || s.signer == nil {
		return
	}
	token, _, err := s.signer.Generate(business.ID, business.LogoPath)
	if err != nil {
		s.logger.Warn("failed to sign logo url", zap.Error(err))
		return
	}
	business.LogoURL = fmt.Sprintf("/api/v1/business/logo?token=%s", token)
}

func (s *BusinessService) allowedMIME(mimeType string) bool {
	for _, allowed := range s.config.AllowedMIMEs {
		if mimeType == allowed {
			return true
		}
	}
	return false
}
