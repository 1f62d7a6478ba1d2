package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/pkg/jobs"
	"github.com/mainstreet/copilot-api/pkg/mail"
)

type alertInventoryReader interface {
	ListBelowMinimum(ctx context.Context, businessID string) ([]models.InventoryItem, error)
}

type alertOwnerReader interface {
	FindOwnerByBusiness(ctx context.Context, businessID string) (*models.User, error)
}

type alertMailer interface {
	Send(msg mail.Message) error
}

// AlertServiceConfig governs the background alert queue.
type AlertServiceConfig struct {
	Workers    int
	MaxRetries int
}

// AlertService sends low-stock emails to business owners. Checks run on a
// background queue so inventory writes never wait on SMTP.
type AlertService struct {
	items  alertInventoryReader
	owners alertOwnerReader
	mailer alertMailer
	logger *zap.Logger
	queue  *jobs.Queue
}

// NewAlertService constructs an AlertService with its own worker queue.
func NewAlertService(items alertInventoryReader, owners alertOwnerReader, mailer alertMailer, logger *zap.Logger, cfg AlertServiceConfig) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AlertService{items: items, owners: owners, mailer: mailer, logger: logger}
	s.queue = jobs.NewQueue("low-stock-alerts", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the alert workers.
func (s *AlertService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the alert workers.
func (s *AlertService) Stop() {
	s.queue.Stop()
}

// EnqueueCheck schedules a low-stock scan for a business. A full queue drops
// the check; the next inventory write will enqueue another.
func (s *AlertService) EnqueueCheck(businessID string) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "low_stock_check",
		Payload: businessID,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue low stock check", zap.Error(err), zap.String("businessId", businessID))
	}
}

func (s *AlertService) handle(ctx context.Context, job jobs.Job) error {
	businessID, ok := job.Payload.(string)
	if !ok || businessID == "" {
		return fmt.Errorf("low stock check: bad payload %T", job.Payload)
	}

	low, err := s.items.ListBelowMinimum(ctx, businessID)
	if err != nil {
		return fmt.Errorf("low stock check: %w", err)
	}
	if len(low) == 0 {
		return nil
	}

	owner, err := s.owners.FindOwnerByBusiness(ctx, businessID)
	if err != nil {
		return fmt.Errorf("low stock check owner lookup: %w", err)
	}

	var b strings.Builder
	b.WriteString("<p>These items are running low:</p><ul>")
	for _, item := range low {
		b.WriteString(fmt.Sprintf("<li><b>%s</b>: %d on hand, minimum %d (%s)", item.Name, item.Quantity, item.MinQuantity, item.StockStatus()))
		if item.InstacartLink != "" {
			b.WriteString(fmt.Sprintf(` &mdash; <a href=%q>reorder</a>`, item.InstacartLink))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")

	if err := s.mailer.Send(mail.Message{
		To:      owner.Email,
		Subject: fmt.Sprintf("Low stock alert: %d item(s) need attention", len(low)),
		HTML:    b.String(),
	}); err != nil {
		return fmt.Errorf("low stock alert mail: %w", err)
	}

	s.logger.Info("low stock alert sent", zap.String("businessId", businessID), zap.Int("items", len(low)))
	return nil
}
