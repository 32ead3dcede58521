package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/config"
	"github.com/spec-kit/jobfinder-service/internal/observability"
	"github.com/spec-kit/jobfinder-service/internal/repository"
)

// WebhookNotifier pushes a recipient's unread notification count to an
// external endpoint. Delivery is advisory: no retry, no backoff, and
// failures are logged and swallowed.
type WebhookNotifier struct {
	notifications repository.NotificationRepository
	client        *http.Client
	url           string
	timeout       time.Duration
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewWebhookNotifier builds the notifier.
func NewWebhookNotifier(notifications repository.NotificationRepository, cfg config.NotificationConfig, metrics *observability.Metrics, logger *zap.Logger) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.WebhookTimeout()
	return &WebhookNotifier{
		notifications: notifications,
		client:        &http.Client{Timeout: timeout},
		url:           cfg.WebhookURL,
		timeout:       timeout,
		metrics:       metrics,
		logger:        logger,
	}
}

type unreadCountPayload struct {
	UserUID     string `json:"user_uid"`
	UnreadCount int    `json:"unread_count"`
}

// Push counts unread notifications for the recipient and POSTs the result.
// The call runs on its own bounded deadline, detached from the request
// context, so a slow endpoint can neither block nor cancel the caller's
// committed write.
func (w *WebhookNotifier) Push(_ context.Context, recipientID string) {
	if w.url == "" {
		w.metrics.RecordWebhookDelivery("skipped")
		return
	}

	pushCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	count, err := w.notifications.CountUnread(pushCtx, recipientID)
	if err != nil {
		w.metrics.RecordWebhookDelivery("error")
		w.logger.Warn("failed to count unread notifications",
			zap.String("recipient_id", recipientID), zap.Error(err))
		return
	}

	body, err := json.Marshal(unreadCountPayload{UserUID: recipientID, UnreadCount: count})
	if err != nil {
		w.metrics.RecordWebhookDelivery("error")
		w.logger.Warn("failed to encode webhook payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(pushCtx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.metrics.RecordWebhookDelivery("error")
		w.logger.Warn("failed to build webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.metrics.RecordWebhookDelivery("error")
		w.logger.Warn("failed to send webhook",
			zap.String("recipient_id", recipientID), zap.Error(err))
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		w.metrics.RecordWebhookDelivery("error")
		w.logger.Warn("webhook endpoint rejected unread-count push",
			zap.String("recipient_id", recipientID), zap.Int("status", resp.StatusCode))
		return
	}
	w.metrics.RecordWebhookDelivery("ok")
}
