package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

// WebhookNotifier POSTs critical alerts to an external endpoint (pager
// bridge, chat integration). A nil notifier or empty URL disables delivery.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// webhookPayload is the body sent for each critical alert.
type webhookPayload struct {
	AlertID    string `json:"alert_id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Timestamp  string `json:"timestamp"`
}

// NewWebhookNotifier creates a notifier. Returns nil when url is empty.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	if url == "" {
		return nil
	}

	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &WebhookNotifier{
		client: client,
		url:    url,
		logger: logger,
	}
}

// NotifyCritical delivers every critical alert in the batch. Non-critical
// alerts are skipped. Safe to call on a nil notifier.
func (n *WebhookNotifier) NotifyCritical(ctx context.Context, alerts []domain.Alert) error {
	if n == nil {
		return nil
	}

	for _, alert := range alerts {
		if alert.Severity != domain.SeverityCritical {
			continue
		}
		if err := n.send(ctx, alert); err != nil {
			return err
		}
	}

	return nil
}

func (n *WebhookNotifier) send(ctx context.Context, alert domain.Alert) error {
	payload := webhookPayload{
		AlertID:    alert.ID,
		EmployeeID: alert.EmployeeID,
		Type:       string(alert.Type),
		Severity:   string(alert.Severity),
		Message:    alert.Message,
		Suggestion: alert.Suggestion,
		Timestamp:  alert.Timestamp.UTC().Format(time.RFC3339),
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to deliver alert webhook: %w", err)
	}

	if resp.StatusCode() >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode())
	}

	n.logger.Debug("Delivered critical alert webhook",
		zap.String("alert_id", alert.ID),
		zap.Int("status", resp.StatusCode()),
	)

	return nil
}
