package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/redisx"
)

// StreamPublisher fans alerts out to a Redis Stream so downstream consumers
// (dashboards, pagers) pick them up without polling the store.
type StreamPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewStreamPublisher creates a publisher targeting the given stream.
func NewStreamPublisher(client *redis.Client, stream string, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Publish appends one alert to the stream.
func (p *StreamPublisher) Publish(ctx context.Context, alert domain.Alert) error {
	msgID, err := redisx.PublishToStream(ctx, p.client, p.stream, map[string]interface{}{
		"alert_id":    alert.ID,
		"employee_id": alert.EmployeeID,
		"type":        string(alert.Type),
		"severity":    string(alert.Severity),
		"message":     alert.Message,
		"suggestion":  alert.Suggestion,
		"timestamp":   alert.Timestamp.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert to stream: %w", err)
	}

	p.logger.Debug("Published alert to stream",
		zap.String("stream", p.stream),
		zap.String("message_id", msgID),
		zap.String("alert_id", alert.ID),
	)

	return nil
}

// PublishAll publishes each alert, stopping at the first failure.
func (p *StreamPublisher) PublishAll(ctx context.Context, alerts []domain.Alert) error {
	for _, alert := range alerts {
		if err := p.Publish(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}
