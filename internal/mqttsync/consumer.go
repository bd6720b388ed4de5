package mqttsync

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"pulsewatch/internal/schema"
	"pulsewatch/internal/service"
)

// Consumer feeds MQTT sync payloads through the same validate-then-process
// pipeline the HTTP endpoint uses. Topics carry the device id as the last
// segment but the payload is authoritative.
type Consumer struct {
	validator *schema.Validator
	syncs     *service.SyncService
	logger    *zap.Logger
}

// NewConsumer creates a consumer.
func NewConsumer(validator *schema.Validator, syncs *service.SyncService, logger *zap.Logger) *Consumer {
	return &Consumer{
		validator: validator,
		syncs:     syncs,
		logger:    logger,
	}
}

// Start subscribes the consumer to the topic filter.
func (c *Consumer) Start(client *Client, topic string) error {
	return client.Subscribe(topic, c.handleMessage)
}

// handleMessage validates and processes one published sync payload. Bad
// payloads are logged and dropped; MQTT has no reply channel to reject on.
func (c *Consumer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	packet, err := c.validator.ValidateJSON(msg.Payload())
	if err != nil {
		c.logger.Warn("Dropping invalid MQTT sync payload",
			zap.String("topic", msg.Topic()),
			zap.Error(err),
		)
		return
	}

	result, err := c.syncs.ProcessSync(context.Background(), packet)
	if err != nil {
		c.logger.Error("MQTT sync processing failed",
			zap.String("topic", msg.Topic()),
			zap.String("employee_id", packet.EmployeeID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("MQTT sync processed",
		zap.String("topic", msg.Topic()),
		zap.String("sync_id", result.SyncID),
		zap.Int("records_created", result.RecordsCreated),
	)
}
