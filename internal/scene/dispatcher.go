package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/etokheim/scene-extrapolation/internal/extrapolate"
	"github.com/etokheim/scene-extrapolation/pkg/mqtt"
)

// Dispatcher delivers one device update to the host
type Dispatcher interface {
	// Dispatch invokes the host action for a single device update
	Dispatch(ctx context.Context, update extrapolate.DeviceUpdate) error
}

// MQTTDispatcher publishes device updates as per-domain command messages
type MQTTDispatcher struct {
	mqtt   mqtt.Client
	logger *slog.Logger
}

// NewMQTTDispatcher creates an MQTT-backed dispatcher
func NewMQTTDispatcher(mqttClient mqtt.Client, logger *slog.Logger) *MQTTDispatcher {
	return &MQTTDispatcher{
		mqtt:   mqttClient,
		logger: logger,
	}
}

// deviceCommand is the wire format of one device update
type deviceCommand struct {
	EntityID   string                       `json:"entity_id"`
	Action     string                       `json:"action"`
	Attributes extrapolate.UpdateAttributes `json:"attributes"`
	Timestamp  string                       `json:"timestamp"`
}

// Dispatch publishes the update to automation/command/{domain}/{entity_id}
func (d *MQTTDispatcher) Dispatch(ctx context.Context, update extrapolate.DeviceUpdate) error {
	command := deviceCommand{
		EntityID:   update.EntityID,
		Action:     update.Action,
		Attributes: update.Attributes,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("failed to marshal device command: %w", err)
	}

	topic := mqtt.DeviceCommandTopic(update.Domain, update.EntityID)
	if err := d.mqtt.Publish(topic, 0, false, payload); err != nil {
		return fmt.Errorf("failed to publish device command: %w", err)
	}

	d.logger.Debug("Dispatched device update",
		"entity_id", update.EntityID,
		"action", update.Action,
		"topic", topic)

	return nil
}
