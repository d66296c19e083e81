package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"configurator-service/internal/models"
	"configurator-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing checkout events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishConfigurationCheckedOut publishes ConfigurationCheckedOut event
func (ep *EventPublisher) PublishConfigurationCheckedOut(ctx context.Context, event *models.ConfigurationCheckedOutEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event.EventType, event)
}

// PublishCheckoutFailed publishes CheckoutFailed event
func (ep *EventPublisher) PublishCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event.EventType, event)
}

// events of one session land on the same partition
func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// EventHandler handles incoming events
type EventHandler struct {
	onCheckedOut     func(context.Context, *models.ConfigurationCheckedOutEvent) error
	onCheckoutFailed func(context.Context, *models.CheckoutFailedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnConfigurationCheckedOut registers a handler for ConfigurationCheckedOut events
func (eh *EventHandler) OnConfigurationCheckedOut(handler func(context.Context, *models.ConfigurationCheckedOutEvent) error) {
	eh.onCheckedOut = handler
}

// OnCheckoutFailed registers a handler for CheckoutFailed events
func (eh *EventHandler) OnCheckoutFailed(handler func(context.Context, *models.CheckoutFailedEvent) error) {
	eh.onCheckoutFailed = handler
}

// HandleMessage routes messages to appropriate handlers. The event_type header wins;
// messages without it are routed on the body's event_type field.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	eventType := headerValue(msg, HeaderEventType)
	if eventType == "" {
		var baseEvent models.BaseEvent
		if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
			return fmt.Errorf("failed to unmarshal base event: %w", err)
		}
		eventType = baseEvent.EventType
	}

	eh.logger.Debug("Handling event",
		zap.String("type", eventType),
		zap.String("key", string(msg.Key)),
	)

	switch eventType {
	case models.EventTypeConfigurationCheckedOut:
		if eh.onCheckedOut != nil {
			var event models.ConfigurationCheckedOutEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ConfigurationCheckedOut event: %w", err)
			}
			return eh.onCheckedOut(ctx, &event)
		}

	case models.EventTypeCheckoutFailed:
		if eh.onCheckoutFailed != nil {
			var event models.CheckoutFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutFailed event: %w", err)
			}
			return eh.onCheckoutFailed(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", eventType))
	}

	return nil
}
