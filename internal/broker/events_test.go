package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"configurator-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestEventHandler_RoutesCheckedOut(t *testing.T) {
	handler := NewEventHandler()

	var got *models.ConfigurationCheckedOutEvent
	handler.OnConfigurationCheckedOut(func(ctx context.Context, e *models.ConfigurationCheckedOutEvent) error {
		got = e
		return nil
	})
	handler.OnCheckoutFailed(func(ctx context.Context, e *models.CheckoutFailedEvent) error {
		t.Fatal("unexpected CheckoutFailed")
		return nil
	})

	event := &models.ConfigurationCheckedOutEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeConfigurationCheckedOut,
			Timestamp: time.Now(),
		},
		SessionID:   "sess-1",
		TierKey:     models.TierClassic,
		TotalAmount: 520000,
		Items:       []models.LineItem{{VariantID: 111, Quantity: 1}},
	}

	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, int64(520000), got.TotalAmount)
	assert.Len(t, got.Items, 1)
}

func TestEventHandler_RoutesCheckoutFailed(t *testing.T) {
	handler := NewEventHandler()

	var reason string
	handler.OnCheckoutFailed(func(ctx context.Context, e *models.CheckoutFailedEvent) error {
		reason = e.Reason
		return nil
	})

	event := &models.CheckoutFailedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeCheckoutFailed},
		Reason:    "sold out",
	}

	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))
	assert.Equal(t, "sold out", reason)
}

func TestEventHandler_IgnoresUnknownAndUnregistered(t *testing.T) {
	handler := NewEventHandler()

	unknown := models.BaseEvent{EventID: "evt-3", EventType: "ORDER_CREATED"}
	assert.NoError(t, handler.HandleMessage(context.Background(), message(t, unknown)))

	failed := models.CheckoutFailedEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypeCheckoutFailed}}
	assert.NoError(t, handler.HandleMessage(context.Background(), message(t, failed)))

	assert.Error(t, handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")}))
}

func TestEventHandler_RoutesOnHeader(t *testing.T) {
	handler := NewEventHandler()

	var called bool
	handler.OnCheckoutFailed(func(ctx context.Context, e *models.CheckoutFailedEvent) error {
		called = true
		assert.Equal(t, "sess-9", e.SessionID)
		return nil
	})

	// body carries no event_type; the header decides
	msg, err := newMessage(sessionKey("sess-9"), models.EventTypeCheckoutFailed, map[string]string{"session_id": "sess-9"})
	require.NoError(t, err)

	require.NoError(t, handler.HandleMessage(context.Background(), msg))
	assert.True(t, called)
}

func TestNewMessage(t *testing.T) {
	msg, err := newMessage("session-abc", models.EventTypeConfigurationCheckedOut, &models.ConfigurationCheckedOutEvent{SessionID: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "session-abc", string(msg.Key))
	assert.Equal(t, models.EventTypeConfigurationCheckedOut, headerValue(msg, HeaderEventType))
	assert.Empty(t, headerValue(msg, "missing"))
	assert.Contains(t, string(msg.Value), `"session_id":"abc"`)

	_, err = newMessage("k", "BAD", make(chan int))
	assert.Error(t, err)
}
