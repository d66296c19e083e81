package models

import "time"

// Event types
const (
	EventTypeConfigurationCheckedOut = "CONFIGURATION_CHECKED_OUT"
	EventTypeCheckoutFailed          = "CHECKOUT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfigurationCheckedOutEvent published after the cart accepted a configuration
type ConfigurationCheckedOutEvent struct {
	BaseEvent
	SessionID   string     `json:"session_id"`
	TierKey     string     `json:"tier_key"`
	Size        string     `json:"size"`
	OvenType    string     `json:"oven_type"`
	TotalAmount int64      `json:"total_amount"`
	Items       []LineItem `json:"items"`
}

// CheckoutFailedEvent published when the cart rejected a configuration
type CheckoutFailedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	TierKey     string `json:"tier_key"`
	Size        string `json:"size"`
	OvenType    string `json:"oven_type"`
	TotalAmount int64  `json:"total_amount"`
	Reason      string `json:"reason"`
}
