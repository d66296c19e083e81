package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"configurator-service/internal/cart"
	"configurator-service/internal/configurator"
	"configurator-service/internal/models"
	"configurator-service/internal/money"
	"configurator-service/internal/redisclient"
	"configurator-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCheckoutInFlight is returned while another submission for the same session is running
var ErrCheckoutInFlight = errors.New("checkout already in progress")

// CheckoutGuard serializes submissions per session and remembers completed ones
type CheckoutGuard interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
	GetIdempotencyKey(ctx context.Context, key string) (string, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CartAdder submits line items to the storefront cart
type CartAdder interface {
	Add(ctx context.Context, cartToken string, items []models.LineItem) error
}

// CheckoutPublisher publishes checkout events
type CheckoutPublisher interface {
	PublishConfigurationCheckedOut(ctx context.Context, event *models.ConfigurationCheckedOutEvent) error
	PublishCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error
}

// CheckoutRequest carries the customer's cart and an optional idempotency key
type CheckoutRequest struct {
	CartToken      string `json:"cart_token,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// CheckoutResult describes a configuration accepted by the cart
type CheckoutResult struct {
	SessionID      string            `json:"session_id"`
	EventID        string            `json:"event_id"`
	Items          []models.LineItem `json:"items"`
	Total          int64             `json:"total"`
	TotalFormatted string            `json:"total_formatted"`
	Replayed       bool              `json:"replayed,omitempty"`
}

// CheckoutService validates a session, submits its payload and reports the outcome
type CheckoutService struct {
	sessions       *ConfiguratorService
	cart           CartAdder
	guard          CheckoutGuard
	publisher      CheckoutPublisher
	lockTTL        time.Duration
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions *ConfiguratorService,
	cartAdder CartAdder,
	guard CheckoutGuard,
	publisher CheckoutPublisher,
	lockTTL time.Duration,
	idempotencyTTL time.Duration,
) *CheckoutService {
	return &CheckoutService{
		sessions:       sessions,
		cart:           cartAdder,
		guard:          guard,
		publisher:      publisher,
		lockTTL:        lockTTL,
		idempotencyTTL: idempotencyTTL,
		logger:         util.GetLogger(),
	}
}

type checkoutSnapshot struct {
	items    []models.LineItem
	total    int64
	tierKey  string
	size     string
	ovenType string
}

// Checkout submits the session's configuration to the cart. Validation failures return a
// *configurator.ValidationError without any network call; cart failures return a wrapped
// *cart.CartError and leave the session as it was.
func (cs *CheckoutService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := util.StartSessionSpan(ctx, "CheckoutService.Checkout", sessionID)
	defer span.End()

	if req.IdempotencyKey != "" {
		if result, ok := cs.replay(ctx, req.IdempotencyKey); ok {
			return result, nil
		}
	}

	lockKey := "checkout:" + sessionID
	acquired, err := cs.guard.AcquireLock(ctx, lockKey, cs.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !acquired {
		util.CheckoutsFailedTotal.WithLabelValues("in_flight").Inc()
		return nil, ErrCheckoutInFlight
	}
	defer func() {
		if err := cs.guard.ReleaseLock(context.Background(), lockKey); err != nil {
			cs.logger.Error("Failed to release checkout lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	var snap checkoutSnapshot
	err = cs.sessions.WithSession(ctx, sessionID, func(s *configurator.Session) error {
		items, err := s.LineItems()
		if err != nil {
			return err
		}
		sel := s.Selection()
		snap = checkoutSnapshot{
			items:    items,
			total:    s.Quote().Total,
			ovenType: string(sel.OvenType),
		}
		if tier := sel.Tier(); tier != nil {
			snap.tierKey = tier.Key
		}
		if size, ok := sel.Size(); ok {
			snap.size = string(size)
		}
		return nil
	})
	if err != nil {
		var verr *configurator.ValidationError
		if errors.As(err, &verr) {
			util.CheckoutsFailedTotal.WithLabelValues("validation").Inc()
			cs.logger.Info("Checkout blocked by incomplete configuration",
				zap.String("session_id", sessionID),
				zap.String("step", string(verr.Step)),
			)
		}
		return nil, err
	}

	start := time.Now()
	err = cs.cart.Add(ctx, req.CartToken, snap.items)
	util.CartAddLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("cart").Inc()
		cs.logger.Warn("Cart submission failed", zap.String("session_id", sessionID), zap.Error(err))
		util.RecordSpanError(span, err)
		cs.publishFailed(ctx, sessionID, snap, err)
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	result := &CheckoutResult{
		SessionID:      sessionID,
		EventID:        uuid.New().String(),
		Items:          snap.items,
		Total:          snap.total,
		TotalFormatted: money.Format(snap.total),
	}

	util.CheckoutsSubmittedTotal.Inc()
	util.CheckoutTotalAmount.Observe(float64(snap.total))
	cs.logger.Info("Configuration added to cart",
		zap.String("session_id", sessionID),
		zap.String("event_id", result.EventID),
		zap.Int("items", len(snap.items)),
		zap.Int64("total", snap.total),
	)

	cs.publishCheckedOut(ctx, result, snap)

	if req.IdempotencyKey != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := cs.guard.SetIdempotencyKey(ctx, req.IdempotencyKey, data, cs.idempotencyTTL); err != nil {
				cs.logger.Error("Failed to store idempotency key", zap.Error(err))
			}
		}
	}

	return result, nil
}

// replay returns the stored result of a completed checkout
func (cs *CheckoutService) replay(ctx context.Context, key string) (*CheckoutResult, bool) {
	val, err := cs.guard.GetIdempotencyKey(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			cs.logger.Warn("Idempotency lookup failed", zap.Error(err))
		}
		return nil, false
	}
	var result CheckoutResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false
	}
	result.Replayed = true
	cs.logger.Info("Duplicate checkout request detected",
		zap.String("idempotency_key", key),
		zap.String("event_id", result.EventID),
	)
	return &result, true
}

func (cs *CheckoutService) publishCheckedOut(ctx context.Context, result *CheckoutResult, snap checkoutSnapshot) {
	if cs.publisher == nil {
		return
	}
	event := &models.ConfigurationCheckedOutEvent{
		BaseEvent: models.BaseEvent{
			EventID:   result.EventID,
			EventType: models.EventTypeConfigurationCheckedOut,
			Timestamp: time.Now(),
		},
		SessionID:   result.SessionID,
		TierKey:     snap.tierKey,
		Size:        snap.size,
		OvenType:    snap.ovenType,
		TotalAmount: snap.total,
		Items:       snap.items,
	}
	if err := cs.publisher.PublishConfigurationCheckedOut(ctx, event); err != nil {
		cs.logger.Error("Failed to publish ConfigurationCheckedOut event", zap.Error(err))
	}
}

func (cs *CheckoutService) publishFailed(ctx context.Context, sessionID string, snap checkoutSnapshot, cause error) {
	if cs.publisher == nil {
		return
	}
	reason := cause.Error()
	var cartErr *cart.CartError
	if errors.As(cause, &cartErr) {
		reason = cartErr.Description
	}
	event := &models.CheckoutFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutFailed,
			Timestamp: time.Now(),
		},
		SessionID:   sessionID,
		TierKey:     snap.tierKey,
		Size:        snap.size,
		OvenType:    snap.ovenType,
		TotalAmount: snap.total,
		Reason:      reason,
	}
	if err := cs.publisher.PublishCheckoutFailed(ctx, event); err != nil {
		cs.logger.Error("Failed to publish CheckoutFailed event", zap.Error(err))
	}
}
