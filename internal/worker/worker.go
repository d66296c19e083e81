package worker

import (
	"context"
	"fmt"

	"configurator-service/internal/broker"
	"configurator-service/internal/models"
	"configurator-service/internal/util"

	"go.uber.org/zap"
)

// CheckoutRecorder persists checkout records
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, rec *models.CheckoutRecord) (bool, error)
}

// CheckoutWorker consumes checkout events and records them in the checkout log
type CheckoutWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	recorder     CheckoutRecorder
	logger       *zap.Logger
}

// NewCheckoutWorker creates a new checkout worker
func NewCheckoutWorker(consumer *broker.Consumer, recorder CheckoutRecorder) *CheckoutWorker {
	w := &CheckoutWorker{
		consumer: consumer,
		recorder: recorder,
		logger:   util.GetLogger(),
	}

	w.eventHandler = broker.NewEventHandler()
	w.eventHandler.OnConfigurationCheckedOut(w.HandleCheckedOut)
	w.eventHandler.OnCheckoutFailed(w.HandleCheckoutFailed)

	return w
}

// Handler returns the event router used by the worker
func (w *CheckoutWorker) Handler() *broker.EventHandler {
	return w.eventHandler
}

// Start starts the worker
func (w *CheckoutWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting checkout worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CheckoutWorker) Stop() error {
	w.logger.Info("Stopping checkout worker")
	return w.consumer.Close()
}

// HandleCheckedOut records a submitted configuration
func (w *CheckoutWorker) HandleCheckedOut(ctx context.Context, event *models.ConfigurationCheckedOutEvent) error {
	return w.record(ctx, &models.CheckoutRecord{
		EventID:     event.EventID,
		SessionID:   event.SessionID,
		TierKey:     event.TierKey,
		Size:        event.Size,
		OvenType:    event.OvenType,
		TotalAmount: event.TotalAmount,
		ItemCount:   len(event.Items),
		Status:      models.CheckoutStatusSubmitted,
	})
}

// HandleCheckoutFailed records a rejected configuration
func (w *CheckoutWorker) HandleCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error {
	return w.record(ctx, &models.CheckoutRecord{
		EventID:     event.EventID,
		SessionID:   event.SessionID,
		TierKey:     event.TierKey,
		Size:        event.Size,
		OvenType:    event.OvenType,
		TotalAmount: event.TotalAmount,
		Status:      models.CheckoutStatusFailed,
		Reason:      event.Reason,
	})
}

func (w *CheckoutWorker) record(ctx context.Context, rec *models.CheckoutRecord) error {
	ctx, span := util.StartSessionSpan(ctx, "CheckoutWorker.record", rec.SessionID)
	defer span.End()

	inserted, err := w.recorder.RecordCheckout(ctx, rec)
	if err != nil {
		util.RecordSpanError(span, err)
		return fmt.Errorf("failed to record checkout %s: %w", rec.EventID, err)
	}
	if !inserted {
		w.logger.Info("Checkout event already recorded", zap.String("event_id", rec.EventID))
		return nil
	}

	util.CheckoutsRecordedTotal.WithLabelValues(rec.Status).Inc()
	w.logger.Info("Checkout recorded",
		zap.String("event_id", rec.EventID),
		zap.String("session_id", rec.SessionID),
		zap.String("status", rec.Status),
		zap.Int64("total_amount", rec.TotalAmount),
	)
	return nil
}
