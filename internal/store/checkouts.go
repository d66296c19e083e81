package store

import (
	"context"
	"database/sql"
	"errors"

	"configurator-service/internal/models"
)

// RecordCheckout inserts a checkout record. Records are keyed by event ID;
// a replayed event leaves the existing row untouched and reports inserted=false.
func (s *Store) RecordCheckout(ctx context.Context, rec *models.CheckoutRecord) (bool, error) {
	query := `
		INSERT INTO checkouts (event_id, session_id, tier_key, size, oven_type, total_amount, item_count, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		rec.EventID, rec.SessionID, rec.TierKey, rec.Size, rec.OvenType,
		rec.TotalAmount, rec.ItemCount, rec.Status, rec.Reason,
	).Scan(&rec.ID, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCheckoutByEventID retrieves a checkout by its event ID, or nil when absent
func (s *Store) GetCheckoutByEventID(ctx context.Context, eventID string) (*models.CheckoutRecord, error) {
	var rec models.CheckoutRecord
	err := s.db.GetContext(ctx, &rec, "SELECT * FROM checkouts WHERE event_id = $1", eventID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetCheckoutsBySession retrieves the checkout history of a session, newest first
func (s *Store) GetCheckoutsBySession(ctx context.Context, sessionID string) ([]models.CheckoutRecord, error) {
	var records []models.CheckoutRecord
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM checkouts WHERE session_id = $1 ORDER BY created_at DESC", sessionID)
	return records, err
}
