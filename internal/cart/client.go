package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"configurator-service/config"
	"configurator-service/internal/models"
)

const (
	addPath            = "/cart/add.js"
	cartCookie         = "cart"
	defaultDescription = "Could not add to cart."
)

// ErrNoItems is returned when an empty payload is submitted
var ErrNoItems = errors.New("no items to add")

// CartError is a failed cart submission. The session is left untouched and
// the submission may be retried.
type CartError struct {
	Status      int
	Description string
}

func (e *CartError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("cart add failed: %s", e.Description)
	}
	return fmt.Sprintf("cart add failed: status %d: %s", e.Status, e.Description)
}

// Retryable reports whether the submission can be attempted again
func (e *CartError) Retryable() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500 || e.Status == http.StatusUnprocessableEntity
}

// AddRequest is the storefront's add-to-cart body
type AddRequest struct {
	Items []models.LineItem `json:"items"`
}

type errorResponse struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Client submits line items to the storefront cart endpoint
type Client struct {
	storeURL   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storefront cart client
func NewClient(cfg config.StorefrontConfig, logger *zap.Logger) *Client {
	timeout := cfg.CartTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		storeURL: strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Add posts the items to the cart identified by cartToken. An empty token lets the
// storefront create a new cart.
func (c *Client) Add(ctx context.Context, cartToken string, items []models.LineItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}

	jsonData, err := json.Marshal(AddRequest{Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal cart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.storeURL+addPath, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cartToken != "" {
		req.AddCookie(&http.Cookie{Name: cartCookie, Value: cartToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Cart request failed", zap.Error(err))
		return &CartError{Description: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CartError{Status: resp.StatusCode, Description: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cartErr := &CartError{Status: resp.StatusCode, Description: defaultDescription}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Description != "" {
			cartErr.Description = errResp.Description
		}
		c.logger.Warn("Cart rejected items",
			zap.Int("status", resp.StatusCode),
			zap.String("description", cartErr.Description),
			zap.Int("items", len(items)),
		)
		return cartErr
	}

	c.logger.Info("Items added to cart", zap.Int("items", len(items)))
	return nil
}
