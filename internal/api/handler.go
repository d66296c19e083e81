package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"configurator-service/internal/cart"
	"configurator-service/internal/configurator"
	"configurator-service/internal/money"
	"configurator-service/internal/service"
	"configurator-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	catalog      *service.CatalogService
	configurator *service.ConfiguratorService
	checkout     *service.CheckoutService
	checks       map[string]ReadinessCheck
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	configurator *service.ConfiguratorService,
	checkout *service.CheckoutService,
	checks map[string]ReadinessCheck,
) *Handler {
	return &Handler{
		catalog:      catalog,
		configurator: configurator,
		checkout:     checkout,
		checks:       checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/tiers", h.listTiers)
		v1.POST("/catalog/reload", h.reloadCatalog)

		v1.POST("/sessions", h.createSession)
		v1.GET("/sessions/:id", h.getSession)
		v1.DELETE("/sessions/:id", h.deleteSession)
		v1.POST("/sessions/:id/commands", h.applyCommand)
		v1.POST("/sessions/:id/line-items", h.previewLineItems)
		v1.POST("/sessions/:id/checkout", h.checkoutSession)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the catalog is loaded and every dependency answers
func (h *Handler) readinessCheck(c *gin.Context) {
	failures := gin.H{}
	if h.catalog.Catalog() == nil {
		failures["catalog"] = service.ErrCatalogNotLoaded.Error()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"failures": failures,
			"time":     time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": h.configurator.SessionCount(),
		"time":     time.Now().Unix(),
	})
}

// listTiers handles tier listing with available sizes
func (h *Handler) listTiers(c *gin.Context) {
	tiers, err := h.catalog.Tiers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

// reloadCatalog re-reads the catalog; existing sessions keep the version they started with
func (h *Handler) reloadCatalog(c *gin.Context) {
	catalog, err := h.catalog.Reload(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to reload catalog",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": len(catalog.Base)})
}

// createSession starts a new configurator session
func (h *Handler) createSession(c *gin.Context) {
	snap, err := h.configurator.CreateSession(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// getSession returns the session snapshot
func (h *Handler) getSession(c *gin.Context) {
	snap, err := h.configurator.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// deleteSession discards a session
func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.configurator.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// applyCommand applies one selection command
func (h *Handler) applyCommand(c *gin.Context) {
	var cmd configurator.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	snap, err := h.configurator.ApplyCommand(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// previewLineItems validates the session and returns the cart payload without submitting it
func (h *Handler) previewLineItems(c *gin.Context) {
	items, quote, err := h.configurator.PreviewLineItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":           items,
		"total":           quote.Total,
		"total_formatted": money.Format(quote.Total),
	})
}

// checkoutSession submits the configuration to the storefront cart
func (h *Handler) checkoutSession(c *gin.Context) {
	var req service.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": err.Error(),
			})
			return
		}
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}
	if req.CartToken == "" {
		if token, err := c.Cookie("cart"); err == nil {
			req.CartToken = token
		}
	}

	result, err := h.checkout.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps service errors to HTTP responses
func writeError(c *gin.Context, err error) {
	var verr *configurator.ValidationError
	var cartErr *cart.CartError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"step":  verr.Step,
		})
	case errors.As(err, &cartErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Could not add to cart",
			"details":   cartErr.Description,
			"retryable": cartErr.Retryable(),
		})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrCheckoutInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCatalogNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case configurator.IsCommandError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Command rejected",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
