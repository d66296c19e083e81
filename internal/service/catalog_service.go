package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"configurator-service/internal/configurator"
	"configurator-service/internal/models"
	"configurator-service/internal/money"
	"configurator-service/internal/redisclient"
	"configurator-service/internal/util"

	"go.uber.org/zap"
)

// ErrCatalogNotLoaded is returned before the first successful load
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// CatalogSource supplies the catalog document
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*models.Catalog, error)
}

// CatalogCache stores the encoded catalog between restarts
type CatalogCache interface {
	GetCache(ctx context.Context, key string) ([]byte, error)
	SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error
	DeleteCache(ctx context.Context, key string) error
}

// FileCatalogSource reads the catalog from a JSON document on disk
type FileCatalogSource struct {
	Path string
}

// LoadCatalog decodes the catalog file
func (f FileCatalogSource) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return &catalog, nil
}

// CatalogService loads the catalog, fast path via Redis, and hands out the current version.
// A loaded catalog is never mutated; reloads swap in a new document for new sessions.
type CatalogService struct {
	source   CatalogSource
	cache    CatalogCache
	cacheKey string
	cacheTTL time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	catalog *models.Catalog
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(source CatalogSource, cache CatalogCache, cacheKey string, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		source:   source,
		cache:    cache,
		cacheKey: cacheKey,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// Load fetches the catalog from cache, falling back to the source
func (cs *CatalogService) Load(ctx context.Context) (*models.Catalog, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Load")
	defer span.End()

	if catalog, ok := cs.loadCached(ctx); ok {
		cs.set(catalog)
		util.CatalogLoadsTotal.WithLabelValues("cache").Inc()
		return catalog, nil
	}
	return cs.loadSource(ctx)
}

// Reload drops the cached copy and reads the source again
func (cs *CatalogService) Reload(ctx context.Context) (*models.Catalog, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Reload")
	defer span.End()

	if cs.cache != nil {
		if err := cs.cache.DeleteCache(ctx, cs.cacheKey); err != nil {
			cs.logger.Warn("Failed to drop cached catalog", zap.Error(err))
		}
	}
	return cs.loadSource(ctx)
}

func (cs *CatalogService) loadCached(ctx context.Context) (*models.Catalog, bool) {
	if cs.cache == nil {
		return nil, false
	}
	data, err := cs.cache.GetCache(ctx, cs.cacheKey)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			cs.logger.Warn("Catalog cache read failed, falling back to source", zap.Error(err))
		}
		return nil, false
	}
	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		cs.logger.Warn("Cached catalog is corrupt, falling back to source", zap.Error(err))
		return nil, false
	}
	return &catalog, true
}

func (cs *CatalogService) loadSource(ctx context.Context) (*models.Catalog, error) {
	catalog, err := cs.source.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	cs.set(catalog)
	util.CatalogLoadsTotal.WithLabelValues("source").Inc()
	cs.logger.Info("Catalog loaded",
		zap.Int("tiers", len(catalog.Base)),
		zap.Int("liners", len(catalog.Liners)),
		zap.Int("exteriors", len(catalog.Exteriors)),
	)

	if cs.cache != nil {
		data, err := json.Marshal(catalog)
		if err != nil {
			return catalog, nil
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := cs.cache.SetCache(ctx, cs.cacheKey, data, cs.cacheTTL); err != nil {
				cs.logger.Error("Failed to cache catalog", zap.Error(err))
			}
		}()
	}
	return catalog, nil
}

func (cs *CatalogService) set(catalog *models.Catalog) {
	cs.mu.Lock()
	cs.catalog = catalog
	cs.mu.Unlock()
}

// Catalog returns the current catalog, or nil before the first load
func (cs *CatalogService) Catalog() *models.Catalog {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.catalog
}

// TierSummary is a tier with the sizes it can be built in
type TierSummary struct {
	Key            string                    `json:"key"`
	Title          string                    `json:"title"`
	Image          string                    `json:"image,omitempty"`
	Price          int64                     `json:"price"`
	PriceFormatted string                    `json:"price_formatted"`
	Sizes          []configurator.SizeOption `json:"sizes"`
}

// Tiers lists every tier with its available sizes
func (cs *CatalogService) Tiers() ([]TierSummary, error) {
	catalog := cs.Catalog()
	if catalog == nil {
		return nil, ErrCatalogNotLoaded
	}

	tiers := make([]TierSummary, 0, len(catalog.Base))
	for i := range catalog.Base {
		tier := &catalog.Base[i]
		tiers = append(tiers, TierSummary{
			Key:            tier.Key,
			Title:          tier.Title,
			Image:          tier.Image,
			Price:          tier.Price,
			PriceFormatted: money.Format(tier.Price),
			Sizes:          configurator.AvailableSizes(nil, tier),
		})
	}
	return tiers, nil
}
