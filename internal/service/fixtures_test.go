package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"configurator-service/internal/models"
	"configurator-service/internal/redisclient"
)

func product(id int64, title string, price int64, variantID int64) models.CatalogProduct {
	return models.CatalogProduct{
		ID:       id,
		Title:    title,
		Price:    price,
		Variants: []models.Variant{{ID: variantID, Price: price}},
	}
}

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Base: []models.Tier{
			{
				Key:   models.TierClassic,
				Title: "Nordic Elite Classic",
				Image: "classic.jpg",
				Price: 500000,
				Products: []models.CatalogProduct{
					product(10, "Nordic Elite XL Classic", 500000, 101),
					product(11, "Nordic Elite XL Classic I", 520000, 111),
				},
			},
		},
		Liners:    []models.CatalogProduct{product(200, "Liner Pearl", 0, 2001)},
		Exteriors: []models.CatalogProduct{product(300, "Exterior Thermal Wood", 41702, 3001)},
		LEDs:      []models.CatalogProduct{product(700, "LED Lamp RGB", 4573, 7001)},
	}
}

type staticCatalog struct {
	catalog *models.Catalog
}

func (s staticCatalog) Catalog() *models.Catalog {
	return s.catalog
}

type fakeSource struct {
	catalog *models.Catalog
	err     error
	calls   int
}

func (f *fakeSource) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	f.calls++
	return f.catalog, f.err
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetCache(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[key]
	if !ok {
		return nil, redisclient.ErrCacheMiss
	}
	return data, nil
}

func (f *fakeCache) SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
	return nil
}

func (f *fakeCache) DeleteCache(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	f.deleted++
	return nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

type fakeGuard struct {
	mu    sync.Mutex
	locks map[string]bool
	keys  map[string]string
	err   error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{locks: make(map[string]bool), keys: make(map[string]string)}
}

func (f *fakeGuard) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.locks[lockKey] {
		return false, nil
	}
	f.locks[lockKey] = true
	return true, nil
}

func (f *fakeGuard) ReleaseLock(ctx context.Context, lockKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, lockKey)
	return nil
}

func (f *fakeGuard) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.keys[key]
	if !ok {
		return "", redisclient.ErrCacheMiss
	}
	return val, nil
}

func (f *fakeGuard) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.keys[key] = string(v)
	case string:
		f.keys[key] = v
	default:
		return errors.New("unsupported value")
	}
	return nil
}

type fakeCart struct {
	err   error
	calls int
	token string
	items []models.LineItem
}

func (f *fakeCart) Add(ctx context.Context, cartToken string, items []models.LineItem) error {
	f.calls++
	f.token = cartToken
	f.items = items
	return f.err
}

type fakePublisher struct {
	checkedOut []*models.ConfigurationCheckedOutEvent
	failed     []*models.CheckoutFailedEvent
}

func (f *fakePublisher) PublishConfigurationCheckedOut(ctx context.Context, event *models.ConfigurationCheckedOutEvent) error {
	f.checkedOut = append(f.checkedOut, event)
	return nil
}

func (f *fakePublisher) PublishCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error {
	f.failed = append(f.failed, event)
	return nil
}
