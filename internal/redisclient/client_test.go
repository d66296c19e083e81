package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutLock(t *testing.T) {
	t.Skip("Integration test - requires redis")

	client, err := NewClient("localhost:6379", "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := "checkout:" + uuid.New().String()

	ok, err := client.AcquireLock(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second attempt while the lock is held fails
	ok, err = client.AcquireLock(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.ReleaseLock(ctx, key))
	ok, err = client.AcquireLock(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCatalogCache(t *testing.T) {
	t.Skip("Integration test - requires redis")

	client, err := NewClient("localhost:6379", "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := "catalog:" + uuid.New().String()

	_, err = client.GetCache(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, client.SetCache(ctx, key, []byte(`{"base":[]}`), time.Minute))
	data, err := client.GetCache(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":[]}`, string(data))

	require.NoError(t, client.DeleteCache(ctx, key))
	_, err = client.GetCache(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
