package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	ctx := context.Background()
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	if err := mc.Ping(ctx); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	// Missing keys map to ErrCacheMiss
	_, err := mc.Get(ctx, "missing_key")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Set a value
	err = mc.Set(ctx, "test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get(ctx, "test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	// Delete the value
	err = mc.Delete(ctx, "test_key")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get(ctx, "test_key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
