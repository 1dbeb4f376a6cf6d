package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis")
	require.Error(t, err)
}

func TestJSON_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := &JSON{Client: client, TTL: time.Second}
	ctx := context.Background()

	var dst map[string]int
	found, err := c.Get(ctx, "dashboard", &dst)
	assert.Error(t, err)
	assert.False(t, found)

	assert.Error(t, c.Set(ctx, "dashboard", map[string]int{"a": 1}))
}
