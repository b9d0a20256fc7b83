package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe: an unreachable Redis behaves like
// an empty cache and writes are dropped.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables caching.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return &Client{}
	}
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   -1,
	})}
}

// Enabled reports whether a Redis server is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping reports connectivity. Used for startup diagnostics only.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON decodes the cached value into dst. It returns false on a miss, on a
// Redis failure, or when the payload no longer decodes.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors are both a miss
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON stores value with TTL, ignoring redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, ttl).Err()
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	_ = c.client.Del(ctx, key).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
