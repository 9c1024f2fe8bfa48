package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a JSON-over-Redis cache with a fixed TTL, used to avoid a store
// round-trip for the authenticated user on every request.
type Cache struct {
	rdb *redis.Client // Redis client
	ttl time.Duration // Lifetime of each entry
}

// NewCache builds a cache over the given Redis client
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// UserKey returns the cache key holding the user with the given id
func UserKey(id uint) string {
	return "user:" + strconv.Itoa(int(id))
}

// Get retrieves a value and unmarshals it into dest, reporting whether the key existed
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores a value under the given key for the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Delete removes the given keys, invalidating their cached values
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}
