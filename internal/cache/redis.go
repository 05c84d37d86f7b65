package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const keyPrefix = "catalogctl:lookup:"

// Cache is a Redis-backed Lookup; lists survive across CLI runs
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(kind Kind) string {
	return keyPrefix + string(kind)
}

func getJSON[T any](ctx context.Context, c *Cache, kind Kind) ([]T, bool, error) {
	data, err := c.client.Get(ctx, key(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			recordAccess(kind, false)
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", kind, err)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}

	recordAccess(kind, true)
	return out, true, nil
}

func setJSON[T any](ctx context.Context, c *Cache, kind Kind, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	return c.client.Set(ctx, key(kind), data, c.ttl).Err()
}

// Types returns the cached content types
func (c *Cache) Types(ctx context.Context) ([]models.ContentType, bool, error) {
	return getJSON[models.ContentType](ctx, c, KindTypes)
}

// SetTypes stores the content types
func (c *Cache) SetTypes(ctx context.Context, types []models.ContentType) error {
	return setJSON(ctx, c, KindTypes, types)
}

// Categories returns the cached categories
func (c *Cache) Categories(ctx context.Context) ([]models.Category, bool, error) {
	return getJSON[models.Category](ctx, c, KindCategories)
}

// SetCategories stores the categories
func (c *Cache) SetCategories(ctx context.Context, categories []models.Category) error {
	return setJSON(ctx, c, KindCategories, categories)
}

// Invalidate drops the given lists
func (c *Cache) Invalidate(ctx context.Context, kinds ...Kind) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = key(k)
	}
	return c.client.Del(ctx, keys...).Err()
}
