package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	generationKey = "catalog:generation"
	searchPrefix  = "search:"
)

// ErrCacheMiss is returned by Get when nothing is cached under the key.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// SearchKey builds the cache key for one search. The catalog generation is
// part of the key, so bumping it makes every older entry unreachable.
func SearchKey(generation int64, parts ...interface{}) string {
	key := fmt.Sprintf("%s%d", searchPrefix, generation)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Get decodes the JSON value stored under key into dest.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cached value: %w", err)
	}
	return json.Unmarshal(val, dest)
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached value: %w", err)
	}
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

// Generation returns the current catalog generation, 0 when never bumped.
func (c *Client) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Invalidate bumps the catalog generation.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
