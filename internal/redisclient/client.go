package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/decrement_stock.lua
var decrementStockScript string

//go:embed scripts/restock.lua
var restockScript string

// ErrNotTracked is returned when an asset has no stock entry in the cache
var ErrNotTracked = errors.New("asset not tracked in cache")

type Client struct {
	rdb             *redis.Client
	decrementScript *redis.Script
	restockScript   *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:             rdb,
		decrementScript: redis.NewScript(decrementStockScript),
		restockScript:   redis.NewScript(restockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(assetID int64) string {
	return fmt.Sprintf("asset:stock:%d", assetID)
}

// DecrementStock atomically takes one unit of cached stock using a Lua
// script. Returns false when the cache knows the asset is out of stock.
func (c *Client) DecrementStock(ctx context.Context, assetID int64) (bool, error) {
	result, err := c.decrementScript.Run(ctx, c.rdb, []string{stockKey(assetID)}).Result()
	if err != nil {
		return false, fmt.Errorf("decrement stock script failed: %w", err)
	}

	outcome, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}
	if outcome == -1 {
		return false, ErrNotTracked
	}

	return outcome == 1, nil
}

// RestockStock atomically puts one unit of cached stock back
func (c *Client) RestockStock(ctx context.Context, assetID int64) error {
	_, err := c.restockScript.Run(ctx, c.rdb, []string{stockKey(assetID)}).Result()
	if err != nil {
		return fmt.Errorf("restock script failed: %w", err)
	}
	return nil
}

// SetStock initializes the cached stock count for an asset
func (c *Client) SetStock(ctx context.Context, assetID int64, quantity int) error {
	return c.rdb.Set(ctx, stockKey(assetID), quantity, 0).Err()
}

// GetStock retrieves the cached stock count for an asset
func (c *Client) GetStock(ctx context.Context, assetID int64) (int, error) {
	result, err := c.rdb.Get(ctx, stockKey(assetID)).Int()
	if err == redis.Nil {
		return 0, ErrNotTracked
	}
	return result, err
}
