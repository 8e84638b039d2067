package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/pkg/logger"
)

const (
	// DefaultTTL is how long a fetched transaction list stays cached
	DefaultTTL = 10 * time.Minute

	// KeyPrefix is the prefix for transaction list keys
	KeyPrefix = "fintrack:transactions:"
)

// Connect opens a client and pings it
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// TransactionCache keeps the last fetched transaction list per user
type TransactionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewTransactionCache creates a cache with the default TTL
func NewTransactionCache(client *redis.Client, log *logger.Logger) *TransactionCache {
	return NewTransactionCacheWithTTL(client, DefaultTTL, log)
}

// NewTransactionCacheWithTTL creates a cache with a custom TTL
func NewTransactionCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *TransactionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TransactionCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "cache"),
	}
}

// cachedList is the stored value
type cachedList struct {
	UserID       int64                     `json:"user_id"`
	Transactions []transaction.Transaction `json:"transactions"`
	CachedAt     time.Time                 `json:"cached_at"`
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", KeyPrefix, userID)
}

// Get returns the cached list for userID. The bool is false on a miss.
func (c *TransactionCache) Get(ctx context.Context, userID int64) ([]transaction.Transaction, bool, error) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "user_id", userID)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "user_id", userID, "error", err)
		return nil, false, fmt.Errorf("failed to get cached transactions: %w", err)
	}

	var cached cachedList
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached transactions: %w", err)
	}
	if cached.Transactions == nil {
		cached.Transactions = []transaction.Transaction{}
	}

	c.logger.Debug("cache hit", "user_id", userID, "count", len(cached.Transactions), "age", time.Since(cached.CachedAt).String())
	return cached.Transactions, true, nil
}

// Set replaces the cached list for userID
func (c *TransactionCache) Set(ctx context.Context, userID int64, txs []transaction.Transaction) error {
	data, err := json.Marshal(cachedList{
		UserID:       userID,
		Transactions: txs,
		CachedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transactions: %w", err)
	}

	if err := c.client.Set(ctx, key(userID), data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "user_id", userID, "error", err)
		return fmt.Errorf("failed to set cached transactions: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for userID
func (c *TransactionCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached transactions: %w", err)
	}
	return nil
}
