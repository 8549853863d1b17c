package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"seat-service/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

// AccountCache provides two-level caching for account reads: a small local
// map in front of Redis. Mutation paths must invalidate through it.
type AccountCache struct {
	redis  *redis.Client
	local  *localCache
	logger *logrus.Logger

	ttl time.Duration

	mu     sync.RWMutex
	hits   int64
	misses int64
}

// CacheConfig holds configuration for the account cache
type CacheConfig struct {
	RedisClient *redis.Client
	Logger      *logrus.Logger
	TTL         time.Duration // Default: 5 minutes
	LocalSize   int           // Max items in local cache (default: 1000)
}

type localCache struct {
	mu      sync.RWMutex
	items   map[string]localItem
	maxSize int
	order   []string // For LRU tracking
}

type localItem struct {
	value     []byte
	expiresAt time.Time
}

// NewAccountCache creates a new account cache
func NewAccountCache(cfg CacheConfig) *AccountCache {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.LocalSize == 0 {
		cfg.LocalSize = 1000
	}
	return &AccountCache{
		redis:  cfg.RedisClient,
		logger: cfg.Logger,
		ttl:    cfg.TTL,
		local: &localCache{
			items:   make(map[string]localItem),
			maxSize: cfg.LocalSize,
			order:   make([]string, 0, cfg.LocalSize),
		},
	}
}

func accountKey(id uuid.UUID) string {
	return fmt.Sprintf("seat:account:%s", id)
}

// GetAccount retrieves a cached account; returns ErrCacheMiss when absent
func (c *AccountCache) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	key := accountKey(id)

	if data, ok := c.local.get(key); ok {
		c.recordHit()
		return decodeAccount(data)
	}

	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			c.local.set(key, data, c.ttl)
			c.recordHit()
			return decodeAccount(data)
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Debug("Redis read failed, treating as miss")
		}
	}

	c.recordMiss()
	return nil, ErrCacheMiss
}

// SetAccount stores an account in both cache levels
func (c *AccountCache) SetAccount(ctx context.Context, account *models.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode account for cache")
		return
	}
	key := accountKey(account.ID)
	c.local.set(key, data, c.ttl)
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Debug("Redis write failed")
		}
	}
}

// InvalidateAccount drops an account from both cache levels
func (c *AccountCache) InvalidateAccount(ctx context.Context, id uuid.UUID) {
	key := accountKey(id)
	c.local.delete(key)
	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			c.logger.WithError(err).Debug("Redis delete failed")
		}
	}
}

// Stats returns hit/miss counters
func (c *AccountCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AccountCache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *AccountCache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func decodeAccount(data []byte) (*models.Account, error) {
	var account models.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (l *localCache) get(key string) ([]byte, bool) {
	l.mu.RLock()
	item, ok := l.items[key]
	l.mu.RUnlock()
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

func (l *localCache) set(key string, value []byte, ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.items[key]; !exists && len(l.items) >= l.maxSize {
		// Evict the oldest entry
		if len(l.order) > 0 {
			oldest := l.order[0]
			l.order = l.order[1:]
			delete(l.items, oldest)
		}
	}
	if _, exists := l.items[key]; !exists {
		l.order = append(l.order, key)
	}
	l.items[key] = localItem{value: value, expiresAt: time.Now().Add(ttl)}
}

func (l *localCache) delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}
