package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"folio/internal/database"
	"folio/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	quotesKey      = "folio:quotes"
	quoteKeyPrefix = "folio:quote:"
)

// QuoteCache wraps a Storage and serves quote reads from Redis. Every other
// call goes straight to the wrapped store. Redis failures are logged and the
// read falls through to the store.
type QuoteCache struct {
	database.Storage
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

func NewQuoteCache(store database.Storage, client *redis.Client, ttl time.Duration, log *logrus.Logger) *QuoteCache {
	return &QuoteCache{Storage: store, redis: client, ttl: ttl, log: log}
}

func (c *QuoteCache) GetQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	var quotes []models.MarketQuote
	if ok := c.get(ctx, quotesKey, &quotes); ok {
		return quotes, nil
	}
	quotes, err := c.Storage.GetQuotes(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, quotesKey, quotes)
	return quotes, nil
}

func (c *QuoteCache) GetQuoteBySymbol(ctx context.Context, symbol string) (models.MarketQuote, error) {
	var q models.MarketQuote
	if ok := c.get(ctx, quoteKeyPrefix+symbol, &q); ok {
		return q, nil
	}
	q, err := c.Storage.GetQuoteBySymbol(ctx, symbol)
	if err != nil {
		return models.MarketQuote{}, err
	}
	c.set(ctx, quoteKeyPrefix+symbol, q)
	return q, nil
}

// UpsertQuote writes through and drops the cached entries it invalidates.
func (c *QuoteCache) UpsertQuote(ctx context.Context, q models.MarketQuote) (models.MarketQuote, error) {
	res, err := c.Storage.UpsertQuote(ctx, q)
	if err != nil {
		return models.MarketQuote{}, err
	}
	if err := c.redis.Del(ctx, quotesKey, quoteKeyPrefix+q.Symbol).Err(); err != nil {
		c.log.Warnf("redis invalidate %s: %v", q.Symbol, err)
	}
	return res, nil
}

func (c *QuoteCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("redis get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warnf("redis decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *QuoteCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warnf("redis encode %s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warnf("redis set %s: %v", key, err)
	}
}

// NewClient connects to addr and checks the connection with a ping.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
