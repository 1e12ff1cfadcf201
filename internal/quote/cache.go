// internal/quote/cache.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheExpiration = 5 * time.Minute

// CachedService wraps a quote Service with a Redis cache. Cache failures are
// logged and fall through to the inner service; a stale-free miss path is
// always available.
type CachedService struct {
	inner  Service
	client *redis.Client
	logger *slog.Logger
}

// NewCachedService creates a caching decorator around the given quote service.
func NewCachedService(inner Service, client *redis.Client, logger *slog.Logger) *CachedService {
	return &CachedService{inner: inner, client: client, logger: logger}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

func (s *CachedService) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	cached, err := s.client.Get(ctx, cacheKey(symbol)).Result()
	if err == nil {
		var q Quote
		if err := json.Unmarshal([]byte(cached), &q); err == nil {
			return &q, nil
		}
		s.logger.Warn("Discarding corrupt cached quote", "symbol", symbol)
	} else if err != redis.Nil {
		s.logger.Warn("Quote cache read failed", "symbol", symbol, "error", err)
	}

	q, err := s.inner.Lookup(ctx, symbol)
	if err != nil {
		// Unknown symbols and upstream faults are never cached.
		return nil, err
	}

	data, err := json.Marshal(q)
	if err == nil {
		if err := s.client.Set(ctx, cacheKey(q.Symbol), data, cacheExpiration).Err(); err != nil {
			s.logger.Warn("Quote cache write failed", "symbol", q.Symbol, "error", err)
		}
	}
	return q, nil
}
