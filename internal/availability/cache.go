package availability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"availarr/internal/logging"
)

// DefaultTTL is how long a built index stays fresh.
const DefaultTTL = 10 * time.Minute

// Cache serves the current index snapshot, rebuilding lazily when the TTL
// expires. The rebuild happens under the cache lock, so concurrent callers
// share one build instead of each triggering their own.
type Cache struct {
	builder *Builder
	ttl     time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	current *Index
	freshAt time.Time

	now func() time.Time
}

// NewCache wraps a builder with TTL caching. ttl falls back to DefaultTTL
// when not positive.
func NewCache(builder *Builder, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		builder: builder,
		ttl:     ttl,
		logger:  logging.NewComponentLogger(logger, "index-cache"),
		now:     time.Now,
	}
}

// GetOrBuild returns the cached snapshot, rebuilding first when stale or
// absent.
func (c *Cache) GetOrBuild(ctx context.Context) *Index {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.now().Sub(c.freshAt) < c.ttl {
		return c.current
	}
	c.logger.Debug("index stale, rebuilding")
	c.current = c.builder.Build(ctx)
	c.freshAt = c.now()
	return c.current
}

// ForceRebuild discards the cached snapshot and builds a new one immediately.
func (c *Cache) ForceRebuild(ctx context.Context) *Index {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.builder.Build(ctx)
	c.freshAt = c.now()
	return c.current
}

// Invalidate drops the cached snapshot so the next read rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
