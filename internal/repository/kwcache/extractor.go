// Package kwcache caches keyword extraction results in a key-value store,
// saving an embeddings round-trip for repeated questions.
package kwcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/db"
	"github.com/kailas-cloud/askdata/internal/keywords"
)

const cacheKeyPrefix = "askdata:kw_cache:"

// store is the consumer interface for the keyword cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExtractor caches extracted keywords in a key-value store.
// Cache failures are logged and treated as misses.
type CachedExtractor struct {
	inner      keywords.Extractor
	store      store
	lang       string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

var _ keywords.Extractor = (*CachedExtractor)(nil)

// New creates a caching decorator. lang participates in the cache key so
// entries do not survive a language reconfiguration.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner keywords.Extractor,
	s store,
	lang string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExtractor {
	return &CachedExtractor{
		inner:      inner,
		store:      s,
		lang:       lang,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Extract returns cached keywords or calls the inner extractor.
func (c *CachedExtractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	key := c.cacheKey(text, topN)

	if kws, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return kws, nil
	}

	c.incCache("miss")

	kws, err := c.inner.Extract(ctx, text, topN)
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}

	c.putToCache(ctx, key, kws)
	return kws, nil
}

func (c *CachedExtractor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExtractor) cacheKey(text string, topN int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", c.lang, topN, text)))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedExtractor) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached keywords", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var kws []string
	if err := json.Unmarshal(data, &kws); err != nil {
		c.logger.Warn("Failed to parse cached keywords", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return kws, true
}

func (c *CachedExtractor) putToCache(ctx context.Context, key string, kws []string) {
	data, err := json.Marshal(kws)
	if err != nil {
		c.logger.Warn("Failed to encode keywords for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache keywords", zap.String("key", key), zap.Error(err))
	}
}
