// Package oraclecache caches oracle replies in a key-value store.
// Analysis phases send deterministic prompts, so identical decision
// contexts replay the same oracle text without spending tokens.
package oraclecache

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

	"github.com/arbiterhq/arbiter/internal/db"
	"github.com/arbiterhq/arbiter/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "oracle_cache:"

// store is the consumer interface for the reply cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedReply is the stored wire form. Token counts are kept so cached
// replies stay inspectable, but Generate returns zero usage on a hit.
type cachedReply struct {
	Text string `json:"text"`
}

// CachedGenerator caches oracle replies keyed by prompt content.
type CachedGenerator struct {
	inner      domain.TextGenerator
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.TextGenerator,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns a cached reply or calls the inner generator.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full GenerateResult from inner.
func (c *CachedGenerator) Generate(ctx context.Context, req domain.PromptRequest) (domain.GenerateResult, error) {
	key := c.cacheKey(req)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.GenerateResult{Text: text}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Generate(ctx, req)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("generate: %w", err)
	}

	c.putToCache(ctx, key, result.Text)
	return result, nil
}

func (c *CachedGenerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes everything that shapes the reply. Kind is included so
// two phases sharing prompt text never collide.
func (c *CachedGenerator) cacheKey(req domain.PromptRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Kind))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached oracle reply", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}

	var reply cachedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		c.logger.Warn("Failed to parse cached oracle reply", zap.String("key", key), zap.Error(err))
		return "", false
	}

	return reply.Text, true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, text string) {
	data, err := json.Marshal(cachedReply{Text: text})
	if err != nil {
		c.logger.Warn("Failed to encode oracle reply", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache oracle reply", zap.String("key", key), zap.Error(err))
	}
}
