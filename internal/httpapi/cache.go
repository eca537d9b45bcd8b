package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/insightseries/pivot-insight/internal/metrics"
	"github.com/insightseries/pivot-insight/mart"
)

const cacheKeyPrefix = "pivot:analysis:"

// Cache is a content-hash result cache over an analysis response: the
// same input text always hashes to the same key, so a repeated request
// is served from Redis instead of re-running the classifier. Grounded
// on glennmartinez-risk-analyzer-2026's redis.Client-backed repositories,
// applied here to classification output rather than documents.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache against a Redis instance at addr. Caching
// is off by default in the engine/CLI/HTTP surface — Cache is only
// constructed when an operator configures a Redis address.
func NewCache(addr string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Key hashes text (plus a discriminator, e.g. the endpoint name) into a
// cache key stable across requests for identical input.
func Key(discriminator, text string) string {
	sum := sha256.Sum256([]byte(discriminator + "\x00" + text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Get looks up a cached AnalysisResponse. The second return value is
// false on a cache miss or any Redis error — a cache failure degrades to
// "miss", it never fails the request.
func (c *Cache) Get(ctx context.Context, key string) (AnalysisResponse, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return AnalysisResponse{}, false
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return AnalysisResponse{}, false
	}

	var resp AnalysisResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return AnalysisResponse{}, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return resp, true
}

// Set stores resp under key with the cache's configured TTL. Errors are
// not returned to the caller: a failed cache write degrades to "compute
// again next time", not a request failure.
func (c *Cache) Set(ctx context.Context, key string, resp AnalysisResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl)
}

// AnalysisResponse is httpapi's JSON response shape for every analyze
// endpoint: the mart-shaped insights plus a request-scoped summary,
// reusing mart's own serialization rather than marshaling
// pivot.ClassificationResult's internal, untagged fields directly.
type AnalysisResponse struct {
	Insights []mart.Insight `json:"insights"`
	Summary  mart.Summary   `json:"summary"`
}
