package redis

import (
	"context"
	"fmt"
	"time"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// DiagnosisCache stores finished diagnosis outputs keyed by business ID and
// input hash.  Because the engine is deterministic, a cached output for the
// same input hash is exactly what a re-run would produce, so cache hits skip
// the whole pipeline.
type DiagnosisCache struct {
	cache Cache
	ttl   time.Duration
}

// NewDiagnosisCache wraps a Cache with diagnosis-output typed accessors.
func NewDiagnosisCache(cache Cache, ttl time.Duration) *DiagnosisCache {
	return &DiagnosisCache{cache: cache, ttl: ttl}
}

func diagnosisKey(businessID, inputHash string) string {
	return fmt.Sprintf("diag:%s:%s", businessID, inputHash)
}

// Get returns the cached output for the business/input-hash pair, or nil on a
// miss.  A miss is not an error.
func (c *DiagnosisCache) Get(ctx context.Context, businessID, inputHash string) (*dg.Output, error) {
	out := &dg.Output{}
	err := c.cache.Get(ctx, diagnosisKey(businessID, inputHash), out)
	if err == ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put caches a diagnosis output.
func (c *DiagnosisCache) Put(ctx context.Context, businessID, inputHash string, out *dg.Output) error {
	return c.cache.Set(ctx, diagnosisKey(businessID, inputHash), out, c.ttl)
}

// Invalidate drops every cached output for a business, regardless of input
// hash.  Called when upstream data changes outside the hashed fields.
func (c *DiagnosisCache) Invalidate(ctx context.Context, businessID string) (int64, error) {
	return c.cache.DeleteByPrefix(ctx, fmt.Sprintf("diag:%s:", businessID))
}

//Personal.AI order the ending
