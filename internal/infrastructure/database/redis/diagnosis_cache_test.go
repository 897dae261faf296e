package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func newDiagnosisCache(t *testing.T) *DiagnosisCache {
	t.Helper()
	client, _ := newTestClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger(), WithPrefix("smedx:"))
	return NewDiagnosisCache(cache, 15*time.Minute)
}

func TestDiagnosisCache_RoundTrip(t *testing.T) {
	dc := newDiagnosisCache(t)
	ctx := context.Background()

	out := &dg.Output{
		HealthBand: dg.HealthEstablished,
		Stage:      dg.StageGrowth,
		Scores:     dg.Scores{FundingReadiness: 72},
	}
	require.NoError(t, dc.Put(ctx, "biz-1", "00000000deadbeef", out))

	got, err := dc.Get(ctx, "biz-1", "00000000deadbeef")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, dg.HealthEstablished, got.HealthBand)
	assert.Equal(t, 72, got.Scores.FundingReadiness)
}

func TestDiagnosisCache_MissIsNilNotError(t *testing.T) {
	dc := newDiagnosisCache(t)

	got, err := dc.Get(context.Background(), "biz-1", "cafecafecafecafe")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiagnosisCache_HashChangeMisses(t *testing.T) {
	dc := newDiagnosisCache(t)
	ctx := context.Background()

	require.NoError(t, dc.Put(ctx, "biz-1", "hash-old", &dg.Output{HealthBand: dg.HealthEmerging}))

	got, err := dc.Get(ctx, "biz-1", "hash-new")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiagnosisCache_InvalidateBusiness(t *testing.T) {
	dc := newDiagnosisCache(t)
	ctx := context.Background()

	require.NoError(t, dc.Put(ctx, "biz-1", "aaa", &dg.Output{}))
	require.NoError(t, dc.Put(ctx, "biz-1", "bbb", &dg.Output{}))
	require.NoError(t, dc.Put(ctx, "biz-2", "ccc", &dg.Output{}))

	deleted, err := dc.Invalidate(ctx, "biz-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	got, err := dc.Get(ctx, "biz-2", "ccc")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

//Personal.AI order the ending
