package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func sampleRun() *diagnostics.Run {
	return &diagnostics.Run{
		ID:         "run-1",
		BusinessID: "biz-1",
		InputHash:  "a1b2c3",
		Output: &dg.Output{
			HealthBand: dg.HealthEstablished,
			Stage:      dg.StageGrowth,
			Scores: dg.Scores{
				FundingReadiness:      70,
				ComplianceMaturity:    65,
				DigitalMaturity:       55,
				GovernanceMaturity:    60,
				MarketReadiness:       75,
				OperationalEfficiency: 68,
			},
			Bottlenecks:     []dg.Bottleneck{{}, {}},
			Recommendations: []dg.Recommendation{{}, {}, {}},
			Meta: dg.Meta{
				DataCoverage: dg.CoverageComprehensive,
				GeneratedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 1, 0, time.UTC),
	}
}

func TestNewRunDocument(t *testing.T) {
	doc := NewRunDocument(sampleRun())

	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "biz-1", doc.BusinessID)
	assert.Equal(t, "a1b2c3", doc.InputHash)
	assert.Equal(t, "established", doc.HealthBand)
	assert.Equal(t, "growth", doc.Stage)
	assert.InDelta(t, 65.5, doc.MeanScore, 0.01)
	assert.Equal(t, 70, doc.Funding)
	assert.Equal(t, 2, doc.BottleneckCount)
	assert.Equal(t, 3, doc.RecommendationCount)
	assert.Equal(t, "comprehensive", doc.DataCoverage)
}

func TestRunIndexer_IndexRun(t *testing.T) {
	var capturedPath string
	var captured RunDocument
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"created"}`)
	})

	ri := NewRunIndexer(client, "smedx", logging.NewNopLogger())
	require.NoError(t, ri.IndexRun(context.Background(), sampleRun()))

	assert.Equal(t, "/smedx-runs/_doc/run-1", capturedPath)
	assert.Equal(t, "biz-1", captured.BusinessID)
	assert.Equal(t, "established", captured.HealthBand)
}

func TestRunIndexer_IndexRun_Validation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid runs")
	})

	ri := NewRunIndexer(client, "smedx", logging.NewNopLogger())
	assert.Error(t, ri.IndexRun(context.Background(), nil))
	assert.Error(t, ri.IndexRun(context.Background(), &diagnostics.Run{ID: "run-1"}))
}

func TestRunIndexer_EnsureIndex_CreatesWhenMissing(t *testing.T) {
	created := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"acknowledged":true}`)
		}
	})

	ri := NewRunIndexer(client, "", logging.NewNopLogger())
	require.NoError(t, ri.EnsureIndex(context.Background()))
	assert.True(t, created)
	assert.Equal(t, "smedx-runs", ri.IndexName())
}

func TestRunIndexer_EnsureIndex_SkipsWhenPresent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	ri := NewRunIndexer(client, "smedx", logging.NewNopLogger())
	require.NoError(t, ri.EnsureIndex(context.Background()))
}

func TestRunIndexer_SearchRuns(t *testing.T) {
	var capturedDSL map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/smedx-runs/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedDSL))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"run_id": "run-2", "business_id": "biz-1", "health_band": "established"}},
					{"_source": {"run_id": "run-1", "business_id": "biz-1", "health_band": "emerging"}}
				]
			}
		}`)
	})

	ri := NewRunIndexer(client, "smedx", logging.NewNopLogger())
	result, err := ri.SearchRuns(context.Background(), RunQuery{
		BusinessID:   "biz-1",
		HealthBand:   dg.HealthEstablished,
		MinMeanScore: 40,
		Size:         10,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2, result.Total)
	require.Len(t, result.Runs, 2)
	assert.Equal(t, "run-2", result.Runs[0].RunID)

	// Filters come through as a bool query; unfiltered fields are absent.
	boolQuery := capturedDSL["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 3)
	assert.EqualValues(t, 10, capturedDSL["size"])
}

func TestRunIndexer_SearchRuns_MatchAllByDefault(t *testing.T) {
	var capturedDSL map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedDSL))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"hits": {"total": {"value": 0}, "hits": []}}`)
	})

	ri := NewRunIndexer(client, "smedx", logging.NewNopLogger())
	result, err := ri.SearchRuns(context.Background(), RunQuery{})
	require.NoError(t, err)

	assert.Zero(t, result.Total)
	assert.Empty(t, result.Runs)
	assert.Contains(t, capturedDSL["query"], "match_all")
	assert.EqualValues(t, 20, capturedDSL["size"])
}

//Personal.AI order the ending
