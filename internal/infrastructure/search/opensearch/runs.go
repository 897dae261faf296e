package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// RunDocument is the flattened, searchable projection of one diagnosis run.
// The full output stays in PostgreSQL; the index holds only what dashboards
// filter and aggregate on.
type RunDocument struct {
	RunID               string    `json:"run_id"`
	BusinessID          string    `json:"business_id"`
	InputHash           string    `json:"input_hash"`
	HealthBand          string    `json:"health_band"`
	Stage               string    `json:"business_stage"`
	MeanScore           float64   `json:"mean_score"`
	Funding             int       `json:"funding_readiness"`
	Compliance          int       `json:"compliance_maturity"`
	Digital             int       `json:"digital_maturity"`
	Governance          int       `json:"governance_maturity"`
	Market              int       `json:"market_readiness"`
	Operational         int       `json:"operational_efficiency"`
	BottleneckCount     int       `json:"bottleneck_count"`
	RecommendationCount int       `json:"recommendation_count"`
	DataCoverage        string    `json:"data_coverage"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewRunDocument projects a persisted run into its index form.
func NewRunDocument(run *diagnostics.Run) RunDocument {
	out := run.Output
	return RunDocument{
		RunID:               run.ID,
		BusinessID:          run.BusinessID,
		InputHash:           run.InputHash,
		HealthBand:          string(out.HealthBand),
		Stage:               string(out.Stage),
		MeanScore:           out.Scores.Mean(),
		Funding:             out.Scores.FundingReadiness,
		Compliance:          out.Scores.ComplianceMaturity,
		Digital:             out.Scores.DigitalMaturity,
		Governance:          out.Scores.GovernanceMaturity,
		Market:              out.Scores.MarketReadiness,
		Operational:         out.Scores.OperationalEfficiency,
		BottleneckCount:     len(out.Bottlenecks),
		RecommendationCount: len(out.Recommendations),
		DataCoverage:        string(out.Meta.DataCoverage),
		CreatedAt:           run.CreatedAt,
	}
}

// RunIndexMapping returns the index mapping for diagnosis runs.
func RunIndexMapping() IndexMapping {
	return IndexMapping{
		Settings: map[string]interface{}{
			"number_of_shards":   3,
			"number_of_replicas": 1,
		},
		Mappings: map[string]interface{}{
			"properties": map[string]interface{}{
				"run_id":                 map[string]interface{}{"type": "keyword"},
				"business_id":            map[string]interface{}{"type": "keyword"},
				"input_hash":             map[string]interface{}{"type": "keyword"},
				"health_band":            map[string]interface{}{"type": "keyword"},
				"business_stage":         map[string]interface{}{"type": "keyword"},
				"data_coverage":          map[string]interface{}{"type": "keyword"},
				"mean_score":             map[string]interface{}{"type": "float"},
				"funding_readiness":      map[string]interface{}{"type": "integer"},
				"compliance_maturity":    map[string]interface{}{"type": "integer"},
				"digital_maturity":       map[string]interface{}{"type": "integer"},
				"governance_maturity":    map[string]interface{}{"type": "integer"},
				"market_readiness":       map[string]interface{}{"type": "integer"},
				"operational_efficiency": map[string]interface{}{"type": "integer"},
				"bottleneck_count":       map[string]interface{}{"type": "integer"},
				"recommendation_count":   map[string]interface{}{"type": "integer"},
				"created_at":             map[string]interface{}{"type": "date"},
			},
		},
	}
}

// RunIndexer writes and queries run documents in the runs index.
type RunIndexer struct {
	indexer *Indexer
	client  *Client
	index   string
	logger  logging.Logger
}

// NewRunIndexer builds a RunIndexer.  The index name is derived from the
// configured prefix.
func NewRunIndexer(client *Client, indexPrefix string, logger logging.Logger) *RunIndexer {
	if indexPrefix == "" {
		indexPrefix = "smedx"
	}
	return &RunIndexer{
		indexer: NewIndexer(client, logger),
		client:  client,
		index:   indexPrefix + "-runs",
		logger:  logger.Named("run_indexer"),
	}
}

// IndexName returns the backing index name.
func (r *RunIndexer) IndexName() string {
	return r.index
}

// EnsureIndex creates the runs index if it does not exist.
func (r *RunIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := r.indexer.IndexExists(ctx, r.index)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.indexer.CreateIndex(ctx, r.index, RunIndexMapping())
}

// IndexRun writes one run projection, keyed by run ID.
func (r *RunIndexer) IndexRun(ctx context.Context, run *diagnostics.Run) error {
	if run == nil || run.Output == nil {
		return errors.InvalidParam("run with output required")
	}
	return r.indexer.IndexDocument(ctx, r.index, run.ID, NewRunDocument(run))
}

// RunQuery filters the runs index.
type RunQuery struct {
	BusinessID   string
	HealthBand   dg.HealthBand
	Stage        dg.Stage
	MinMeanScore float64
	MaxMeanScore float64
	From         int
	Size         int
}

// RunSearchResult is one page of matching run documents.
type RunSearchResult struct {
	Total int64
	Runs  []RunDocument
}

// SearchRuns queries the runs index, newest first.
func (r *RunIndexer) SearchRuns(ctx context.Context, q RunQuery) (*RunSearchResult, error) {
	if q.Size <= 0 {
		q.Size = 20
	}

	var filters []map[string]interface{}
	if q.BusinessID != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"business_id": q.BusinessID},
		})
	}
	if q.HealthBand != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"health_band": string(q.HealthBand)},
		})
	}
	if q.Stage != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"business_stage": string(q.Stage)},
		})
	}
	if q.MinMeanScore > 0 || q.MaxMeanScore > 0 {
		rangeBody := map[string]interface{}{}
		if q.MinMeanScore > 0 {
			rangeBody["gte"] = q.MinMeanScore
		}
		if q.MaxMeanScore > 0 {
			rangeBody["lte"] = q.MaxMeanScore
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"mean_score": rangeBody},
		})
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if len(filters) > 0 {
		query = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		}
	}

	dsl := map[string]interface{}{
		"from":  q.From,
		"size":  q.Size,
		"query": query,
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}

	body, err := json.Marshal(dsl)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal search query")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, r.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, ErrIndexingFailed.WithDetail("search returned error status")
	}

	var searchResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source RunDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	result := &RunSearchResult{Total: searchResp.Hits.Total.Value}
	for _, hit := range searchResp.Hits.Hits {
		result.Runs = append(result.Runs, hit.Source)
	}
	return result, nil
}

//Personal.AI order the ending
