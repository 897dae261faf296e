package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

var (
	ErrIndexingFailed = errors.New(errors.ErrCodeRunIndexFailed, "indexing failed")
	ErrIndexNotFound  = errors.New(errors.ErrCodeNotFound, "index not found")
)

// IndexMapping describes index settings and field mappings.
type IndexMapping struct {
	Settings map[string]interface{} `json:"settings,omitempty"`
	Mappings map[string]interface{} `json:"mappings,omitempty"`
}

// BulkResult summarizes a bulk indexing call.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []BulkItemError
}

// BulkItemError is one failed document in a bulk call.
type BulkItemError struct {
	DocID  string
	Status int
	Reason string
}

// Indexer performs index management and document writes.
type Indexer struct {
	client *Client
	logger logging.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(client *Client, logger logging.Logger) *Indexer {
	return &Indexer{
		client: client,
		logger: logger.Named("indexer"),
	}
}

// CreateIndex creates an index with the given mapping, tolerating an index
// that already exists.
func (i *Indexer) CreateIndex(ctx context.Context, indexName string, mapping IndexMapping) error {
	body, err := json.Marshal(mapping)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create index")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		if exists, _ := i.IndexExists(ctx, indexName); exists {
			return nil
		}
		return i.errorFromResponse(resp, ErrIndexingFailed)
	}

	i.logger.Info("Index created", logging.String("index", indexName))
	return nil
}

// IndexExists reports whether the index exists.
func (i *Indexer) IndexExists(ctx context.Context, indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{indexName}}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeExternalService, "failed to check index existence")
	}
	defer resp.Body.Close()
	return resp.StatusCode == 200, nil
}

// IndexDocument writes one document, replacing any previous version.
func (i *Indexer) IndexDocument(ctx context.Context, indexName, docID string, document interface{}) error {
	body, err := json.Marshal(document)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal document")
	}

	req := opensearchapi.IndexRequest{
		Index:      indexName,
		DocumentID: docID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRunIndexFailed, "failed to index document")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return i.errorFromResponse(resp, ErrIndexingFailed)
	}
	return nil
}

// BulkIndex writes a batch of documents keyed by document ID.  Per-item
// failures are collected, not fatal.
func (i *Indexer) BulkIndex(ctx context.Context, indexName string, documents map[string]interface{}) (*BulkResult, error) {
	if len(documents) == 0 {
		return &BulkResult{}, nil
	}

	var buf bytes.Buffer
	for docID, doc := range documents {
		action := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, indexName, docID)
		buf.WriteString(action)
		buf.WriteByte('\n')

		body, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal bulk document")
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{Body: &buf}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRunIndexFailed, "bulk request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, i.errorFromResponse(resp, ErrIndexingFailed)
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}

	result := &BulkResult{}
	for _, item := range bulkResp.Items {
		for _, op := range item {
			if op.Status >= 200 && op.Status < 300 {
				result.Succeeded++
			} else {
				result.Failed++
				reason := ""
				if op.Error != nil {
					reason = op.Error.Reason
				}
				result.Errors = append(result.Errors, BulkItemError{
					DocID:  op.ID,
					Status: op.Status,
					Reason: reason,
				})
			}
		}
	}

	i.logger.Debug("Bulk indexed",
		logging.String("index", indexName),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed),
	)
	return result, nil
}

// DeleteDocument removes a document.
func (i *Indexer) DeleteDocument(ctx context.Context, indexName, docID string) error {
	req := opensearchapi.DeleteRequest{Index: indexName, DocumentID: docID}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to delete document")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return ErrIndexNotFound.WithDetail(docID)
	}
	if resp.IsError() {
		return i.errorFromResponse(resp, ErrIndexingFailed)
	}
	return nil
}

func (i *Indexer) errorFromResponse(resp *opensearchapi.Response, fallback *errors.AppError) error {
	body, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fallback
	}
	return fallback.WithDetail(msg)
}

//Personal.AI order the ending
