package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// DiagnosisClient accesses the diagnosis endpoints.
type DiagnosisClient struct {
	client *Client
}

// Run is one persisted diagnosis run.
type Run struct {
	ID         string     `json:"id"`
	BusinessID string     `json:"business_id"`
	InputHash  string     `json:"input_hash"`
	Status     string     `json:"status"`
	Output     *dg.Output `json:"output"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DiagnoseResult is the outcome of triggering a diagnosis.
type DiagnoseResult struct {
	Run *Run `json:"run"`
	// Reused is true when the input bundle was unchanged and a prior run
	// was returned instead of recomputing.
	Reused   bool `json:"reused"`
	CacheHit bool `json:"cache_hit"`
}

// RunPage is one page of run history, newest first.
type RunPage struct {
	Runs     []*Run `json:"runs"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// DiagnoseOptions tunes a Diagnose call.
type DiagnoseOptions struct {
	// Force recomputes even when the business's input bundle is unchanged.
	Force bool
}

// Diagnose triggers a diagnosis for a business and returns the resulting run.
func (d *DiagnosisClient) Diagnose(ctx context.Context, businessID string, opts *DiagnoseOptions) (*DiagnoseResult, error) {
	if businessID == "" {
		return nil, fmt.Errorf("businessID is required")
	}

	body := map[string]bool{}
	if opts != nil && opts.Force {
		body["force"] = true
	}

	var result DiagnoseResult
	path := fmt.Sprintf("/api/v1/businesses/%s/diagnosis", url.PathEscape(businessID))
	if err := d.client.post(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Latest fetches the most recent diagnosis run for a business.
func (d *DiagnosisClient) Latest(ctx context.Context, businessID string) (*Run, error) {
	if businessID == "" {
		return nil, fmt.Errorf("businessID is required")
	}

	var run Run
	path := fmt.Sprintf("/api/v1/businesses/%s/diagnosis/latest", url.PathEscape(businessID))
	if err := d.client.get(ctx, path, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns pages through a business's run history, newest first.  Page and
// pageSize follow the server defaults when <= 0.
func (d *DiagnosisClient) ListRuns(ctx context.Context, businessID string, page, pageSize int) (*RunPage, error) {
	if businessID == "" {
		return nil, fmt.Errorf("businessID is required")
	}

	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
	}

	path := fmt.Sprintf("/api/v1/businesses/%s/diagnosis/runs", url.PathEscape(businessID))
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result RunPage
	if err := d.client.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRun fetches one diagnosis run by its ID.
func (d *DiagnosisClient) GetRun(ctx context.Context, runID string) (*Run, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID is required")
	}

	var run Run
	path := fmt.Sprintf("/api/v1/diagnosis/runs/%s", url.PathEscape(runID))
	if err := d.client.get(ctx, path, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// InvalidateCache drops the cached diagnosis output for a business so the
// next Diagnose recomputes against fresh data.
func (d *DiagnosisClient) InvalidateCache(ctx context.Context, businessID string) error {
	if businessID == "" {
		return fmt.Errorf("businessID is required")
	}
	path := fmt.Sprintf("/api/v1/businesses/%s/diagnosis/cache", url.PathEscape(businessID))
	return d.client.delete(ctx, path)
}

//Personal.AI order the ending
