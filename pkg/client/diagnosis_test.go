package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestDiagnosis_Diagnose(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/businesses/biz-1/diagnosis", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["force"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"run": {"id": "run-1", "business_id": "biz-1", "input_hash": "abc", "status": "completed"},
			"reused": false,
			"cache_hit": false
		}`))
	})

	result, err := c.Diagnosis().Diagnose(context.Background(), "biz-1", &DiagnoseOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.Run.ID)
	assert.Equal(t, "completed", result.Run.Status)
	assert.False(t, result.Reused)
}

func TestDiagnosis_Latest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/businesses/biz-1/diagnosis/latest", r.URL.Path)
		w.Write([]byte(`{"id": "run-9", "business_id": "biz-1", "input_hash": "def"}`))
	})

	run, err := c.Diagnosis().Latest(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, "run-9", run.ID)
	assert.Equal(t, "biz-1", run.BusinessID)
}

func TestDiagnosis_Latest_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"DIA_001","message":"no diagnosis runs for business"}`))
	})

	_, err := c.Diagnosis().Latest(context.Background(), "biz-1")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
}

func TestDiagnosis_ListRuns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/businesses/biz-1/diagnosis/runs", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		w.Write([]byte(`{
			"runs": [{"id": "run-2"}, {"id": "run-1"}],
			"page": 2,
			"page_size": 5
		}`))
	})

	page, err := c.Diagnosis().ListRuns(context.Background(), "biz-1", 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Runs, 2)
	assert.Equal(t, "run-2", page.Runs[0].ID)
	assert.Equal(t, 2, page.Page)
}

func TestDiagnosis_GetRun(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/diagnosis/runs/run-7", r.URL.Path)
		w.Write([]byte(`{"id": "run-7", "business_id": "biz-3"}`))
	})

	run, err := c.Diagnosis().GetRun(context.Background(), "run-7")
	require.NoError(t, err)
	assert.Equal(t, "biz-3", run.BusinessID)
}

func TestDiagnosis_InvalidateCache(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/businesses/biz-1/diagnosis/cache", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, c.Diagnosis().InvalidateCache(context.Background(), "biz-1"))
	assert.True(t, called)
}

func TestDiagnosis_RequiresIDs(t *testing.T) {
	c, err := NewClient("http://localhost")
	require.NoError(t, err)

	_, err = c.Diagnosis().Diagnose(context.Background(), "", nil)
	assert.Error(t, err)
	_, err = c.Diagnosis().Latest(context.Background(), "")
	assert.Error(t, err)
	_, err = c.Diagnosis().ListRuns(context.Background(), "", 1, 10)
	assert.Error(t, err)
	_, err = c.Diagnosis().GetRun(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, c.Diagnosis().InvalidateCache(context.Background(), ""))
}

func TestDiagnosis_EscapesPathSegments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/businesses/biz%2F1/diagnosis/latest", r.URL.EscapedPath())
		w.Write([]byte(`{"id": "run-1"}`))
	})

	_, err := c.Diagnosis().Latest(context.Background(), "biz/1")
	require.NoError(t, err)
}

//Personal.AI order the ending
