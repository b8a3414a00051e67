// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/grants"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/internal/tools"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// upstream fakes the project search API with total rows, or fails every
// request with status when status is non-zero.
func upstream(t *testing.T, total int, status int, calls *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if status != 0 {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"upstream down"}`)
			return
		}
		var body struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		var rows []map[string]any
		for i := body.Offset; i < body.Offset+body.Limit && i < total; i++ {
			rows = append(rows, map[string]any{
				"project_num":  fmt.Sprintf("5R01GM%06d-03", i),
				"fiscal_year":  2023,
				"award_amount": 1000,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"meta":    map[string]any{"total": total, "offset": body.Offset, "limit": body.Limit},
			"results": rows,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testServer(t *testing.T, up *httptest.Server) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	client := reporter.NewClient(types.ReporterConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		Endpoint:   up.URL,
	}, reporter.NewMetrics(reg))
	client.HTTP = up.Client()

	toolReg, err := tools.ForService(grants.New(client, types.Config{}))
	require.NoError(t, err)

	ts := httptest.NewServer(New(toolReg, reg, reg))
	t.Cleanup(ts.Close)
	return ts, reg
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return resp, m
}

func TestHealth(t *testing.T) {
	var calls int32
	ts, _ := testServer(t, upstream(t, 0, 0, &calls))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"healthy","service":"grants-reporter"}`, string(body))
}

func TestRequestIDEchoed(t *testing.T) {
	var calls int32
	ts, _ := testServer(t, upstream(t, 0, 0, &calls))

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestListTools(t *testing.T) {
	var calls int32
	ts, _ := testServer(t, upstream(t, 0, 0, &calls))

	resp, err := http.Get(ts.URL + "/tools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Tools []struct {
			Name       string         `json:"name"`
			Parameters map[string]any `json:"parameters"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Tools, 7)
	assert.Equal(t, tools.Crosstab, body.Tools[0].Name)
	assert.Equal(t, "object", body.Tools[0].Parameters["type"])
}

func TestCallToolExhaustive(t *testing.T) {
	var calls int32
	ts, reg := testServer(t, upstream(t, 650, 0, &calls))

	resp, body := post(t, ts, "/tools/find_project_ids", `{"search_params":{"years":[2023]}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(650), body["total_projects"])
	assert.Len(t, body["project_nums"], 650)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "grants_reporter_http_requests_total")
}

func TestCallToolErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		path       string
		body       string
		wantStatus int
		wantCalls  int32
	}{
		{"unknown tool", 0, "/tools/nope", `{}`, http.StatusNotFound, 0},
		{"invalid agency", 0, "/tools/search_projects", `{"search_params":{"agencies":["XYZ"]}}`, http.StatusBadRequest, 0},
		{"malformed body", 0, "/tools/search_projects", `{"search_params"`, http.StatusBadRequest, 0},
		{"upstream failure", http.StatusInternalServerError, "/tools/get_search_summary", `{"search_params":{}}`, http.StatusBadGateway, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts, _ := testServer(t, upstream(t, 10, tt.status, &calls))
			resp, body := post(t, ts, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	var calls int32
	ts, _ := testServer(t, upstream(t, 3, 0, &calls))
	post(t, ts, "/tools/search_projects", `{"search_params":{}}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `grants_reporter_http_requests_total{method="POST",route="/tools/{name}",status="200"} 1`)
	assert.Contains(t, string(body), "grants_reporter_page_requests_total")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.Wrap(criteria.NewValidationError("x", "bad"), "ctx")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&reporter.PartialDataError{Missing: "meta.total"}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))

	timedOut := &reporter.TransportError{Endpoint: "https://api.test", Err: context.DeadlineExceeded}
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(errors.Wrap(timedOut, "fetching page at offset 500")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&reporter.TransportError{Endpoint: "https://api.test", StatusCode: 503}))
}
