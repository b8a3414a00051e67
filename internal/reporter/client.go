// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reporter is the transport adapter for the NIH RePORTER project
// search API: one call, one page, normalized rows.
// Implements: Transport Adapter (page request, response validation,
// nested-object flattening, include-field vocabulary).
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/httputil"
	"github.com/pdiddy/grants-reporter/internal/logger"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// searchEndpoint is the RePORTER project search endpoint. Declared as a var
// so tests can substitute an httptest server.
var searchEndpoint = "https://api.reporter.nih.gov/v2/projects/search"

// MaxPageLimit is the API's hard per-request cap.
const MaxPageLimit = 500

// Default sort applied by callers that do not choose one.
const (
	DefaultSortField = "project_start_date"
	DefaultSortOrder = "desc"
)

// PageRequest describes one page of one logical query.
type PageRequest struct {
	Criteria      criteria.Wire
	Offset        int
	Limit         int
	IncludeFields []IncludeField
	SortField     string
	SortOrder     string
}

// Page is one normalized page. Total is the API's count for the whole query.
type Page struct {
	Total int
	Rows  []types.ProjectRecord
}

// Client issues page requests. It never retries unless the config opts in
// to HTTP 429 backoff.
type Client struct {
	HTTP    *http.Client
	Config  types.ReporterConfig
	Metrics *Metrics
	logger  *slog.Logger
}

// NewClient returns a Client using an HSTS-enabled HTTP client with the
// configured timeout. metrics may be nil.
func NewClient(cfg types.ReporterConfig, metrics *Metrics) *Client {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Client{
		HTTP:    httputil.NewClient(cfg.Timeout),
		Config:  cfg,
		Metrics: metrics,
		logger:  logger.WithComponent("reporter"),
	}
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return logger.WithComponent("reporter")
	}
	return c.logger
}

func (c *Client) metrics() *Metrics {
	if c.Metrics == nil {
		c.Metrics = NewMetrics(nil)
	}
	return c.Metrics
}

func (c *Client) endpoint() string {
	if c.Config.Endpoint != "" {
		return c.Config.Endpoint
	}
	return searchEndpoint
}

// FetchPage performs exactly one request. Transport failures, non-200
// statuses, and responses without meta.total are returned as errors that
// match ErrTransport.
func (c *Client) FetchPage(ctx context.Context, pr PageRequest) (Page, error) {
	if pr.Limit < 1 || pr.Limit > MaxPageLimit {
		return Page{}, criteria.NewValidationError("limit", "page limit %d outside 1..%d", pr.Limit, MaxPageLimit)
	}
	if pr.Offset < 0 {
		return Page{}, criteria.NewValidationError("offset", "offset %d is negative", pr.Offset)
	}

	body, err := json.Marshal(buildPayload(pr))
	if err != nil {
		return Page{}, errors.Wrap(err, "encoding search payload")
	}

	endpoint := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Page{}, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	m := c.metrics()
	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	m.PageRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.PageRequestsTotal.WithLabelValues(outcomeTransport).Inc()
		return Page{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.PageRequestsTotal.WithLabelValues(outcomeHTTP).Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		m.PageRequestsTotal.WithLabelValues(outcomeTransport).Inc()
		return Page{}, &TransportError{Endpoint: endpoint, Err: errors.Wrap(err, "parsing search response")}
	}

	page, err := sr.page(pr.IncludeFields)
	if err != nil {
		m.PageRequestsTotal.WithLabelValues(outcomePartial).Inc()
		return Page{}, err
	}

	m.PageRequestsTotal.WithLabelValues(outcomeOK).Inc()
	m.RowsFetchedTotal.Add(float64(len(page.Rows)))
	c.log().DebugContext(ctx, "fetched page",
		"offset", pr.Offset, "limit", pr.Limit, "total", page.Total, "rows", len(page.Rows))
	return page, nil
}

func buildPayload(pr PageRequest) map[string]any {
	crit := pr.Criteria
	if crit == nil {
		crit = criteria.Wire{}
	}
	payload := map[string]any{
		"criteria": crit,
		"offset":   pr.Offset,
		"limit":    pr.Limit,
	}
	if len(pr.IncludeFields) > 0 {
		payload["include_fields"] = pr.IncludeFields
	}
	if pr.SortField != "" {
		payload["sort_field"] = pr.SortField
		order := pr.SortOrder
		if order == "" {
			order = DefaultSortOrder
		}
		payload["sort_order"] = order
	}
	return payload
}

// RePORTER API JSON structures.
type searchResponse struct {
	Meta    *searchMeta       `json:"meta"`
	Results *[]map[string]any `json:"results"`
}

type searchMeta struct {
	Total  *int `json:"total"`
	Offset int  `json:"offset"`
	Limit  int  `json:"limit"`
}

func (sr searchResponse) page(include []IncludeField) (Page, error) {
	if sr.Meta == nil {
		return Page{}, &PartialDataError{Missing: "meta"}
	}
	if sr.Meta.Total == nil {
		return Page{}, &PartialDataError{Missing: "meta.total"}
	}
	total := *sr.Meta.Total
	if sr.Results == nil {
		if total == 0 {
			return Page{Total: 0}, nil
		}
		return Page{}, &PartialDataError{Missing: "results"}
	}

	rows := make([]types.ProjectRecord, 0, len(*sr.Results))
	for _, raw := range *sr.Results {
		if raw == nil {
			continue
		}
		rows = append(rows, normalizeRow(raw, include))
	}
	return Page{Total: total, Rows: rows}, nil
}
