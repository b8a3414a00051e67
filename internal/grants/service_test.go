// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grants

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// --- fake fetcher ---

// fakeFetcher pages over a fixed row slice. When totals is set, requests
// carrying a text search report the total for their search text instead.
type fakeFetcher struct {
	mu       sync.Mutex
	rows     []types.ProjectRecord
	totals   map[string]int
	err      error
	requests []reporter.PageRequest
}

func (f *fakeFetcher) FetchPage(_ context.Context, pr reporter.PageRequest) (reporter.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, pr)
	if f.err != nil {
		return reporter.Page{}, f.err
	}
	if ts, ok := pr.Criteria["advanced_text_search"].(map[string]any); ok && f.totals != nil {
		text, _ := ts["search_text"].(string)
		return reporter.Page{Total: f.totals[text]}, nil
	}
	end := min(pr.Offset+pr.Limit, len(f.rows))
	var page []types.ProjectRecord
	if pr.Offset < end {
		page = f.rows[pr.Offset:end]
	}
	return reporter.Page{Total: len(f.rows), Rows: page}, nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func projects(n int) []types.ProjectRecord {
	codes := []string{"R01", "R01", "R21", "U01"}
	rows := make([]types.ProjectRecord, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, types.ProjectRecord{
			"project_num":       fmt.Sprintf("5R01CA%06d-02", i),
			"fiscal_year":       float64(2020 + i%3),
			"activity_code":     codes[i%len(codes)],
			"agency_ic_admin":   "NCI",
			"organization":      map[string]any{"org_name": fmt.Sprintf("ORG %d", i%5), "org_state": "MD"},
			"funding_mechanism": "Non-SBIR/STTR",
			"is_active":         i%2 == 0,
			"award_amount":      float64(1000),
		})
	}
	return rows
}

func newService(f *fakeFetcher) *Service {
	return New(f, types.Config{TermFrequency: types.TermFrequencyConfig{Concurrency: 3}})
}

// --- search previews and summaries ---

func TestSearchProjectsSamplesOnePage(t *testing.T) {
	f := &fakeFetcher{rows: projects(650)}
	sum, err := newService(f).SearchProjects(context.Background(), criteria.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.count())
	assert.Equal(t, 650, sum.TotalProjects)
	assert.Equal(t, 500, sum.SampledProjects)
	assert.False(t, sum.Complete)
	assert.Equal(t, 500000.0, sum.Funding.Total)

	include := f.requests[0].IncludeFields
	assert.Contains(t, include, reporter.FieldAwardAmount)
	assert.Contains(t, include, reporter.FieldFiscalYear)
	assert.Contains(t, include, reporter.FieldIsActive)
}

func TestSearchSummaryIsExhaustive(t *testing.T) {
	f := &fakeFetcher{rows: projects(650)}
	sum, err := newService(f).SearchSummary(context.Background(), criteria.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, f.count())
	assert.True(t, sum.Complete)
	assert.Equal(t, 650, sum.SampledProjects)
	assert.Equal(t, 650000.0, sum.Funding.Total)
	assert.Equal(t, []aggregate.Bucket{{Value: "2022", Count: 216}, {Value: "2021", Count: 217}, {Value: "2020", Count: 217}}, sum.ByFiscalYear)
	assert.Equal(t, "R01", sum.ByActivityCode[0].Value)
	assert.Equal(t, 5, sum.DistinctOrganizations)
	assert.Equal(t, []aggregate.Bucket{{Value: "NCI", Count: 650}}, sum.ByAgency)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(types.ResultSet{})
	assert.True(t, sum.Complete)
	assert.Zero(t, sum.TotalProjects)
	assert.Empty(t, sum.ByFiscalYear)
}

func TestSearchPropagatesTransportError(t *testing.T) {
	f := &fakeFetcher{err: &reporter.TransportError{Endpoint: "x", StatusCode: 500}}
	_, err := newService(f).SearchSummary(context.Background(), criteria.SearchRequest{})
	assert.ErrorIs(t, err, reporter.ErrTransport)
}

// --- listings ---

func TestFindProjectIDs(t *testing.T) {
	f := &fakeFetcher{rows: projects(1201)}
	ids, err := newService(f).FindProjectIDs(context.Background(), criteria.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, f.count())
	assert.Equal(t, 1201, ids.TotalProjects)
	assert.Len(t, ids.ProjectNums, 1201)
	assert.Equal(t, "5R01CA000000-02", ids.ProjectNums[0])
	assert.Equal(t, []reporter.IncludeField{reporter.FieldProjectNum}, f.requests[0].IncludeFields)
}

func TestProjectDetails(t *testing.T) {
	f := &fakeFetcher{rows: projects(25)}
	req := criteria.SearchRequest{ProjectNums: []string{"5R01CA000001-02"}}
	out, err := newService(f).ProjectDetails(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, f.count())
	assert.Len(t, out.Projects, 25)
	for _, r := range f.requests {
		assert.Equal(t, DetailsLimit, r.Limit)
		assert.Empty(t, r.IncludeFields)
	}
}

func TestProjectDetailsRequiresProjectNums(t *testing.T) {
	f := &fakeFetcher{rows: projects(1)}
	_, err := newService(f).ProjectDetails(context.Background(), criteria.SearchRequest{})
	assert.ErrorIs(t, err, criteria.ErrValidation)
	assert.Zero(t, f.count())
}

func TestProjectInformationAlwaysIncludesProjectNum(t *testing.T) {
	f := &fakeFetcher{rows: projects(3)}
	fields := []reporter.IncludeField{reporter.FieldAwardAmount, reporter.FieldProjectNum, reporter.FieldFiscalYear}
	out, err := newService(f).ProjectInformation(context.Background(), criteria.SearchRequest{}, fields)
	require.NoError(t, err)

	assert.Equal(t, []reporter.IncludeField{
		reporter.FieldProjectNum, reporter.FieldAwardAmount, reporter.FieldFiscalYear,
	}, f.requests[0].IncludeFields)
	assert.Equal(t, []string{"project_num", "award_amount", "fiscal_year"}, out.Fields)
	assert.Equal(t, 3, out.TotalProjects)
}

func TestProjectInformationRequiresFields(t *testing.T) {
	f := &fakeFetcher{}
	_, err := newService(f).ProjectInformation(context.Background(), criteria.SearchRequest{}, nil)
	assert.ErrorIs(t, err, criteria.ErrValidation)
	assert.Zero(t, f.count())
}

// --- crosstab ---

func TestCrosstab(t *testing.T) {
	f := &fakeFetcher{rows: projects(12)}
	out, err := newService(f).Crosstab(context.Background(), criteria.SearchRequest{},
		aggregate.DimFiscalYear, aggregate.DimActivityCode)
	require.NoError(t, err)

	assert.Equal(t, 12, out.TotalProjects)
	assert.Equal(t, 12, out.TabulatedProjects)
	assert.Equal(t, aggregate.Cell{Count: 2, TotalFunding: 2000}, out.Table.Cells["2020"]["R01"])
	assert.Contains(t, f.requests[0].IncludeFields, reporter.FieldActivityCode)
	assert.Contains(t, f.requests[0].IncludeFields, reporter.FieldFiscalYear)
}

func TestCrosstabNormalizesDimensionNames(t *testing.T) {
	f := &fakeFetcher{rows: projects(12)}
	out, err := newService(f).Crosstab(context.Background(), criteria.SearchRequest{},
		aggregate.Dimension("Fiscal-Year"), aggregate.Dimension(" ACTIVITY_CODE "))
	require.NoError(t, err)

	assert.Equal(t, aggregate.DimFiscalYear, out.Table.Row)
	assert.Equal(t, aggregate.DimActivityCode, out.Table.Col)
	assert.Equal(t, 12, out.TabulatedProjects)
	assert.Contains(t, f.requests[0].IncludeFields, reporter.FieldFiscalYear)
}

func TestCrosstabRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name     string
		row, col aggregate.Dimension
	}{
		{"unknown row", "pi_name", aggregate.DimAgency},
		{"unknown col", aggregate.DimAgency, "abstract"},
		{"same dimension", aggregate.DimState, aggregate.DimState},
		{"same dimension spelled differently", "Fiscal-Year", aggregate.DimFiscalYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{rows: projects(1)}
			_, err := newService(f).Crosstab(context.Background(), criteria.SearchRequest{}, tt.row, tt.col)
			assert.ErrorIs(t, err, criteria.ErrValidation)
			assert.Zero(t, f.count(), "no fetch before validation")
		})
	}
}

func TestConfiguredPageLimit(t *testing.T) {
	f := &fakeFetcher{rows: projects(250)}
	svc := New(f, types.Config{Reporter: types.ReporterConfig{PageLimit: 100}})
	_, err := svc.FindProjectIDs(context.Background(), criteria.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, f.count())
	assert.Equal(t, 100, f.requests[0].Limit)
	assert.Equal(t, DefaultConcurrency, svc.Concurrency)
}
