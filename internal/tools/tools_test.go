// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/grants"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

type stubFetcher struct {
	mu       sync.Mutex
	rows     []types.ProjectRecord
	requests []reporter.PageRequest
}

func (s *stubFetcher) FetchPage(_ context.Context, pr reporter.PageRequest) (reporter.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, pr)
	end := min(pr.Offset+pr.Limit, len(s.rows))
	var rows []types.ProjectRecord
	if pr.Offset < end {
		rows = s.rows[pr.Offset:end]
	}
	return reporter.Page{Total: len(s.rows), Rows: rows}, nil
}

func stubRows(n int) []types.ProjectRecord {
	rows := make([]types.ProjectRecord, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, types.ProjectRecord{
			"project_num":     fmt.Sprintf("1R01AG%06d-01", i),
			"fiscal_year":     float64(2022),
			"activity_code":   "R01",
			"agency_ic_admin": "NIA",
			"award_amount":    float64(100),
		})
	}
	return rows
}

func testRegistry(t *testing.T, f *stubFetcher) *Registry {
	t.Helper()
	reg, err := ForService(grants.New(f, types.Config{}))
	require.NoError(t, err)
	return reg
}

func call(t *testing.T, reg *Registry, name, input string) (map[string]any, error) {
	t.Helper()
	tool, ok := reg.Get(name)
	require.True(t, ok, name)
	out, err := tool.Call(context.Background(), input)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	return m, nil
}

// --- registry ---

func TestRegistryLists(t *testing.T) {
	reg := testRegistry(t, &stubFetcher{})
	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		Crosstab, FindProjectIDs, GetProjectDetails, GetProjectInfo,
		GetSearchSummary, SearchProjects, TermFrequency,
	}, names)

	_, ok := reg.Get("nope")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	echo := func(_ context.Context, in *SearchInput) (*SearchInput, error) { return in, nil }
	_, err := NewRegistry(New("a", "", echo), New("a", "", echo))
	assert.Error(t, err)
}

func TestParametersSchema(t *testing.T) {
	reg := testRegistry(t, &stubFetcher{})
	descs := reg.Describe()
	require.Len(t, descs, 7)

	for _, d := range descs {
		assert.NotEmpty(t, d.Description, d.Name)
		bs, err := json.Marshal(d.Parameters)
		require.NoError(t, err)
		assert.Contains(t, string(bs), "search_params", d.Name)
		assert.NotContains(t, string(bs), "$ref", d.Name)
	}

	tool, _ := reg.Get(Crosstab)
	bs, err := json.Marshal(tool.Parameters())
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"organization_type"`)
	assert.Contains(t, string(bs), `"NIMHD"`)
}

// --- calls ---

func TestSearchProjectsCall(t *testing.T) {
	f := &stubFetcher{rows: stubRows(3)}
	reg := testRegistry(t, f)

	out, err := call(t, reg, SearchProjects, `{"search_params":{"years":[2022],"agencies":["NIA"],"activity_codes":["r01"]}}`)
	require.NoError(t, err)
	assert.Equal(t, float64(3), out["total_projects"])
	assert.Equal(t, true, out["complete"])

	require.Len(t, f.requests, 1)
	assert.Equal(t, criteria.Wire{
		"fiscal_years":   []int{2022},
		"agencies":       []string{"NIA"},
		"activity_codes": []string{"R01"},
	}, f.requests[0].Criteria)
}

func TestDefaultAgencyApplied(t *testing.T) {
	f := &stubFetcher{rows: stubRows(1)}
	reg := testRegistry(t, f)

	_, err := call(t, reg, FindProjectIDs, `{"search_params":{}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"NIH"}, f.requests[0].Criteria["agencies"])

	_, err = call(t, reg, FindProjectIDs, `{"search_params":{"agencies":[]}}`)
	require.NoError(t, err)
	assert.NotContains(t, f.requests[1].Criteria, "agencies")
}

func TestProjectInformationCall(t *testing.T) {
	f := &stubFetcher{rows: stubRows(2)}
	reg := testRegistry(t, f)

	out, err := call(t, reg, GetProjectInfo, `{"search_params":{"agencies":["NIA"]},"include_fields":["AWARD_AMOUNT","fiscal_year"]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"project_num", "award_amount", "fiscal_year"}, out["fields"])
	assert.Equal(t, []reporter.IncludeField{
		reporter.FieldProjectNum, reporter.FieldAwardAmount, reporter.FieldFiscalYear,
	}, f.requests[0].IncludeFields)
}

func TestCrosstabCall(t *testing.T) {
	f := &stubFetcher{rows: stubRows(4)}
	reg := testRegistry(t, f)

	out, err := call(t, reg, Crosstab, `{"search_params":{},"row_field":"fiscal_year","col_field":"Activity_Code"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(4), out["tabulated_projects"])
	table := out["table"].(map[string]any)
	cells := table["cells"].(map[string]any)
	assert.Equal(t, map[string]any{"count": float64(4), "total_funding": float64(400)}, cells["2022"].(map[string]any)["R01"])
}

func TestTermFrequencyScope(t *testing.T) {
	f := &stubFetcher{rows: stubRows(5)}
	reg := testRegistry(t, f)

	_, err := call(t, reg, TermFrequency, `{"search_params":{"agencies":["NIA"]},"categories":[{"name":"Aging","terms":["dementia"]}],"grant_scope":"new_only"}`)
	require.NoError(t, err)
	require.NotEmpty(t, f.requests)
	for _, r := range f.requests {
		assert.Equal(t, []string{"1"}, r.Criteria["award_types"])
	}
}

func TestInvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		input string
	}{
		{"malformed json", SearchProjects, `{"search_params":`},
		{"unknown agency", SearchProjects, `{"search_params":{"agencies":["NASA"]}}`},
		{"unknown operator", SearchProjects, `{"search_params":{"advanced_text_search":{"search_text":"x","operator":"xor"}}}`},
		{"empty search text", SearchProjects, `{"search_params":{"advanced_text_search":{"search_text":""}}}`},
		{"negative year", GetSearchSummary, `{"search_params":{"years":[-1]}}`},
		{"blank project number", GetProjectDetails, `{"search_params":{"project_nums":["  "]}}`},
		{"no project numbers", GetProjectDetails, `{"search_params":{}}`},
		{"missing include fields", GetProjectInfo, `{"search_params":{}}`},
		{"unknown include field", GetProjectInfo, `{"search_params":{},"include_fields":["Budget"]}`},
		{"unknown dimension", Crosstab, `{"search_params":{},"row_field":"pi_name","col_field":"state"}`},
		{"missing dimension", Crosstab, `{"search_params":{},"row_field":"state"}`},
		{"no categories", TermFrequency, `{"search_params":{}}`},
		{"unknown scope", TermFrequency, `{"search_params":{},"categories":[{"name":"A","terms":["a"]}],"grant_scope":"all"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{rows: stubRows(1)}
			reg := testRegistry(t, f)
			_, err := call(t, reg, tt.tool, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, criteria.ErrValidation)
			assert.Empty(t, f.requests, "no fetch on invalid input")
		})
	}
}
