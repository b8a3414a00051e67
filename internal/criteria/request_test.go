// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireEmptyRequest(t *testing.T) {
	assert.Equal(t, Wire{}, SearchRequest{}.Wire())

	data, err := json.Marshal(SearchRequest{}.Wire())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestWireYearsAndAgency(t *testing.T) {
	req := SearchRequest{FiscalYears: []int{2020, 2021}, Agencies: []Agency{AgencyNCI}}

	data, err := json.Marshal(req.Wire())
	require.NoError(t, err)
	assert.JSONEq(t, `{"fiscal_years":[2020,2021],"agencies":["NCI"]}`, string(data))
}

func TestWireOmitsEmptyFields(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
		want []string
	}{
		{"blank pi name", SearchRequest{PIName: "   "}, nil},
		{"empty slices", SearchRequest{FiscalYears: []int{}, Agencies: []Agency{}, Organizations: []string{}}, nil},
		{"whitespace-only entries", SearchRequest{Organizations: []string{" ", ""}, States: []string{""}}, nil},
		{"text search without text", SearchRequest{TextSearch: &TextSearch{}}, nil},
		{"pi name", SearchRequest{PIName: "Allyson Sgro"}, []string{"pi_names"}},
		{"organizations", SearchRequest{Organizations: []string{"Boston University"}}, []string{"org_names"}},
		{"states and codes", SearchRequest{States: []string{"md"}, ActivityCodes: []string{"r01"}}, []string{"activity_codes", "org_states"}},
		{"award types", SearchRequest{AwardTypes: []string{"1", "2"}}, []string{"award_types"}},
		{"project nums", SearchRequest{ProjectNums: []string{"7R01DA034777-04"}}, []string{"project_nums"}},
		{"text search", SearchRequest{TextSearch: &TextSearch{Text: "asthma"}}, []string{"advanced_text_search"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.req.Wire()
			var keys []string
			for k := range w {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.want, keys)
		})
	}
}

func TestWireValues(t *testing.T) {
	req := SearchRequest{
		TextSearch:    &TextSearch{Text: "egf receptor", Fields: FieldList{FieldProjectTitle, FieldTerms}, Operator: OperatorAnd},
		FiscalYears:   []int{2021, 2020, 2021},
		PIName:        " Allyson Sgro ",
		States:        []string{" md ", "ca"},
		ActivityCodes: []string{"r01"},
	}
	w := req.Wire()

	assert.Equal(t, map[string]any{
		"search_text":  "egf receptor",
		"search_field": "projecttitle, terms",
		"operator":     "and",
	}, w["advanced_text_search"])
	assert.Equal(t, []int{2020, 2021}, w["fiscal_years"])
	assert.Equal(t, []map[string]string{{"any_name": "Allyson Sgro"}}, w["pi_names"])
	assert.Equal(t, []string{"MD", "CA"}, w["org_states"])
	assert.Equal(t, []string{"R01"}, w["activity_codes"])
}

func TestWireIsIdempotent(t *testing.T) {
	req := SearchRequest{FiscalYears: []int{2024, 2023}, Agencies: []Agency{AgencyNIMHD}, PIName: "Smith"}
	first, err := json.Marshal(req.Wire())
	require.NoError(t, err)
	second, err := json.Marshal(req.Wire())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestWithTextSearchDoesNotMutate(t *testing.T) {
	base := SearchRequest{FiscalYears: []int{2022}}
	derived := base.WithTextSearch(TextSearch{Text: "asthma", Operator: OperatorAnd})

	assert.Nil(t, base.TextSearch)
	require.NotNil(t, derived.TextSearch)
	assert.Equal(t, "asthma", derived.TextSearch.Text)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, SearchRequest{}.Validate())
	assert.NoError(t, SearchRequest{ProjectNums: []string{" 1r01md013338-01 "}, Agencies: []Agency{AgencyNCI}}.Validate())

	err := SearchRequest{ProjectNums: []string{"1R01MD013338-01", ""}}.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "project_num", verr.Field)

	err = SearchRequest{Agencies: []Agency{"XYZ"}}.Validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "agencies", verr.Field)
}
