// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package criteria models a grants search request and serializes it into
// the criteria object the RePORTER project search API expects.
// Implements: Criteria Model (text-search coercion, project-number
// normalization, absence-preserving serialization).
package criteria

import (
	"sort"
	"strings"
)

// Wire is the criteria object sent in the search request body.
type Wire map[string]any

// SearchRequest is one logical query. The zero value matches every project.
// Unset fields never appear in the wire criteria: the API treats an omitted
// key differently from an empty value.
type SearchRequest struct {
	TextSearch    *TextSearch
	FiscalYears   []int
	Agencies      []Agency
	Organizations []string
	PIName        string
	ProjectNums   []string
	ActivityCodes []string
	States        []string
	AwardTypes    []string
}

// Wire builds the criteria object. Each non-empty attribute contributes
// exactly one key; empty attributes contribute none. Wire assumes r passed
// Validate: blank list entries are skipped here, not reported.
func (r SearchRequest) Wire() Wire {
	w := Wire{}

	if r.TextSearch != nil && strings.TrimSpace(r.TextSearch.Text) != "" {
		w["advanced_text_search"] = r.TextSearch.wire()
	}
	if years := uniqueYears(r.FiscalYears); len(years) > 0 {
		w["fiscal_years"] = years
	}
	if len(r.Agencies) > 0 {
		codes := make([]string, 0, len(r.Agencies))
		for _, a := range r.Agencies {
			codes = append(codes, string(a))
		}
		w["agencies"] = codes
	}
	if orgs := nonEmpty(r.Organizations, false); len(orgs) > 0 {
		w["org_names"] = orgs
	}
	if name := strings.TrimSpace(r.PIName); name != "" {
		w["pi_names"] = []map[string]string{{"any_name": name}}
	}
	if nums := nonEmpty(r.ProjectNums, true); len(nums) > 0 {
		w["project_nums"] = nums
	}
	if codes := nonEmpty(r.ActivityCodes, true); len(codes) > 0 {
		w["activity_codes"] = codes
	}
	if states := nonEmpty(r.States, true); len(states) > 0 {
		w["org_states"] = states
	}
	if awardTypes := nonEmpty(r.AwardTypes, false); len(awardTypes) > 0 {
		w["award_types"] = awardTypes
	}
	return w
}

// Validate reports the input Wire would otherwise drop silently: blank
// project numbers and agency codes outside the vocabulary. Params.Build
// already enforces both; requests assembled directly are checked here.
func (r SearchRequest) Validate() error {
	if _, err := NormalizeProjectNums(r.ProjectNums); err != nil {
		return err
	}
	for _, a := range r.Agencies {
		if _, ok := agencyNames[a]; !ok {
			return NewValidationError("agencies", "unknown agency code %q", string(a))
		}
	}
	return nil
}

// WithTextSearch returns a copy of r searching for ts.
func (r SearchRequest) WithTextSearch(ts TextSearch) SearchRequest {
	r.TextSearch = &ts
	return r
}

// uniqueYears sorts and deduplicates: order and repetition carry no meaning.
func uniqueYears(years []int) []int {
	if len(years) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(years))
	out := make([]int, 0, len(years))
	for _, y := range years {
		if seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func nonEmpty(values []string, upper bool) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if upper {
			v = strings.ToUpper(v)
		}
		out = append(out, v)
	}
	return out
}
