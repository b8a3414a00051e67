// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate computes distributions, funding statistics, and
// cross-tabulations over a materialized result set.
// Implements: Aggregation Engine (pure functions of a ResultSet; no
// refetching, no mutation of the input rows).
package aggregate

import (
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// Dimension is a categorical attribute of a project row that results can be
// grouped by.
type Dimension string

const (
	DimFiscalYear       Dimension = "fiscal_year"
	DimActivityCode     Dimension = "activity_code"
	DimFundingMechanism Dimension = "funding_mechanism"
	DimAgency           Dimension = "agency"
	DimOrganization     Dimension = "organization"
	DimState            Dimension = "state"
	DimOrganizationType Dimension = "organization_type"
	DimAwardType        Dimension = "award_type"
	DimIsActive         Dimension = "is_active"
)

type dimensionSpec struct {
	field reporter.IncludeField
	key   func(types.ProjectRecord) (string, bool)
}

var dimensions = map[Dimension]dimensionSpec{
	DimFiscalYear:       {reporter.FieldFiscalYear, scalarAt("fiscal_year")},
	DimActivityCode:     {reporter.FieldActivityCode, scalarAt("activity_code")},
	DimFundingMechanism: {reporter.FieldFundingMechanism, scalarAt("funding_mechanism")},
	DimAgency:           {reporter.FieldAgencyIcAdmin, scalarAt("agency_ic_admin")},
	DimOrganization:     {reporter.FieldOrganization, nestedAt("organization", "org_name")},
	DimState:            {reporter.FieldOrganization, nestedAt("organization", "org_state")},
	DimOrganizationType: {reporter.FieldOrganizationType, nestedAt("organization_type", "name")},
	DimAwardType:        {reporter.FieldAwardType, scalarAt("award_type")},
	DimIsActive:         {reporter.FieldIsActive, scalarAt("is_active")},
}

// Dimensions returns every valid dimension in a fixed order.
func Dimensions() []Dimension {
	return []Dimension{
		DimFiscalYear, DimActivityCode, DimFundingMechanism, DimAgency,
		DimOrganization, DimState, DimOrganizationType, DimAwardType, DimIsActive,
	}
}

// ParseDimension resolves a dimension name. Case, surrounding whitespace,
// and dashes are ignored.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := dimensions[d]; ok {
		return d, nil
	}
	names := make([]string, 0, len(dimensions))
	for _, v := range Dimensions() {
		names = append(names, string(v))
	}
	return "", criteria.NewValidationError("dimension",
		"unknown dimension %q (valid: %s)", s, strings.Join(names, ", "))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(b []byte) error {
	v, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// JSONSchema lists the valid dimension names.
func (Dimension) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string", Description: "Dimension to group projects by"}
	for _, d := range Dimensions() {
		s.Enum = append(s.Enum, string(d))
	}
	return s
}

// Field is the include field a fetch must request for d to be populated.
func (d Dimension) Field() reporter.IncludeField {
	return dimensions[d].field
}

// Key returns the value of d in rec. Rows without a usable value report
// false and are left out of every grouping.
func (d Dimension) Key(rec types.ProjectRecord) (string, bool) {
	spec, ok := dimensions[d]
	if !ok {
		return "", false
	}
	return spec.key(rec)
}

// Fields returns the distinct include fields needed by dims, in order.
func Fields(dims ...Dimension) []reporter.IncludeField {
	seen := map[reporter.IncludeField]bool{}
	var out []reporter.IncludeField
	for _, d := range dims {
		f := d.Field()
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func scalarAt(key string) func(types.ProjectRecord) (string, bool) {
	return func(rec types.ProjectRecord) (string, bool) {
		return scalarKey(rec[key])
	}
}

func nestedAt(key, sub string) func(types.ProjectRecord) (string, bool) {
	return func(rec types.ProjectRecord) (string, bool) {
		switch v := rec[key].(type) {
		case map[string]any:
			return scalarKey(v[sub])
		case string:
			return scalarKey(v)
		}
		return "", false
	}
}

// scalarKey renders a JSON scalar as a grouping key. Whole numbers print
// without a decimal point so fiscal years read as 2021, not 2021.000000.
func scalarKey(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		x = strings.TrimSpace(x)
		return x, x != ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}
