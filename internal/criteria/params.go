// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TextSearchParams is the tool-facing form of a text search.
type TextSearchParams struct {
	SearchText  string    `json:"search_text" yaml:"search_text" validate:"required" jsonschema:"description=Text to search for"`
	SearchField FieldList `json:"search_field,omitempty" yaml:"search_field,omitempty"`
	Operator    Operator  `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// Params is the search input accepted at the tool boundary. Build turns it
// into a validated SearchRequest.
type Params struct {
	TextSearch    *TextSearchParams `json:"advanced_text_search,omitempty" yaml:"advanced_text_search,omitempty" jsonschema:"description=Text search string and search parameters"`
	Years         []int             `json:"years,omitempty" yaml:"years,omitempty" validate:"omitempty,dive,gt=0" jsonschema:"description=Fiscal years where projects are active such as 2023 or 2024"`
	Agencies      []Agency          `json:"agencies,omitempty" yaml:"agencies,omitempty" jsonschema:"description=Agencies funding the grant. Omitted means NIH and an empty list means any agency"`
	Organizations []string          `json:"organizations,omitempty" yaml:"organizations,omitempty" jsonschema:"description=Organization names that received funding (e.g. Johns Hopkins University)"`
	PIName        string            `json:"pi_name,omitempty" yaml:"pi_name,omitempty" jsonschema:"description=Name of the principal investigator"`
	ProjectNums   []string          `json:"project_nums,omitempty" yaml:"project_nums,omitempty" jsonschema:"description=Project numbers (e.g. 1F32AG052995-01A1)"`
	ActivityCodes []string          `json:"activity_codes,omitempty" yaml:"activity_codes,omitempty" jsonschema:"description=Activity codes such as R01 or R21"`
	States        []string          `json:"states,omitempty" yaml:"states,omitempty" jsonschema:"description=Two-letter organization state codes"`
	AwardTypes    []string          `json:"award_types,omitempty" yaml:"award_types,omitempty" jsonschema:"description=Award types where 1 is new and 2 is competing continuation"`
}

// MarshalYAML writes an explicit empty agency list, which means any agency,
// so that it does not reload as an absent key and pick up the NIH default.
func (p Params) MarshalYAML() (any, error) {
	type plain Params
	var n yaml.Node
	if err := n.Encode(plain(p)); err != nil {
		return nil, errors.Wrap(err, "encoding search parameters")
	}
	if p.Agencies != nil && len(p.Agencies) == 0 {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "agencies"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle},
		)
	}
	return &n, nil
}

// Build validates p and returns the equivalent SearchRequest. Every input
// error is reported here, before any network activity.
func (p Params) Build() (SearchRequest, error) {
	if err := Validate(p); err != nil {
		return SearchRequest{}, err
	}

	var req SearchRequest
	if p.TextSearch != nil {
		ts, err := NewTextSearch(p.TextSearch.SearchText, p.TextSearch.Operator, p.TextSearch.SearchField)
		if err != nil {
			return SearchRequest{}, err
		}
		req.TextSearch = &ts
	}

	req.FiscalYears = p.Years

	if p.Agencies == nil {
		req.Agencies = append([]Agency(nil), DefaultAgencies...)
	} else {
		for _, a := range p.Agencies {
			if _, ok := agencyNames[a]; !ok {
				return SearchRequest{}, NewValidationError("agencies", "unknown agency code %q", string(a))
			}
		}
		req.Agencies = p.Agencies
	}

	nums, err := NormalizeProjectNums(p.ProjectNums)
	if err != nil {
		return SearchRequest{}, err
	}
	req.ProjectNums = nums

	req.Organizations = p.Organizations
	req.PIName = strings.TrimSpace(p.PIName)
	req.ActivityCodes = p.ActivityCodes
	req.States = p.States
	req.AwardTypes = p.AwardTypes
	return req, nil
}

// Validate checks the validate struct tags of v and reports the first
// failure as a ValidationError.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fromValidator(err)
	}
	return nil
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return NewValidationError(fe.Field(), "failed %q constraint", fe.Tag())
	}
	return errors.Wrap(err, "validating search parameters")
}
