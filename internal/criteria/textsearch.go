// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	"go.yaml.in/yaml/v3"
)

// Operator controls how multiple search terms combine.
type Operator string

const (
	// OperatorAll searches text in all search fields.
	OperatorAll Operator = "all"
	// OperatorOr retrieves projects containing at least one term.
	OperatorOr Operator = "or"
	// OperatorAnd retrieves projects containing every term.
	OperatorAnd Operator = "and"
	// OperatorAdvanced accepts boolean expressions and exact phrases.
	OperatorAdvanced Operator = "advanced"
)

var operators = []Operator{OperatorAll, OperatorOr, OperatorAnd, OperatorAdvanced}

// ParseOperator matches s case-insensitively. The empty string selects OperatorAll.
func ParseOperator(s string) (Operator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OperatorAll, nil
	}
	for _, op := range operators {
		if string(op) == s {
			return op, nil
		}
	}
	return "", NewValidationError("operator", "unknown operator %q (want all, or, and, advanced)", s)
}

// UnmarshalText rejects unknown operators while decoding tool input.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// JSONSchema lists the operators for tool callers.
func (Operator) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string", Description: "How to combine multiple search terms (default all)"}
	for _, op := range operators {
		s.Enum = append(s.Enum, string(op))
	}
	return s
}

// SearchField is a text field to search. The known fields are listed
// below; any other value is passed to the API unchanged.
type SearchField string

const (
	FieldProjectTitle SearchField = "projecttitle"
	FieldTerms        SearchField = "terms"
	FieldAbstract     SearchField = "abstract"
)

var knownFields = []SearchField{FieldProjectTitle, FieldTerms, FieldAbstract}

// DefaultSearchFields is used when a text search names no fields.
var DefaultSearchFields = FieldList{FieldProjectTitle, FieldAbstract, FieldTerms}

// ParseSearchField returns the canonical field when s matches a known field
// case-insensitively, and s unchanged otherwise. It never fails.
func ParseSearchField(s string) SearchField {
	trimmed := strings.TrimSpace(s)
	for _, f := range knownFields {
		if strings.EqualFold(trimmed, string(f)) {
			return f
		}
	}
	return SearchField(s)
}

// Known reports whether f is one of the canonical search fields.
func (f SearchField) Known() bool {
	for _, k := range knownFields {
		if f == k {
			return true
		}
	}
	return false
}

// FieldList is the set of fields a text search covers. In JSON it accepts
// either a single string or a list of strings.
type FieldList []SearchField

// ParseFieldList coerces each raw value with ParseSearchField.
func ParseFieldList(raw ...string) FieldList {
	out := make(FieldList, 0, len(raw))
	for _, s := range raw {
		out = append(out, ParseSearchField(s))
	}
	return out
}

// UnmarshalJSON accepts "terms" as well as ["terms", "abstract"].
func (l *FieldList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = ParseFieldList(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return NewValidationError("search_field", "must be a string or a list of strings")
	}
	*l = ParseFieldList(many...)
	return nil
}

// UnmarshalYAML accepts a scalar as well as a sequence, like UnmarshalJSON.
func (l *FieldList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = ParseFieldList(value.Value)
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err == nil {
			*l = ParseFieldList(many...)
			return nil
		}
	}
	return NewValidationError("search_field", "must be a string or a list of strings")
}

// String joins the fields the way the API expects: "projecttitle, terms".
func (l FieldList) String() string {
	parts := make([]string, 0, len(l))
	for _, f := range l {
		if strings.TrimSpace(string(f)) == "" {
			continue
		}
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}

// Unknown returns the values that did not match a canonical field.
func (l FieldList) Unknown() []string {
	var out []string
	for _, f := range l {
		if !f.Known() {
			out = append(out, string(f))
		}
	}
	return out
}

// JSONSchema describes the string-or-list shape.
func (FieldList) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Field or list of fields to search: projecttitle, terms, abstract",
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// TextSearch is a structured full-text query.
type TextSearch struct {
	Text     string
	Fields   FieldList
	Operator Operator
}

// NewTextSearch validates text and fills in the default fields and operator.
func NewTextSearch(text string, op Operator, fields FieldList) (TextSearch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TextSearch{}, NewValidationError("search_text", "search text cannot be empty")
	}
	op, err := ParseOperator(string(op))
	if err != nil {
		return TextSearch{}, err
	}
	if len(fields) == 0 || fields.String() == "" {
		fields = append(FieldList(nil), DefaultSearchFields...)
	}
	return TextSearch{Text: text, Fields: fields, Operator: op}, nil
}

func (ts TextSearch) wire() map[string]any {
	fields := ts.Fields
	if fields.String() == "" {
		fields = DefaultSearchFields
	}
	op := ts.Operator
	if op == "" {
		op = OperatorAll
	}
	return map[string]any{
		"search_text":  ts.Text,
		"search_field": fields.String(),
		"operator":     string(op),
	}
}
