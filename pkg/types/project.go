// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for grants-reporter.
// Implements: project records and result sets returned by the search API,
// and the configuration structs loaded by the CLI.
package types

import "encoding/json"

// ProjectRecord is one normalized result row. Keys are the snake_case field
// names returned by the search API; only the requested include fields are
// present. Nested organization, agency, and investigator objects have already
// been flattened by the transport adapter.
type ProjectRecord map[string]any

// Has reports whether key is present with a non-null value.
func (r ProjectRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value at key if it is a non-empty string.
func (r ProjectRecord) String(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Number returns the value at key as a float64. JSON numbers decode as
// float64; json.Number and Go integers are accepted as well.
func (r ProjectRecord) Number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Bool returns the value at key if it is a boolean.
func (r ProjectRecord) Bool(key string) (bool, bool) {
	b, ok := r[key].(bool)
	return b, ok
}

// Object returns the value at key if it is a JSON object.
func (r ProjectRecord) Object(key string) (map[string]any, bool) {
	m, ok := r[key].(map[string]any)
	return m, ok
}

// Strings returns the value at key as a string slice.
func (r ProjectRecord) Strings(key string) ([]string, bool) {
	switch v := r[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// ProjectNum returns the project number, or "" when it was not requested.
func (r ProjectRecord) ProjectNum() string {
	s, _ := r.String("project_num")
	return s
}

// ResultSet is the merged collection of rows for one logical query.
// Total is the authoritative count reported by the API; len(Rows) never
// exceeds it and equals it once pagination has exhausted every page.
type ResultSet struct {
	Total int             `json:"total" yaml:"total"`
	Rows  []ProjectRecord `json:"rows" yaml:"rows"`
}

// Complete reports whether every matching row has been paged in.
func (rs ResultSet) Complete() bool {
	return len(rs.Rows) >= rs.Total
}

// Append returns rs with rows added, never exceeding Total.
func (rs ResultSet) Append(rows []ProjectRecord) ResultSet {
	room := rs.Total - len(rs.Rows)
	if room <= 0 {
		return rs
	}
	if len(rows) > room {
		rows = rows[:room]
	}
	rs.Rows = append(rs.Rows, rows...)
	return rs
}
