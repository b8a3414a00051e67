// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import "strings"

// NormalizeProjectNum trims and upper-cases a project number such as
// "1f32ag052995-01a1". The API matches project numbers case-sensitively.
// Normalization is idempotent.
func NormalizeProjectNum(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewValidationError("project_num", "project number cannot be empty")
	}
	return strings.ToUpper(s), nil
}

// NormalizeProjectNums normalizes every entry and fails on the first empty one.
func NormalizeProjectNums(nums []string) ([]string, error) {
	if len(nums) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(nums))
	for _, n := range nums {
		norm, err := NormalizeProjectNum(n)
		if err != nil {
			return nil, err
		}
		out = append(out, norm)
	}
	return out, nil
}
