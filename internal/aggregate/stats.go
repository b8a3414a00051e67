// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"math"

	"github.com/pdiddy/grants-reporter/pkg/types"
)

// FundingKey is the row key holding a project's award amount.
const FundingKey = "award_amount"

// Stats summarizes a numeric field. Total counts a missing value as zero.
// Average, Min, and Max are taken over the Count rows that carry a value;
// they are zero when Count is zero.
type Stats struct {
	Total   float64 `json:"total" yaml:"total"`
	Count   int     `json:"count" yaml:"count"`
	Missing int     `json:"missing" yaml:"missing"`
	Average float64 `json:"average" yaml:"average"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// Summarize computes Stats for the numeric field key over rows.
func Summarize(rows []types.ProjectRecord, key string) Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, rec := range rows {
		v, ok := rec.Number(key)
		if !ok {
			s.Missing++
			continue
		}
		s.Count++
		s.Total += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Count == 0 {
		s.Min, s.Max = 0, 0
		return s
	}
	s.Average = s.Total / float64(s.Count)
	return s
}

// Funding summarizes award amounts.
func Funding(rows []types.ProjectRecord) Stats {
	return Summarize(rows, FundingKey)
}
