// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"github.com/pdiddy/grants-reporter/pkg/types"
)

// Distribution counts rows per distinct value of one dimension. Rows missing
// the dimension are excluded, so the counts sum to the number of rows that
// carry it.
type Distribution map[string]int

// Distribute builds the distribution of d over rows.
func Distribute(rows []types.ProjectRecord, d Dimension) Distribution {
	dist := Distribution{}
	for _, rec := range rows {
		if k, ok := d.Key(rec); ok {
			dist[k]++
		}
	}
	return dist
}

// Sum returns the number of rows counted.
func (d Distribution) Sum() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Bucket is one value of a distribution with its count.
type Bucket struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Ranked orders buckets most frequent first, ties broken by value.
func (d Distribution) Ranked() []Bucket {
	out := d.buckets()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Descending orders buckets by value, highest first. Used for fiscal years,
// which all have the same width.
func (d Distribution) Descending() []Bucket {
	out := d.buckets()
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Value) != len(out[j].Value) {
			return len(out[i].Value) > len(out[j].Value)
		}
		return out[i].Value > out[j].Value
	})
	return out
}

// Top returns at most n buckets from Ranked.
func (d Distribution) Top(n int) []Bucket {
	r := d.Ranked()
	if n > 0 && len(r) > n {
		r = r[:n]
	}
	return r
}

func (d Distribution) buckets() []Bucket {
	out := make([]Bucket, 0, len(d))
	for v, c := range d {
		out = append(out, Bucket{Value: v, Count: c})
	}
	return out
}
