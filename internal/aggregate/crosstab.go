// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"github.com/pdiddy/grants-reporter/pkg/types"
)

// Cell is one (row, column) entry of a cross-tabulation.
type Cell struct {
	Count        int     `json:"count" yaml:"count"`
	TotalFunding float64 `json:"total_funding" yaml:"total_funding"`
}

// Crosstab counts rows and sums their funding by two dimensions.
// Cells is keyed row value, then column value.
type Crosstab struct {
	Row   Dimension                  `json:"row_dimension" yaml:"row_dimension"`
	Col   Dimension                  `json:"col_dimension" yaml:"col_dimension"`
	Cells map[string]map[string]Cell `json:"cells" yaml:"cells"`
}

// CrossTabulate builds the table of row by col over rows. A row contributes
// only when both dimensions are present; a missing award amount adds zero
// funding.
func CrossTabulate(rows []types.ProjectRecord, row, col Dimension) Crosstab {
	ct := Crosstab{Row: row, Col: col, Cells: map[string]map[string]Cell{}}
	for _, rec := range rows {
		rk, ok := row.Key(rec)
		if !ok {
			continue
		}
		ck, ok := col.Key(rec)
		if !ok {
			continue
		}
		amount, _ := rec.Number(FundingKey)
		ct.add(rk, ck, Cell{Count: 1, TotalFunding: amount})
	}
	return ct
}

func (c *Crosstab) add(rk, ck string, cell Cell) {
	cols, ok := c.Cells[rk]
	if !ok {
		cols = map[string]Cell{}
		c.Cells[rk] = cols
	}
	cur := cols[ck]
	cur.Count += cell.Count
	cur.TotalFunding += cell.TotalFunding
	cols[ck] = cur
}

// Transpose swaps rows and columns.
func (c Crosstab) Transpose() Crosstab {
	t := Crosstab{Row: c.Col, Col: c.Row, Cells: map[string]map[string]Cell{}}
	for rk, cols := range c.Cells {
		for ck, cell := range cols {
			t.add(ck, rk, cell)
		}
	}
	return t
}

// Count returns the number of rows tabulated.
func (c Crosstab) Count() int {
	n := 0
	for _, cols := range c.Cells {
		for _, cell := range cols {
			n += cell.Count
		}
	}
	return n
}

// RowKeys returns the row values in sorted order.
func (c Crosstab) RowKeys() []string {
	keys := make([]string, 0, len(c.Cells))
	for k := range c.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ColKeys returns every column value in sorted order.
func (c Crosstab) ColKeys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, cols := range c.Cells {
		for k := range cols {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
