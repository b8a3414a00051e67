// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders operation results for the terminal as a table, or
// as JSON or YAML for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/grants"
	"github.com/pdiddy/grants-reporter/internal/tools"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat resolves table, json, or yaml. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", criteria.NewValidationError("format", "unknown output format %q (valid: table, json, yaml)", s)
}

// Write renders v to w in format f.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTable(w, v)
	}
}

func writeTable(w io.Writer, v any) error {
	switch out := v.(type) {
	case grants.Summary:
		Summary(w, out)
	case grants.ProjectIDs:
		ProjectIDs(w, out)
	case grants.Projects:
		Projects(w, out)
	case grants.CrosstabResult:
		Crosstab(w, out)
	case grants.TermFrequency:
		TermFrequency(w, out)
	case []tools.Description:
		Tools(w, out)
	default:
		return Write(w, FormatJSON, v)
	}
	return nil
}

// Summary prints totals, award statistics, and each distribution.
func Summary(w io.Writer, s grants.Summary) {
	fmt.Fprintf(w, "Total projects: %d\n", s.TotalProjects)
	if !s.Complete {
		fmt.Fprintf(w, "Sampled:        %d (distributions cover the sample only)\n", s.SampledProjects)
	}
	f := s.Funding
	fmt.Fprintf(w, "Total funding:  %s\n", money(f.Total))
	if f.Count > 0 {
		fmt.Fprintf(w, "Average award:  %s  (min %s, max %s, %d without amount)\n",
			money(f.Average), money(f.Min), money(f.Max), f.Missing)
	}

	buckets(w, "Fiscal year", s.ByFiscalYear)
	buckets(w, "Agency", s.ByAgency)
	buckets(w, "Activity code", s.ByActivityCode)
	buckets(w, fmt.Sprintf("Organization (top %d of %d)", len(s.ByOrganization), s.DistinctOrganizations), s.ByOrganization)
	buckets(w, "Funding mechanism", s.ByFundingMechanism)
	buckets(w, "Active", s.ByActiveStatus)
}

func buckets(w io.Writer, title string, bs []aggregate.Bucket) {
	if len(bs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, b := range bs {
		fmt.Fprintf(w, "  %-40s  %6d\n", truncate(b.Value, 40), b.Count)
	}
}

// ProjectIDs prints one project number per line.
func ProjectIDs(w io.Writer, ids grants.ProjectIDs) {
	for _, n := range ids.ProjectNums {
		fmt.Fprintln(w, n)
	}
	fmt.Fprintf(w, "\n%d projects\n", ids.TotalProjects)
}

// Projects prints each project as an indented block of its fields.
func Projects(w io.Writer, p grants.Projects) {
	if len(p.Projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	for i, rec := range p.Projects {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, rec.ProjectNum())
		for _, k := range recordKeys(rec, p.Fields) {
			if k == "project_num" {
				continue
			}
			fmt.Fprintf(w, "  %-24s %s\n", k, truncate(value(rec[k]), 100))
		}
	}
	fmt.Fprintf(w, "\n%d projects\n", p.TotalProjects)
}

// Crosstab prints the table with one line per row value and a column per
// column value. Cells show the project count.
func Crosstab(w io.Writer, c grants.CrosstabResult) {
	t := c.Table
	cols := t.ColKeys()
	fmt.Fprintf(w, "%-24s", truncate(string(t.Row)+" \\ "+string(t.Col), 24))
	for _, ck := range cols {
		fmt.Fprintf(w, "  %10s", truncate(ck, 10))
	}
	fmt.Fprintf(w, "  %14s\n", "funding")
	fmt.Fprintln(w, strings.Repeat("-", 24+12*len(cols)+16))
	for _, rk := range t.RowKeys() {
		fmt.Fprintf(w, "%-24s", truncate(rk, 24))
		var funding float64
		for _, ck := range cols {
			cell := t.Cells[rk][ck]
			funding += cell.TotalFunding
			fmt.Fprintf(w, "  %10d", cell.Count)
		}
		fmt.Fprintf(w, "  %14s\n", money(funding))
	}
	fmt.Fprintf(w, "\n%d of %d projects tabulated\n", c.TabulatedProjects, c.TotalProjects)
}

// TermFrequency prints one line per term and a summary line per category.
func TermFrequency(w io.Writer, tf grants.TermFrequency) {
	fmt.Fprintf(w, "%-24s  %-32s  %8s  %7s\n", "Category", "Term", "Grants", "%")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, c := range tf.Categories {
		for _, t := range c.Terms {
			fmt.Fprintf(w, "%-24s  %-32s  %8d  %6.2f%%\n", truncate(c.Name, 24), truncate(t.Term, 32), t.Projects, t.Percent)
		}
		fmt.Fprintf(w, "%-24s  %-32s  %8d  %6.2f%%\n", truncate(c.Name, 24), "(all terms, unduplicated)", c.Projects, c.Percent)
	}
	fmt.Fprintf(w, "\nBaseline portfolio: %d grants\n", tf.Baseline)
}

// Tools prints each tool name with its description.
func Tools(w io.Writer, list []tools.Description) {
	for _, d := range list {
		fmt.Fprintf(w, "%-24s  %s\n", d.Name, d.Description)
	}
}

func recordKeys(rec types.ProjectRecord, fields []string) []string {
	if len(fields) > 0 {
		return fields
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func value(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, "; ")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any, []any:
		bs, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(bs)
	}
	return fmt.Sprint(v)
}

func money(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
