package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/report"
)

// addQueryFlags registers the search filters shared by every query command.
func addQueryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("text", "", "text to search for in titles, abstracts, and terms")
	f.StringSlice("fields", nil, "text search fields: projecttitle, abstract, terms (default all three)")
	f.String("operator", "", "text search operator: all, or, and, advanced (default all)")
	f.IntSlice("years", nil, "fiscal years (e.g. 2023,2024)")
	f.StringSlice("agencies", nil, `administering agencies (default NIH; pass "" for any agency)`)
	f.StringSlice("orgs", nil, "organization names")
	f.String("pi", "", "principal investigator name")
	f.StringSlice("project-nums", nil, "project numbers (e.g. 1F32AG052995-01A1)")
	f.StringSlice("activity-codes", nil, "activity codes (e.g. R01,R21)")
	f.StringSlice("states", nil, "two-letter organization state codes")
	f.StringSlice("award-types", nil, "award types (1 new, 2 competing continuation)")
	f.String("params", "", "search parameters as JSON; replaces the filter flags")
	f.String("query-file", "", "load search parameters from a saved YAML query file")
	f.String("save-query", "", "save the search parameters to a YAML query file")
	f.String("format", "table", "output format: table, json, yaml")
}

// paramsFromFlags resolves the search parameters for cmd and saves them
// when --save-query is set.
func paramsFromFlags(cmd *cobra.Command) (criteria.Params, error) {
	p, err := loadParams(cmd)
	if err != nil {
		return criteria.Params{}, err
	}
	if path, _ := cmd.Flags().GetString("save-query"); path != "" {
		if _, err := p.Build(); err != nil {
			return criteria.Params{}, err
		}
		if err := criteria.WriteQueryFile(path, criteria.QueryFile{Params: p}); err != nil {
			return criteria.Params{}, err
		}
	}
	return p, nil
}

// loadParams decodes --params, then --query-file, and otherwise collects the
// filter flags.
func loadParams(cmd *cobra.Command) (criteria.Params, error) {
	f := cmd.Flags()
	if raw, _ := f.GetString("params"); raw != "" {
		var p criteria.Params
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			if errors.Is(err, criteria.ErrValidation) {
				return criteria.Params{}, err
			}
			return criteria.Params{}, criteria.NewValidationError("params", "invalid JSON: %v", err)
		}
		return p, nil
	}
	if path, _ := f.GetString("query-file"); path != "" {
		qf, err := criteria.ReadQueryFile(path)
		if err != nil {
			return criteria.Params{}, err
		}
		return qf.Params, nil
	}

	var p criteria.Params
	if text, _ := f.GetString("text"); text != "" {
		fields, _ := f.GetStringSlice("fields")
		op, _ := f.GetString("operator")
		p.TextSearch = &criteria.TextSearchParams{
			SearchText:  text,
			SearchField: criteria.ParseFieldList(fields...),
			Operator:    criteria.Operator(op),
		}
	}
	p.Years, _ = f.GetIntSlice("years")
	if f.Changed("agencies") {
		codes, _ := f.GetStringSlice("agencies")
		p.Agencies = []criteria.Agency{}
		for _, c := range codes {
			if c == "" {
				continue
			}
			a, err := criteria.ParseAgency(c)
			if err != nil {
				return criteria.Params{}, err
			}
			p.Agencies = append(p.Agencies, a)
		}
	}
	p.Organizations, _ = f.GetStringSlice("orgs")
	p.PIName, _ = f.GetString("pi")
	p.ProjectNums, _ = f.GetStringSlice("project-nums")
	p.ActivityCodes, _ = f.GetStringSlice("activity-codes")
	p.States, _ = f.GetStringSlice("states")
	p.AwardTypes, _ = f.GetStringSlice("award-types")
	return p, nil
}

// requestFromFlags builds the validated search request for cmd.
func requestFromFlags(cmd *cobra.Command) (criteria.SearchRequest, error) {
	p, err := paramsFromFlags(cmd)
	if err != nil {
		return criteria.SearchRequest{}, err
	}
	return p.Build()
}

// render writes v to stdout in the --format selected on cmd.
func render(cmd *cobra.Command, v any) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), format, v)
}

// commandContext returns a context cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}
