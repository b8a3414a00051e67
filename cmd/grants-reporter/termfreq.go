package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/grants-reporter/internal/grants"
)

var termFrequencyCmd = &cobra.Command{
	Use:   "term-frequency",
	Short: "RCDC term-frequency analysis of a grant portfolio",
	Long: `Term-frequency counts the projects in a portfolio (the query filters, without
--text) indexed with each RCDC term, plus the unduplicated count per category,
as percentages of the portfolio.

Categories come from --categories as JSON or from --categories-file as YAML
or JSON:

  - name: Cancer
    terms: [breast cancer, ovarian cancer]`,
	RunE: runTermFrequency,
}

func init() {
	addQueryFlags(termFrequencyCmd)
	termFrequencyCmd.Flags().String("categories", "", "categories as a JSON array of {name, terms}")
	termFrequencyCmd.Flags().String("categories-file", "", "YAML or JSON file of categories")
	termFrequencyCmd.Flags().String("scope", string(grants.ScopeNewAndContinuing), "award types when --award-types is unset: new_only or new_and_continuing")

	rootCmd.AddCommand(termFrequencyCmd)
}

func runTermFrequency(cmd *cobra.Command, args []string) error {
	cats, err := loadCategories(cmd)
	if err != nil {
		return err
	}
	scope, _ := cmd.Flags().GetString("scope")
	scoped, err := grants.GrantScope(scope).AwardTypes()
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(req.AwardTypes) == 0 {
		req.AwardTypes = scoped
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).TermFrequency(ctx, req, cats)
	if err != nil {
		return err
	}
	return render(cmd, out)
}

func loadCategories(cmd *cobra.Command) ([]grants.TermCategory, error) {
	var cats []grants.TermCategory
	if raw, _ := cmd.Flags().GetString("categories"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cats); err != nil {
			return nil, errors.Wrap(err, "parsing --categories")
		}
		return cats, nil
	}
	path, _ := cmd.Flags().GetString("categories-file")
	if path == "" {
		return nil, errors.New("provide --categories or --categories-file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cats, nil
}
