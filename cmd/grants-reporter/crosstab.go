package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/grants-reporter/internal/aggregate"
)

var crosstabCmd = &cobra.Command{
	Use:   "crosstab",
	Short: "Cross-tabulate matching projects by two dimensions",
	Long: `Crosstab pages through every matching project and counts projects and sums
award amounts for each pair of values of --rows and --cols. Dimensions:
fiscal_year, activity_code, funding_mechanism, agency, organization, state,
organization_type, award_type, is_active.`,
	RunE: runCrosstab,
}

func init() {
	addQueryFlags(crosstabCmd)
	crosstabCmd.Flags().String("rows", "", "row dimension")
	crosstabCmd.Flags().String("cols", "", "column dimension")
	_ = crosstabCmd.MarkFlagRequired("rows")
	_ = crosstabCmd.MarkFlagRequired("cols")

	rootCmd.AddCommand(crosstabCmd)
}

func runCrosstab(cmd *cobra.Command, args []string) error {
	rowName, _ := cmd.Flags().GetString("rows")
	colName, _ := cmd.Flags().GetString("cols")
	row, err := aggregate.ParseDimension(rowName)
	if err != nil {
		return err
	}
	col, err := aggregate.ParseDimension(colName)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).Crosstab(ctx, req, row, col)
	if err != nil {
		return err
	}
	return render(cmd, out)
}
