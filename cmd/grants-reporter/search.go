package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Preview projects matching a query",
	Long: `Search fetches the first page (up to 500 projects) matching the filters and
reports the total count, distributions by fiscal year, agency, activity code,
organization, funding mechanism, and active status, and award statistics.
Distributions cover the sampled page only; use summary for exact figures.`,
	RunE: runSearch,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize every project matching a query",
	Long: `Summary pages through every matching project and reports exact totals,
distributions, and award statistics. Slower than search for large queries.`,
	RunE: runSummary,
}

func init() {
	addQueryFlags(searchCmd)
	addQueryFlags(summaryCmd)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).SearchProjects(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, out)
}

func runSummary(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).SearchSummary(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, out)
}
