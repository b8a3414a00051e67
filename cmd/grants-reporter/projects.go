package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/grants-reporter/internal/reporter"
)

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "List every project number matching a query",
	RunE:  runIDs,
}

var detailsCmd = &cobra.Command{
	Use:   "details [project-nums...]",
	Short: "Show every field of the given projects",
	Long: `Details fetches full records for project numbers given as arguments or
with --project-nums.`,
	RunE: runDetails,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show selected fields of every project matching a query",
	Long: `Info pages through every matching project and returns only the fields
named by --include (e.g. AwardAmount,FiscalYear). The project number is always
included. Run with --list-fields to print the field vocabulary.`,
	RunE: runInfo,
}

func init() {
	addQueryFlags(idsCmd)
	addQueryFlags(detailsCmd)
	addQueryFlags(infoCmd)
	infoCmd.Flags().StringSlice("include", nil, "fields to return for each project")
	infoCmd.Flags().Bool("list-fields", false, "print the include field vocabulary and exit")

	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(infoCmd)
}

func runIDs(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).FindProjectIDs(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, out)
}

func runDetails(cmd *cobra.Command, args []string) error {
	p, err := paramsFromFlags(cmd)
	if err != nil {
		return err
	}
	p.ProjectNums = append(p.ProjectNums, args...)
	req, err := p.Build()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).ProjectDetails(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, out)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-fields"); list {
		for _, f := range reporter.AllFields() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", f, f.Key())
		}
		return nil
	}

	raw, _ := cmd.Flags().GetStringSlice("include")
	fields, err := reporter.ParseIncludeFields(raw)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out, err := newService(loadConfig(), nil).ProjectInformation(ctx, req, fields)
	if err != nil {
		return err
	}
	return render(cmd, out)
}
