package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/grants-reporter/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List agent tools or call one with JSON input",
	Long: `Tools lists the operations exposed to agent hosts. With --call NAME it runs
one tool on the JSON input given by --input, or read from stdin when --input
is "-", and prints the JSON result.`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().String("call", "", "tool to run")
	toolsCmd.Flags().String("input", "{}", `tool input as JSON, or "-" to read stdin`)
	toolsCmd.Flags().String("format", "table", "listing format: table, json, yaml")

	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	reg, err := tools.ForService(newService(loadConfig(), nil))
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("call")
	if name == "" {
		return render(cmd, reg.Describe())
	}

	tool, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	input, _ := cmd.Flags().GetString("input")
	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	out, err := tool.Call(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
