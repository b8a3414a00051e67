// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the grants-reporter CLI.
// Implements: the command-line and HTTP surfaces over the grants search
// operations (preview, summary, ids, details, field lookups, crosstab,
// term frequency).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/grants-reporter/internal/grants"
	"github.com/pdiddy/grants-reporter/internal/logger"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout     = 60 * time.Second
	defaultAddr        = ":8000"
	defaultConcurrency = grants.DefaultConcurrency
)

// rootCmd is the base command for the grants-reporter CLI.
var rootCmd = &cobra.Command{
	Use:   "grants-reporter",
	Short: "Search and summarize NIH RePORTER grants",
	Long: `grants-reporter queries the NIH RePORTER project search API and turns the
results into counts, distributions, funding totals, and cross-tabulations.

Each operation is a subcommand: search previews a query from its first page,
summary and the other listing commands page through every match. The same
operations are served to agent hosts over HTTP by serve.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./grants-reporter.yaml or ~/.config/grants-reporter/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("reporter.endpoint", "")
	viper.SetDefault("reporter.timeout", defaultTimeout)
	viper.SetDefault("reporter.user_agent", "grants-reporter/"+version)
	viper.SetDefault("reporter.page_limit", reporter.MaxPageLimit)
	viper.SetDefault("reporter.max_retries", 0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("serve.addr", defaultAddr)
	viper.SetDefault("term_frequency.concurrency", defaultConcurrency)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("grants-reporter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "grants-reporter"))
		}
	}

	viper.SetEnvPrefix("GRANTS_REPORTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the merged flag, env, file, and default settings.
func loadConfig() types.Config {
	return types.Config{
		Reporter: types.ReporterConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("reporter.timeout"),
				UserAgent: viper.GetString("reporter.user_agent"),
			},
			Endpoint:   viper.GetString("reporter.endpoint"),
			PageLimit:  viper.GetInt("reporter.page_limit"),
			MaxRetries: viper.GetInt("reporter.max_retries"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Serve: types.ServeConfig{
			Addr: viper.GetString("serve.addr"),
		},
		TermFrequency: types.TermFrequencyConfig{
			Concurrency: viper.GetInt("term_frequency.concurrency"),
		},
	}
}

// newService wires the search API client into a grants service. Page
// metrics register with reg when it is non-nil.
func newService(cfg types.Config, reg prometheus.Registerer) *grants.Service {
	client := reporter.NewClient(cfg.Reporter, reporter.NewMetrics(reg))
	return grants.New(client, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
