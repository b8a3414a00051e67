package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/grants-reporter/internal/server"
	"github.com/pdiddy/grants-reporter/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the grants tools over HTTP",
	Long: `Serve exposes the grants operations to agent hosts:

  GET  /health        liveness
  GET  /metrics       Prometheus metrics
  GET  /tools         tool names, descriptions, and input schemas
  POST /tools/{name}  run a tool on a JSON body`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	toolReg, err := tools.ForService(newService(cfg, reg))
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	return server.New(toolReg, reg, reg).ListenAndServe(ctx, cfg.Serve.Addr)
}
