// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package run implements 'trapsampler run'.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	"github.com/jchmura/jmeter-snmp/comp/core/config"
	"github.com/jchmura/jmeter-snmp/comp/snmptraps/correlator"
	"github.com/jchmura/jmeter-snmp/comp/snmptraps/correlator/correlatorimpl"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/sampler"
	"github.com/jchmura/jmeter-snmp/pkg/util/fxutil"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	workers     int
	iterations  int
	rate        float64
	output      string
	metricsAddr string

	out io.Writer
}

// flagKeys maps the flags of this command to the configuration keys they
// override.
var flagKeys = map[string]string{
	"workers":      "runner.workers",
	"iterations":   "runner.iterations",
	"rate":         "runner.rate",
	"metrics-addr": "telemetry.metrics_addr",
}

// Commands returns a slice of subcommands for the 'trapsampler' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a trap plan",
		Long:  `Runs the plan given with --cfgpath and prints a latency summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cliParams.output != "text" && cliParams.output != "yaml" {
				return fmt.Errorf("unknown output format %q (possible values are text and yaml)", cliParams.output)
			}
			cliParams.out = cmd.OutOrStdout()
			return fxutil.OneShot(runPlan,
				fx.Supply(cliParams),
				fx.Supply(config.Params{
					ConfFilePath: globalParams.ConfFilePath,
					Overrides:    overrides(cmd.Flags()),
					SetupLogger:  true,
				}),
				config.Module(),
				correlatorimpl.Module(),
			)
		},
	}
	runCmd.Flags().IntVarP(&cliParams.workers, "workers", "w", 1, "number of parallel workers")
	runCmd.Flags().IntVarP(&cliParams.iterations, "iterations", "i", 1, "samples taken by each worker")
	runCmd.Flags().Float64VarP(&cliParams.rate, "rate", "r", 0, "samples per second for all workers together, 0 for no limit")
	runCmd.Flags().StringVarP(&cliParams.output, "output", "o", "text", "summary format: text or yaml")
	runCmd.Flags().StringVar(&cliParams.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")

	return []*cobra.Command{runCmd}
}

// overrides returns the flags set on the command line, by configuration key.
func overrides(flags *pflag.FlagSet) map[string]interface{} {
	values := map[string]interface{}{}
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch f.Name {
		case "workers", "iterations":
			v, _ := flags.GetInt(f.Name)
			values[key] = v
		case "rate":
			v, _ := flags.GetFloat64(f.Name)
			values[key] = v
		default:
			values[key] = f.Value.String()
		}
	})
	return values
}

func runPlan(params *cliParams, cfg config.Component, corr correlator.Component) error {
	props, err := sampler.PropertiesFrom(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cfg.GetString("telemetry.metrics_addr"); addr != "" {
		server := serveMetrics(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	runner := sampler.NewRunner(sampler.RunnerConfigFrom(cfg), props, corr)
	summary, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		log.Warn("Run interrupted, the summary only covers the samples taken so far")
	}

	if params.output == "yaml" {
		return summary.WriteYAML(params.out)
	}
	return summary.WriteText(params.out)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infof("Serving metrics on %s/metrics", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics server stopped: %v", err)
		}
	}()
	return server
}
