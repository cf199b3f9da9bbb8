//go:build linux

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ja7ad/procrec/pkg/config"
)

func main() {
	var (
		flags   = config.Default()
		cfgPath string
	)

	root := &cobra.Command{
		Use:   "procrec [flags] (-p PID | [--] command [args...])",
		Short: "Record CPU and memory usage of a process",
		Long: `procrec samples the CPU utilization and memory footprint of one process at
a fixed interval until it exits, the duration limit is reached or Ctrl-C is
pressed, then prints the recording.

The process is either attached by PID (-p) or started from the command
given after the flags, in which case procrec owns it and kills it on exit.

* GitHub: https://github.com/ja7ad/procrec

Examples:
  procrec -p 12345 -i 1s -d 1m --csv out.csv
  procrec -v -g -- stress --cpu 2 --timeout 20
  procrec --config procrec.toml --html report.html`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := config.Default()
			if cfgPath != "" {
				var err error
				if o, err = config.Load(cfgPath); err != nil {
					return err
				}
			}
			flags.Command = args
			o.Overlay(cmd.Flags(), flags)
			if err := o.Validate(); err != nil {
				return err
			}

			setupLogger(o.Verbose)
			return run(cmd.Context(), o, os.Stdout)
		},
	}

	// everything after the first positional argument belongs to the command
	root.Flags().SetInterspersed(false)
	config.BindFlags(root.Flags(), &flags)
	root.Flags().StringVar(&cfgPath, "config", "", "read options from a TOML file (flags win)")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
