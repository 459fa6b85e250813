package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/edurisk/internal/config"
	"github.com/crimson-sun/edurisk/internal/logging"

	// Register connector implementations.
	_ "github.com/crimson-sun/edurisk/internal/connector/file"
	_ "github.com/crimson-sun/edurisk/internal/connector/stdin"
)

type rootFlags struct {
	configPath   string
	logLevel     string
	pretty       bool
	augmentModel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "edurisk: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		cfg   config.Config
	)
	root := &cobra.Command{
		Use:           "edurisk",
		Short:         "Ingest student records and score dropout risk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, &loaded)
			cfg = loaded
			logging.Init(cfg.Output.Kind == "stdout", logging.ParseLevel(cfg.Log.Level))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file (default $EDURISK_CONFIG)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	pf.StringVar(&flags.augmentModel, "augment-model", "", "augment model file (.onnx or .safetensors)")

	root.AddCommand(
		newIngestCmd(&cfg),
		newScoreCmd(&cfg),
		newAssessCmd(&cfg),
	)
	return root
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, f rootFlags, cfg *config.Config) {
	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if pf.Changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if pf.Changed("augment-model") {
		cfg.Engine.AugmentModel = f.augmentModel
	}
}
