package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/leveler"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	rules   string
	secret  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "leveler",
		Short: "Offline evidence sealing, verification, and integrity analysis",
		Long: `leveler works on case snapshot files: JSON documents holding a case,
its statements, and the evidence labels expected for it.

  leveler hash exhibit.pdf
  leveler seal case.json -o sealed.json
  leveler verify sealed.json
  leveler analyze sealed.json other.json

The seal key is derived from VERUM_SEAL_SECRET (or --secret) the same way
the service derives it, so files sealed here verify there.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.rules, "rules", "", "Path to a YAML rule set (default: embedded rules)")
	pf.StringVar(&flags.secret, "secret", "", "Seal secret (default: $VERUM_SEAL_SECRET)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log stage summaries to stderr")

	root.AddCommand(
		newHashCmd(),
		newSealCmd(flags),
		newVerifyCmd(flags),
		newAnalyzeCmd(flags),
	)
	return root
}

func (f *rootFlags) logger() *slog.Logger {
	if !f.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (f *rootFlags) sealer() (*evidence.Sealer, error) {
	cfg := config.SealConfig{}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("seal config: %w", err)
	}
	if f.secret != "" {
		cfg.Secret = f.secret
	}
	f.logger().Debug("seal key configured", "source", cfg.Source())
	return evidence.NewSealer(cfg.Keys())
}

func (f *rootFlags) leveler() (*leveler.Leveler, error) {
	cfg := config.LevelerConfig{RulesFile: f.rules}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	return leveler.New(rules, leveler.WithLogger(f.logger().With("system", "leveler"))), nil
}
