package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/cliconfig"
	"github.com/cubetools/wcacheck/internal/export"
)

var (
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// Execute builds the command tree and runs it.
func Execute() error {
	cfg = cliconfig.DefaultConfig()
	log = cliconfig.Logger()

	root := &cobra.Command{
		Use:          "wcacheck",
		Short:        "Consistency checks and statistics for WCA database exports",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.wcacheck/config.toml),
			// then environment, with explicitly set flags winning.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			return cfg.Validate()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.wcacheck/config.toml)")
	root.PersistentFlags().StringVar(&cfg.ExportPath, "export", cfg.ExportPath, "database export: TSV directory, zip bundle, or SQLite file")
	root.PersistentFlags().StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "write reports to timestamped files in this directory")

	root.AddCommand(namesCmd(), roundsCmd(), recordsCmd(), scramblesCmd(), podiumsCmd(), staffCmd())
	return root.Execute()
}

// addWatchFlags registers the re-run flags on the audit subcommands.
func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-run the check when the export changes")
	cmd.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay before re-running after a change")
}

// runWatched runs fn once, or in a loop over export changes with --watch.
func runWatched(cmd *cobra.Command, fn func() error) error {
	if !cfg.Watch {
		return fn()
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	err := audit.Watch(ctx, cfg.ExportPath, cfg.Debounce, log, fn)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openExport validates the export path and opens a loader over it.
func openExport() (export.Loader, error) {
	if err := cfg.RequireExport(); err != nil {
		return nil, err
	}
	l, err := export.Open(cfg.ExportPath)
	if err != nil {
		return nil, err
	}
	export.SetLogger(l, log)
	return l, nil
}

func reporter() *audit.Reporter {
	return &audit.Reporter{OutputDir: cfg.OutputDir}
}

// reportViolations renders a rule's findings and logs the run summary.
func reportViolations(rule string, violations []audit.Violation, skipped int) error {
	path, err := reporter().Render(rule, violations)
	if err != nil {
		return err
	}
	ev := log.Info().Str("rule", rule).Int("violations", len(violations))
	if skipped > 0 {
		ev = ev.Int("skipped_rows", skipped)
	}
	if path != "" {
		ev = ev.Str("report", path)
	}
	ev.Msg("check complete")
	return nil
}
