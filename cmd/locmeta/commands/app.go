// Package commands implements CLI command handlers for locmeta.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/analytics"
	"github.com/Sumatoshi-tech/locmeta/internal/config"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/version"
)

// Persistent flag names registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
	FlagNoColor = "no-color"
)

// Output formats shared by stats and select.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const stdoutPath = "-"

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// AddPersistentFlags registers the flags every subcommand reads.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String(FlagConfig, "", "config file (default: locmeta.yaml in ., ./config, ~/.config/locmeta)")
	root.PersistentFlags().BoolP(FlagVerbose, "v", false, "verbose output")
	root.PersistentFlags().BoolP(FlagQuiet, "q", false, "suppress output")
	root.PersistentFlags().Bool(FlagNoColor, false, "disable colored output")
}

// app is the per-invocation runtime: loaded config, telemetry, and the
// logger every component shares.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	metrics   *observability.AnalyticsMetrics
	quiet     bool
}

func newApp(cmd *cobra.Command, mode observability.AppMode) (*app, error) {
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	verbose, _ := cmd.Flags().GetBool(FlagVerbose)
	quiet, _ := cmd.Flags().GetBool(FlagQuiet)
	noColor, _ := cmd.Flags().GetBool(FlagNoColor)

	if noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.Observability(mode, version.Version)

	switch {
	case verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewAnalyticsMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), obsCfg)
	slog.SetDefault(logger)

	return &app{cfg: cfg, providers: providers, logger: logger, metrics: metrics, quiet: quiet}, nil
}

func (a *app) close() {
	err := a.providers.Shutdown(context.Background())
	if err != nil {
		a.logger.Warn("observability shutdown failed", "error", err)
	}
}

// analyticsOptions maps the config onto the analytics pipeline. A non-empty
// theme overrides plot.theme.
func (a *app) analyticsOptions(theme string) []analytics.Option {
	if theme == "" {
		theme = a.cfg.Plot.Theme
	}

	opts := []analytics.Option{
		analytics.WithLogger(a.logger),
		analytics.WithTheme(plotpage.ParseTheme(theme)),
		analytics.WithDimensions(a.cfg.Plot.Dimensions()),
		analytics.WithURLPrefix(a.cfg.Source.URLPrefix),
		analytics.WithMetrics(a.metrics),
		analytics.WithLoadOptions(loclog.WithTimeout(a.cfg.Source.Timeout)),
	}

	if !a.cfg.Plot.Jitter {
		opts = append(opts, analytics.WithJitter(nil))
	}

	return opts
}

// status prints a colored one-line status message unless --quiet is set.
func (a *app) status(w io.Writer, attr color.Attribute, format string, args ...any) {
	if a.quiet {
		return
	}

	_, _ = color.New(attr).Fprintf(w, format+"\n", args...)
}

// openOutput returns path for writing, or stdout for "-" or "".
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == stdoutPath {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}

	return f, f.Close, nil
}

func checkFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (want table, json or yaml)", ErrUnknownFormat, format)
	}
}
