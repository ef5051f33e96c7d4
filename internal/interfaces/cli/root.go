// Package cli implements the tiradar command-line entry point: a root
// command carrying global flags plus the serve and migrate subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KingdaKilla/ti-radar/internal/config"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
}

// NewRootCommand creates the root cobra command with global flags and the
// serve/migrate subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "tiradar",
		Short:   "tiradar — technology-intelligence radar over patent, funding, and research signals",
		Long:    "tiradar analyses a named technology across patent filings, EU-funded\nresearch projects, and research-impact signals, producing a multi-panel\nlandscape, maturity, competitive, funding, and collaboration radar.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./tiradar.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(NewServeCommand(), NewMigrateCommand())

	return cmd
}

// persistentPreRun loads configuration, builds the logger, logs any
// soft-validation warnings, and stores the resulting CLIContext for
// subcommands to retrieve via GetCLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, warnings, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("configuration warning", logging.String("detail", w))
	}

	cliCtx := &CLIContext{Config: cfg, Logger: logger}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)

	return nil
}

// initConfig loads configuration from the flag-specified path, a default
// search path, or environment variables, in that order of preference.
func initConfig(opts *RootOptions) (*config.Config, []string, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	if _, statErr := os.Stat("./tiradar.yaml"); statErr == nil {
		return config.Load("./tiradar.yaml")
	}

	return config.LoadFromEnv()
}

// initLogger builds the service logger, translating internal/config's
// LogConfig shape (one Output string, a "text"/"json" Format enum) into
// internal/infrastructure/monitoring/logging's LogConfig shape (OutputPaths
// slice, a "console"/"json" Format enum).
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.Verbose {
		level = "debug"
	}

	format := "console"
	if strings.ToLower(cfg.Log.Format) == "json" {
		format = "json"
	}

	outputs := []string{"stderr"}
	if cfg.Log.Output != "" {
		outputs = []string{cfg.Log.Output}
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           format,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext populated by persistentPreRun from a
// cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("cli: command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("cli: CLIContext not found in command context")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return err
	}

	return nil
}
