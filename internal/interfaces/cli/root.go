// Package cli implements the rxndb command-line interface.  The root command
// loads configuration and a logger once; subcommands either assemble a local
// explorer over the configured dataset or run the API server.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/database/postgres"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/dataset"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
}

// cliContext carries the initialised dependencies through the command tree.
type cliContext struct {
	cfg        *config.Config
	configPath string
	logger     logging.Logger
	output     string
}

type cliContextKey struct{}

// NewRootCommand creates the root command with global flags and every
// subcommand mounted.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "rxndb",
		Short:   "rxndb-explorer CLI for browsing a phase-equilibria reaction database",
		Long:    "rxndb explores a database of metamorphic reactions: filter by reactant and\nproduct phases, group similar reactions, and manage the underlying dataset.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "table", "output format (table, json)")

	cmd.AddCommand(
		newServeCmd(),
		newPhasesCmd(),
		newFilterCmd(),
		newGroupsCmd(),
		newPreprocessCmd(),
		newImportCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            strings.ToLower(opts.LogLevel),
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &cliContext{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		logger:     logger,
		output:     strings.ToLower(opts.Output),
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// getContext extracts the cliContext installed by persistentPreRun.
func getContext(cmd *cobra.Command) (*cliContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*cliContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLI context not initialized")
	}
	return cliCtx, nil
}

// newRepository selects the dataset backend configured under dataset.source.
// The returned cleanup is non-nil and must be called when the repository is
// no longer needed.
func newRepository(ctx context.Context, cliCtx *cliContext) (repo reaction.Repository, cleanup func(), err error) {
	cleanup = func() {}
	switch cliCtx.cfg.Dataset.Source {
	case "postgres":
		conn, err := postgres.NewConnection(ctx, cliCtx.cfg.Database, cliCtx.logger)
		if err != nil {
			return nil, cleanup, err
		}
		return postgres.NewReactionRepository(conn), func() { _ = conn.Close() }, nil
	default:
		r, err := dataset.NewYAMLRepository(cliCtx.cfg.Dataset.Dirs, cliCtx.logger)
		if err != nil {
			return nil, cleanup, err
		}
		return r, cleanup, nil
	}
}

// newLocalService assembles an in-process explorer over the configured
// dataset.  Cache, publisher, and metrics stay disabled; the CLI answers from
// a single load.
func newLocalService(ctx context.Context, cliCtx *cliContext) (*explorer.Service, func(), error) {
	repo, cleanup, err := newRepository(ctx, cliCtx)
	if err != nil {
		return nil, cleanup, err
	}
	svc, err := explorer.NewService(ctx, repo, cliCtx.cfg.Explorer, cliCtx.logger,
		explorer.WithAllowEmpty(cliCtx.cfg.Dataset.AllowEmpty),
		explorer.WithSource(cliCtx.cfg.Dataset.Source),
	)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return svc, cleanup, nil
}

// Execute is the CLI entry point.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return err
	}
	return nil
}
