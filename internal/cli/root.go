// Package cli implements fileboard-cli, the operator tool for password
// hashes, migrations, the settings store, offline listing inspection and
// the MCP stdio server.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/config"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dsn        string
	logLevel   string
}

// NewRootCmd builds the command tree. Every call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "fileboard-cli",
		Short:   "Operator tool for the fileboard dashboard",
		Version: common.Version,
		Long: `fileboard-cli manages the dashboard's settings store and config,
and inspects remote file listings without running the server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the server JSON config file")
	rootCmd.PersistentFlags().StringVarP(&opts.dsn, "dsn", "d", "", "database DSN, overrides the config file")
	rootCmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newHashPasswordCmd(),
		newMigrateCmd(opts),
		newSettingsCmd(opts),
		newInspectCmd(opts),
		newMCPCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI over os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// config layers the server config file under the command-line overrides.
func (o *rootOptions) config() (*config.Config, error) {
	var args []string
	if o.configPath != "" {
		args = []string{"-c", o.configPath}
	}
	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// logger writes to w, which is stderr for every command: stdout carries
// results and, for mcp, the protocol itself.
func (o *rootOptions) logger(cfg *config.Config, w io.Writer) logging.Logger {
	return logging.NewText(w, cfg.LogLevel)
}

// openStore connects to the configured settings store and migrates it.
func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, rm, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, rm, nil
}
