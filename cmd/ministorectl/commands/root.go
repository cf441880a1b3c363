package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/database"
)

var (
	dbURL      string
	jsonOutput bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ministorectl",
	Short: "Operator tooling for the mini store backend",
	Long: `ministorectl runs maintenance tasks against the store's database,
cache and search index.

Examples:
  ministorectl migrate
  ministorectl seed-admin --username admin
  ministorectl reindex
  ministorectl external-products
  ministorectl import-products --id 1 --id 2`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DB_DSN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for the command")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func openDB() (*sql.DB, error) {
	dsn := dbURL
	if dsn == "" {
		dsn = config.LoadDBConfig("").DSN
	}
	return database.Connect(dsn)
}
