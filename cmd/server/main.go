package main

import (
	"fmt"
	"os"

	"billcraft-backend/internal/config"
	"billcraft-backend/internal/database"
	"billcraft-backend/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billcraft",
	Short: "BillCraft invoicing API",
	Long: `BillCraft serves the invoice editor API: drafts, invoice numbering,
the client directory, PDF and spreadsheet export.

Without a subcommand the HTTP server is started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, renderCmd)
}

// setup loads the configuration and installs the global logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger kurulamadı: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		lg := logger.WithComponent("cmd")
		lg.Error().Err(err).Msg("komut başarısız")
		os.Exit(1)
	}
}
