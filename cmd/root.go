// Package cmd holds the management commands: serve, migrate and
// createsuperuser.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/cook-platform/config"
	"github.com/yeremiapane/cook-platform/database"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "cook-platform",
	Short:         "Book home cooks for private dinners",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createSuperuserCmd)
}

// Execute runs the command line; serve is the default.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration, the loggers and a migrated database.
func setup() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Printf("Invalid configuration: %v", err)
		return nil, nil, err
	}
	if cfg.Auth.SecretKey == config.DefaultSecretKey {
		utils.InfoLogger.Warn("Running with the development SECRET_KEY; set SECRET_KEY before deploying")
	}
	utils.ConfigureTokens(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, db, nil
}
