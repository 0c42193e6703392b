package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/cook-platform/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := setup(); err != nil {
			return err
		}
		utils.InfoLogger.Println("AutoMigrate completed.")
		return nil
	},
}
