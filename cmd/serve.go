package cmd

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/cook-platform/router"
	"github.com/yeremiapane/cook-platform/storage"
	"github.com/yeremiapane/cook-platform/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := setup()
		if err != nil {
			return err
		}

		if cfg.Server.GinMode == gin.ReleaseMode {
			gin.SetMode(gin.ReleaseMode)
		}

		store, err := storage.New(context.Background(), cfg.Storage)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}

		r, err := router.SetupRouter(db, cfg, store)
		if err != nil {
			return err
		}

		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		return r.Run(":" + cfg.Server.Port)
	},
}
