package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/cmd/server/commands"
	"github.com/mountainthreads/rental-ops/internal/config"
	"github.com/mountainthreads/rental-ops/internal/database"
	"github.com/mountainthreads/rental-ops/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Mountain Threads rental operations server",
		Long:          `Serves the staff dashboard, the public rental forms and the JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.SeedAdminCmd(app))

	if err := rootCmd.Execute(); err != nil {
		if app.Logger != nil {
			app.Logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// initApp loads configuration, builds the logger and connects to the database.
func initApp(app *commands.AppContext) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	gin.SetMode(cfg.GinMode)

	app.Logger, err = logging.InitLogger(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Connect(cfg, app.Logger); err != nil {
		return err
	}
	return nil
}
