package commands

import (
	"fmt"

	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/database"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// SeedAdminCmd creates the seed-admin command. Running it again for the same
// email resets that admin's password.
func SeedAdminCmd(app *AppContext) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create a staff account or reset its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := database.GetDB()
			if err := database.Migrate(db, app.Logger); err != nil {
				return err
			}

			authService := services.NewAuthService(
				repository.NewAdminRepository(db),
				auth.NewTokenManager(app.Cfg.AuthSecret, constants.AuthTokenDuration),
			)

			admin, err := authService.SeedAdmin(services.SeedAdminInput{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return fmt.Errorf("failed to seed admin: %w", err)
			}

			app.Logger.Info("admin ready", zap.String("id", admin.ID), zap.String("email", admin.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&password, "password", "", fmt.Sprintf("Admin password, at least %d characters (required)", constants.MinPasswordLength))
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
