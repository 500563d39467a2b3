package commands

import (
	"github.com/mountainthreads/rental-ops/internal/database"
	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.Migrate(database.GetDB(), app.Logger)
		},
	}
}
