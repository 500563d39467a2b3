// Package commands holds the server's cobra subcommands.
package commands

import (
	"github.com/mountainthreads/rental-ops/internal/config"
	"go.uber.org/zap"
)

// AppContext holds what every subcommand needs once the root command has
// loaded configuration and connected to the database.
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
}
