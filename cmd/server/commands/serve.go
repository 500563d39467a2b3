package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/config"
	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/database"
	"github.com/mountainthreads/rental-ops/internal/handlers"
	"github.com/mountainthreads/rental-ops/internal/metrics"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/mountainthreads/rental-ops/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := database.GetDB()
			if !skipMigrate {
				if err := database.Migrate(db, app.Logger); err != nil {
					return err
				}
			}

			store, err := newSessionStore(app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			tmpl, err := web.Templates()
			if err != nil {
				return fmt.Errorf("failed to parse templates: %w", err)
			}

			m := metrics.New()
			groupRepo := repository.NewGroupRepository(db)
			crewRepo := repository.NewCrewRepository(db)
			submissionRepo := repository.NewSubmissionRepository(db)

			router := handlers.NewRouter(handlers.RouterConfig{
				Auth: services.NewAuthService(
					repository.NewAdminRepository(db),
					auth.NewTokenManager(app.Cfg.AuthSecret, constants.AuthTokenDuration),
				),
				Groups:        services.NewGroupService(groupRepo, m),
				Submissions:   services.NewSubmissionService(groupRepo, crewRepo, submissionRepo, m),
				Crews:         services.NewCrewService(crewRepo),
				Metrics:       m,
				Log:           app.Logger,
				SessionStore:  store,
				Templates:     tmpl,
				BaseURL:       app.Cfg.BaseURL,
				SecureCookies: app.Cfg.Secure(),
			})

			srv := &http.Server{
				Addr:              ":" + app.Cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("base_url", app.Cfg.BaseURL))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			app.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
	return cmd
}

// newSessionStore backs the public form drafts with Redis when configured,
// else with signed cookies.
func newSessionStore(cfg *config.Config, log *zap.Logger) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   cfg.Secure(),
		SameSite: http.SameSiteLaxMode,
	}

	if addr := cfg.RedisAddr(); addr != "" {
		store, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			addr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store.Options(options)
		log.Info("form drafts stored in redis", zap.String("addr", addr))
		return store, nil
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(options)
	log.Info("form drafts stored in cookies")
	return store, nil
}
