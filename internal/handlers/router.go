package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/constants"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/metrics"
	"github.com/mountainthreads/rental-ops/internal/middleware"
	"github.com/mountainthreads/rental-ops/internal/services"
	"go.uber.org/zap"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Auth          *services.AuthService
	Groups        *services.GroupService
	Submissions   *services.SubmissionService
	Crews         *services.CrewService
	Metrics       *metrics.Metrics
	Log           *zap.Logger
	SessionStore  sessions.Store
	Templates     *template.Template
	BaseURL       string
	SecureCookies bool
}

// NewRouter wires every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(cfg.Log), middleware.RequestLogger(cfg.Log), middleware.Metrics(cfg.Metrics))
	r.SetHTMLTemplate(cfg.Templates)

	authHandler := NewAuthHandler(cfg.Auth, cfg.SecureCookies, cfg.Log)
	groupHandler := NewGroupHandler(cfg.Groups, cfg.BaseURL, cfg.Log)
	submissionHandler := NewSubmissionHandler(cfg.Submissions, cfg.Log)
	crewHandler := NewCrewHandler(cfg.Crews, cfg.Log)
	catalogHandler := NewCatalogHandler()
	pageHandler := NewPageHandler(cfg.Groups, cfg.BaseURL, cfg.Log)
	wizardHandler := NewWizardHandler(cfg.Submissions, cfg.Log)

	// Ops
	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	// Staff pages
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET("/login", middleware.RedirectIfAuthenticated(cfg.Auth), pageHandler.Login)
	staff := r.Group("")
	staff.Use(middleware.RequirePageAuth(cfg.Auth))
	{
		staff.GET("/dashboard", pageHandler.Dashboard)
		staff.GET("/groups", pageHandler.Groups(false))
		staff.GET("/groups/:id", pageHandler.GroupDetail)
		staff.GET("/archived", pageHandler.Groups(true))
	}

	// Public forms
	public := r.Group("/group/:slug")
	public.Use(sessions.Sessions(constants.FormSessionName, cfg.SessionStore))
	{
		loadPage := middleware.LoadGroupBySlug(cfg.Groups, cfg.Log, pageHandler.NotFound, func(c *gin.Context) {
			pageHandler.ServerError(c, errGroupLookup)
		})
		loadAPI := middleware.LoadGroupBySlug(cfg.Groups, cfg.Log,
			func(c *gin.Context) { apierrors.NotFound(c, "Group not found") },
			func(c *gin.Context) { apierrors.InternalError(c, "") },
		)

		public.GET("", loadPage, pageHandler.PublicForm(false))
		public.GET("/leader", loadPage, pageHandler.PublicForm(true))
		public.GET("/fields", loadAPI, wizardHandler.Fields)
		public.POST("/submit", loadAPI, wizardHandler.Submit)
		public.GET("/draft", loadAPI, wizardHandler.Draft)
	}

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", middleware.RequireAdmin(cfg.Auth), authHandler.GetCurrentAdmin)
		}

		// Catalog routes (public)
		api.GET("/catalog", catalogHandler.GetCatalog)
		api.GET("/catalog/size-guides/:clothingType/:item", catalogHandler.GetSizeGuide)

		// Public form submissions
		api.POST("/submissions", submissionHandler.CreateSubmission)

		// Group routes (protected)
		groups := api.Group("/groups")
		groups.Use(middleware.RequireAdmin(cfg.Auth))
		{
			groups.GET("", groupHandler.ListGroups)
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/stats", groupHandler.Stats)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.PATCH("/:id", groupHandler.UpdateGroup)
			groups.DELETE("/:id", groupHandler.DeleteGroup)
			groups.POST("/:id/archive", groupHandler.ArchiveGroup)
			groups.POST("/:id/restore", groupHandler.RestoreGroup)
		}

		// Submission routes (protected)
		submissions := api.Group("/submissions")
		submissions.Use(middleware.RequireAdmin(cfg.Auth))
		{
			submissions.PATCH("/:id", submissionHandler.UpdateSubmission)
			submissions.DELETE("/:id", submissionHandler.DeleteSubmission)
		}

		// Crew routes (protected)
		crews := api.Group("/crews")
		crews.Use(middleware.RequireAdmin(cfg.Auth))
		{
			crews.PATCH("/:id", crewHandler.RenameCrew)
			crews.DELETE("/:id", crewHandler.DeleteCrew)
		}
	}

	return r
}
