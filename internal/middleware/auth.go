package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/constants"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
)

// Authenticator resolves the session cookie's token.
type Authenticator interface {
	Authenticate(token string) (*models.Admin, error)
	ValidToken(token string) bool
}

// RequireAdmin checks the session cookie against a stored admin. API routes
// answer 401 JSON when it is missing or stale.
func RequireAdmin(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c)
		if token == "" {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		admin, err := a.Authenticate(token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, "Not authenticated")
				return
			}
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		// Store admin ID in context for easy access in handlers
		c.Set(constants.ContextAdminIDKey, admin.ID)
		c.Next()
	}
}

// RequirePageAuth gates the staff pages on a valid token, redirecting to the
// login page with the requested path in "from".
func RequirePageAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.ValidToken(auth.TokenFromRequest(c)) {
			c.Redirect(http.StatusFound, "/login?from="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in staff from the login page to the dashboard.
func RedirectIfAuthenticated(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.ValidToken(auth.TokenFromRequest(c)) {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAdminID retrieves the current admin ID from context
func GetAdminID(c *gin.Context) (string, bool) {
	adminID, exists := c.Get(constants.ContextAdminIDKey)
	if !exists {
		return "", false
	}
	id, ok := adminID.(string)
	return id, ok && id != ""
}
