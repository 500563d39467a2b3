package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/constants"
)

// SetTokenCookie stores the session token as an HttpOnly, SameSite=Lax cookie.
func SetTokenCookie(c *gin.Context, token string, maxAgeSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.AuthCookieName, token, maxAgeSeconds, "/", "", secure, true)
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.AuthCookieName, "", -1, "/", "", secure, true)
}

// TokenFromRequest reads the session cookie, or "" when absent.
func TokenFromRequest(c *gin.Context) string {
	token, err := c.Cookie(constants.AuthCookieName)
	if err != nil {
		return ""
	}
	return token
}
