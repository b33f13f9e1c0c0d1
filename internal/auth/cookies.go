package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token when the client
// does not use the Authorization header.
const SessionCookieName = "salespipe_session"

// CookieConfig controls the session cookie attributes. Secure should be true
// everywhere outside local development.
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

// SetSessionCookie attaches the session token as an HTTP-only, strict
// same-site cookie.
func SetSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionTTL
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, int(maxAge.Seconds()), "/", cfg.Domain, cfg.Secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", cfg.Domain, cfg.Secure, true)
}
