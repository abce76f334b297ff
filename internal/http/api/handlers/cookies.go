package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls how the session cookie is issued.
type CookieOptions struct {
	Name   string        // Cookie name.
	Domain string        // Cookie domain, empty for host-only.
	Secure bool          // Secure flag, set in production.
	TTL    time.Duration // Cookie and session lifetime.
}

// setSessionCookie attaches the session token to the response.
func setSessionCookie(c *gin.Context, opts CookieOptions, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, token, int(opts.TTL.Seconds()), "/", opts.Domain, opts.Secure, true)
}

// clearSessionCookie instructs the client to drop the session cookie.
func clearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, "", -1, "/", opts.Domain, opts.Secure, true)
}
