package api

import (
	"net/http"
	"time"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequireSession gates protected routes behind a live session. On success
// the admin identity and token are placed on the gin context; on failure
// the chain is aborted before any handler runs.
func RequireSession(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errCookie := c.Cookie(cookieName)
		if errCookie != nil || token == "" {
			respond.AbortError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		record, errGet := store.Get(c.Request.Context(), token)
		if errGet != nil {
			respond.AbortError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		c.Set("adminID", record.AdminID)
		c.Set("adminUsername", record.Username)
		c.Set("sessionToken", record.Token)
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("request")
	}
}

// Recovery converts panics into the contract's 500 envelope without leaking
// internals to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.WithFields(log.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"panic":  recovered,
				}).Error("handler panic")
				respond.AbortError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}
