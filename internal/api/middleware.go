// Package api - middleware
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/aethra/docflow/internal/auth"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ctxIdentity = "identity"
	ctxUser     = "current_user"
)

// RequireAuth validates the Bearer token and loads the acting user. The
// identity the token carries is trusted verbatim; a user row that no
// longer exists leaves the actor absent but the request authenticated.
func RequireAuth(jwtService *auth.JWTService, store *engine.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "missing bearer token"})
			c.Abort()
			return
		}

		identity, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxIdentity, identity)
		if user, err := store.UserByPublicID(identity.PublicUserID); err == nil {
			c.Set(ctxUser, user)
		}
		c.Next()
	}
}

// currentUser returns the acting user, or nil when the identity no
// longer resolves to a stored user.
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequestLogger emits one structured log line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
