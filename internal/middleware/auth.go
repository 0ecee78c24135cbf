package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatehub/internal/models"
)

// ActorKey is the context key for the authenticated actor.
const ActorKey = "actor"

// TokenParser resolves a bearer token to the actor it was issued for.
type TokenParser interface {
	Parse(token string) (models.Actor, error)
}

// Authenticate resolves the Authorization header into a models.Actor.
// Requests without a header proceed as the anonymous actor; a header that
// is present but unusable is rejected with 401.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(ActorKey, models.Actor{})
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must be a bearer token")
			return
		}

		actor, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{
					"error": err.Error(),
				})
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		c.Set(ActorKey, actor)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithActor(actor.ID, string(actor.Role)))
		}
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetActor(c).Authenticated() {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		c.Next()
	}
}

// ProfileLookup resolves a user id to its stored profile.
type ProfileLookup interface {
	FindUser(ctx context.Context, id string) (*models.UserProfile, error)
}

// RequireAdmin rejects requests whose actor is not an admin. The stored
// profile is authoritative; the role carried in the token is not trusted.
func RequireAdmin(profiles ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if !actor.Authenticated() {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		profile, err := profiles.FindUser(c.Request.Context(), actor.ID)
		if err != nil || profile.Role != models.RoleAdmin {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		c.Next()
	}
}

// GetActor retrieves the actor from the Gin context.
// Returns the anonymous actor if none was stored.
func GetActor(c *gin.Context) models.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}
