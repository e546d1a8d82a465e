package api

import (
	"net/http"
	"strings"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireAuth resolves the caller from the "token" cookie or the
// Authorization header and stores the actor on the context. Handlers behind
// it trust the resolved (account, role) pair.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie("token")
		if err != nil || raw == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				raw = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Message: "not authorized, please log in"})
			return
		}

		actor, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Message: "not authorized, token is invalid"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole gates a route to the listed roles. Must run after RequireAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentActor(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response{Success: false, Message: "your role does not have access to this resource"})
	}
}

func currentActor(c *gin.Context) domain.Actor {
	actor, _ := c.Get(actorKey)
	a, _ := actor.(domain.Actor)
	return a
}
