package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"foodhub/auth"
	"foodhub/services"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"dur", time.Since(start),
		)
	}
}

// requireRole verifies the identity provider's bearer token and stows the
// resulting actor in the request context.
func requireRole(secret, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := auth.ParseToken(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		switch claims.Role {
		case auth.RoleAdmin:
			c.Set(actorKey, services.AdminActor(claims.Subject))
		case auth.RoleRider:
			c.Set(actorKey, services.RiderActor(claims.RiderID))
		default:
			c.Set(actorKey, services.CustomerActor(claims.Phone))
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(services.Actor); ok {
			return a
		}
	}
	return services.Actor{}
}
