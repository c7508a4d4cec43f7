package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexandria-archive/backend/internal/auth"
)

// UserIDKey is the context key under which the authenticated subject is
// stored for downstream handlers.
const UserIDKey = "user_id"

// AuthMiddleware gates write operations behind a bearer token. Requests
// are authenticated statelessly, one by one: header presence, scheme,
// signature, then expiry against the current clock.
func AuthMiddleware(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing authorization header"})
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			// Wrong scheme is rejected before any token validation happens.
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "authorization header must use the Bearer scheme"})
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims.Expired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}
