package middleware

import (
	"net/http"
	"strings"

	"stocksnap/token"

	"github.com/gin-gonic/gin"
)

// ContextEmailKey is the gin context key under which RequireAuth stores the
// authenticated user's email.
const ContextEmailKey = "email"

// RequireAuth verifies the bearer access token and puts the caller's email
// into the request context for downstream handlers.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := token.Parse(tokenString, token.TypeAccess, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}
