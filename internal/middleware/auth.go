package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"neurohub/backend/internal/identity"

	"github.com/gin-gonic/gin"
)

// A private key for context access
type contextKey string

const identityContextKey = contextKey("identity")

// TokenVerifier is satisfied by identity.Provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (identity.Identity, error)
}

// AuthMiddleware creates a middleware that verifies Firebase ID tokens and
// stores the resulting Identity in the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		id, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("[Auth] Error verifying ID token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), identityContextKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the caller identity in the context. The zero Identity is
// returned when the request did not pass through AuthMiddleware.
func ForContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(identity.Identity)
	return id, ok
}
