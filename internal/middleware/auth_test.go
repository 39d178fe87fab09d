package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"neurohub/backend/internal/identity"
)

type fakeVerifier struct {
	tokens map[string]identity.Identity
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, idToken string) (identity.Identity, error) {
	id, ok := f.tokens[idToken]
	if !ok {
		return identity.Identity{}, errors.New("bad token")
	}
	return id, nil
}

func newTestRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(verifier), func(c *gin.Context) {
		id, ok := ForContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": id.UID})
	})
	return r
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newTestRouter(&fakeVerifier{tokens: map[string]identity.Identity{
		"good": {UID: "uid-alice", DisplayName: "Alice"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uid-alice")
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newTestRouter(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r := newTestRouter(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForContextWithoutMiddleware(t *testing.T) {
	_, ok := ForContext(context.Background())
	assert.False(t, ok)
}
