package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wordlink/wordlink/pkg/middleware"
)

type claimsToken map[string]interface{}

func (t claimsToken) Claims(v interface{}) error {
	m := v.(*map[string]interface{})
	*m = t
	return nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	if raw != "goodtoken" {
		return nil, errors.New("bad token")
	}
	return claimsToken{"sub": "user-1", "name": "Alice"}, nil
}

func TestMe_WithVerifier(t *testing.T) {
	g := gin.New()
	NewAuthHandler(fakeVerifier{}).Register(g.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	g.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sub":"user-1"`)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer other")
	g.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_Disabled(t *testing.T) {
	g := gin.New()
	NewAuthHandler(nil).Register(g.Group("/api"))

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
