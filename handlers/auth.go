package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wordlink/wordlink/pkg/middleware"
)

// AuthHandler lets the SPA confirm that the bearer token it obtained is
// accepted here and see which claims the server read from it.
type AuthHandler struct {
	ver middleware.Verifier
}

func NewAuthHandler(ver middleware.Verifier) *AuthHandler {
	return &AuthHandler{ver: ver}
}

// Register routes under /api. Without a verifier /me reports that
// authentication is disabled.
func (h *AuthHandler) Register(rg gin.IRouter) {
	if h.ver == nil {
		rg.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"authenticated": false, "message": "authentication disabled"})
		})
		return
	}
	rg.GET("/me", middleware.AuthMiddleware(h.ver), h.Me)
}

// Me returns the verified claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := c.Get(middleware.ClaimsKey)
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "claims": claims})
}
