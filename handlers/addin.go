package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wordlink/wordlink/internal/addin"
)

// Installer is the add-in installation surface the handler needs.
type Installer interface {
	WordInstalled() bool
	CheckAddin(ctx context.Context) addin.CheckResult
	Install(ctx context.Context) addin.InstallResult
	Verify(ctx context.Context) addin.VerifyResult
}

// AddinHandler exposes Word and add-in checks and the installer.
type AddinHandler struct {
	inst Installer
}

func NewAddinHandler(inst Installer) *AddinHandler {
	return &AddinHandler{inst: inst}
}

// Register routes under /api. protect runs before the install route.
func (h *AddinHandler) Register(rg gin.IRouter, protect ...gin.HandlerFunc) {
	rg.GET("/check-word", h.CheckWord)
	rg.GET("/check-addin", h.CheckAddin)
	rg.POST("/install-addin", append(append([]gin.HandlerFunc{}, protect...), h.Install)...)
	rg.GET("/verify-installation", h.Verify)
}

func (h *AddinHandler) CheckWord(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"installed": h.inst.WordInstalled()})
}

func (h *AddinHandler) CheckAddin(c *gin.Context) {
	c.JSON(http.StatusOK, h.inst.CheckAddin(c.Request.Context()))
}

// Install always answers 200; failures are described in the body.
func (h *AddinHandler) Install(c *gin.Context) {
	c.JSON(http.StatusOK, h.inst.Install(c.Request.Context()))
}

func (h *AddinHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, h.inst.Verify(c.Request.Context()))
}
