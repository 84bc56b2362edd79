package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wordlink/wordlink/internal/updates"
	"github.com/wordlink/wordlink/pkg/logger"
)

// UpdateRequest accepts both payload shapes sent by the editor clients.
type UpdateRequest struct {
	Timestamp      string `json:"timestamp"`
	DocumentName   string `json:"documentName"`
	ContentLength  *int64 `json:"contentLength"`
	PreviousLength *int64 `json:"previousLength"`
	CurrentLength  *int64 `json:"currentLength"`
	EventType      string `json:"eventType"`
}

// UpdatesHandler serves the document-update telemetry log.
type UpdatesHandler struct {
	svc *updates.Service
}

func NewUpdatesHandler(svc *updates.Service) *UpdatesHandler {
	return &UpdatesHandler{svc: svc}
}

// Register routes under /api. protect runs before the POST route.
func (h *UpdatesHandler) Register(rg gin.IRouter, protect ...gin.HandlerFunc) {
	rg.POST("/document-update", append(append([]gin.HandlerFunc{}, protect...), h.Post)...)
	rg.GET("/document-updates", h.List)
}

func (h *UpdatesHandler) Post(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload", "details": err.Error()})
		return
	}
	u, err := h.svc.Record(c.Request.Context(), &updates.Update{
		Timestamp:      req.Timestamp,
		DocumentName:   req.DocumentName,
		ContentLength:  req.ContentLength,
		PreviousLength: req.PreviousLength,
		CurrentLength:  req.CurrentLength,
		EventType:      req.EventType,
	})
	if err != nil {
		logger.Errorf("record update: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record update", "details": err.Error()})
		return
	}
	logger.Infof("document updated: name=%q event=%s", u.DocumentName, u.EventType)
	c.JSON(http.StatusOK, gin.H{"message": "Update received", "update": u})
}

func (h *UpdatesHandler) List(c *gin.Context) {
	f := updates.Filter{DocumentName: c.Query("documentName")}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": "limit must be a positive integer"})
			return
		}
		f.Limit = n
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		logger.Errorf("list updates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read updates", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}
