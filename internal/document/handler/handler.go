package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wordlink/wordlink/internal/document"
	"github.com/wordlink/wordlink/internal/document/service"
	"github.com/wordlink/wordlink/pkg/logger"
)

// multipartSlack covers multipart framing and the metadata part on top of the file itself.
const multipartSlack = 1 << 20

type documentHandler struct {
	svc *service.Service
}

// RegisterDocumentRoutes mounts the document endpoints. protect runs before
// the mutating routes (upload and delete); it may be empty.
func RegisterDocumentRoutes(r gin.IRouter, svc *service.Service, protect ...gin.HandlerFunc) {
	h := &documentHandler{svc: svc}

	r.GET("/api/documents", h.list)
	r.GET("/documents/:name", h.download)
	r.HEAD("/documents/:name", h.download)

	r.POST("/api/documents", chain(protect, h.upload(false))...)
	r.POST("/api/upload-document-with-metadata", chain(protect, h.upload(true))...)
	r.DELETE("/api/documents/:name", chain(protect, h.delete)...)
}

func chain(pre []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(pre)+1)
	return append(append(out, pre...), h)
}

func (h *documentHandler) list(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("list documents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read documents", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *documentHandler) download(c *gin.Context) {
	name := c.Param("name")
	rc, info, err := h.svc.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		logger.Errorf("open document %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read document", "details": err.Error()})
		return
	}
	defer rc.Close()
	disposition := mime.FormatMediaType("inline", map[string]string{"filename": info.Name})
	if disposition == "" {
		disposition = "inline"
	}
	c.DataFromReader(http.StatusOK, info.Size, document.DocxContentType, rc, map[string]string{
		"Content-Disposition": disposition,
		"Last-Modified":       info.ModifiedAt.UTC().Format(http.TimeFormat),
	})
}

func (h *documentHandler) upload(withMetadata bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max := h.svc.MaxBytes(); max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+multipartSlack)
		}
		fh, err := c.FormFile("document")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Document too large", "details": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded", "details": err.Error()})
			return
		}

		var meta document.UploadMetadata
		if raw := c.PostForm("metadata"); withMetadata && raw != "" {
			if err := json.Unmarshal([]byte(raw), &meta); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata", "details": err.Error()})
				return
			}
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload", "details": err.Error()})
			return
		}
		defer f.Close()

		doc, upd, err := h.svc.Upload(c.Request.Context(), fh.Filename, f, fh.Size, meta)
		if err != nil {
			status := http.StatusInternalServerError
			summary := "Failed to save document"
			switch {
			case errors.Is(err, service.ErrInvalidName):
				status, summary = http.StatusBadRequest, "Invalid document name"
			case errors.Is(err, service.ErrUnsupportedType):
				status, summary = http.StatusUnsupportedMediaType, "Only .docx documents are accepted"
			case errors.Is(err, service.ErrTooLarge):
				status, summary = http.StatusRequestEntityTooLarge, "Document too large"
			default:
				logger.Errorf("upload %s: %v", fh.Filename, err)
			}
			c.JSON(status, gin.H{"error": summary, "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document saved successfully", "document": doc, "update": upd})
	}
}

func (h *documentHandler) delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.svc.Delete(c.Request.Context(), name); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		logger.Errorf("delete document %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
