package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API server.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>wordlink — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "wordlink", "version": "v1.0.0" },
  "paths": {
    "/api/documents": {
      "get": { "summary": "List stored .docx documents", "responses": { "200": { "description": "array of {id, name, url, size, modifiedAt}" }, "500": { "description": "Failed to read documents" } } },
      "post": {
        "summary": "Upload a .docx document",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"document":{"type":"string","format":"binary"}}}}}},
        "responses": { "200": { "description": "Document saved successfully" }, "400": { "description": "missing file or invalid name" }, "413": { "description": "too large" }, "415": { "description": "not a .docx" } }
      }
    },
    "/api/upload-document-with-metadata": {
      "post": {
        "summary": "Upload a .docx document with update metadata",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"document":{"type":"string","format":"binary"},"metadata":{"type":"string","description":"JSON {documentName, timestamp, eventType}"}}}}}},
        "responses": { "200": { "description": "Document saved successfully" }, "400": { "description": "invalid metadata or name" }, "413": { "description": "too large" }, "415": { "description": "not a .docx" } }
      }
    },
    "/api/documents/{name}": {
      "delete": { "summary": "Delete a document", "parameters": [{"name":"name","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/documents/{name}": {
      "get": { "summary": "Download a document", "parameters": [{"name":"name","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "docx bytes" }, "404": { "description": "not found" } } }
    },
    "/api/document-update": {
      "post": {
        "summary": "Record a document update",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"timestamp":{"type":"string"},"documentName":{"type":"string"},"contentLength":{"type":"integer"},"previousLength":{"type":"integer"},"currentLength":{"type":"integer"},"eventType":{"type":"string"}}}}}},
        "responses": { "200": { "description": "Update received" }, "400": { "description": "invalid payload" } }
      }
    },
    "/api/document-updates": {
      "get": { "summary": "List document updates", "parameters": [{"name":"documentName","in":"query","schema":{"type":"string"}},{"name":"limit","in":"query","schema":{"type":"integer"}}], "responses": { "200": { "description": "updates in receive order" } } }
    },
    "/api/check-word": { "get": { "summary": "Check whether Word is installed", "responses": { "200": { "description": "{installed}" } } } },
    "/api/check-addin": { "get": { "summary": "Check whether the add-in is registered", "responses": { "200": { "description": "{installed, needsInstallation, message}" } } } },
    "/api/install-addin": { "post": { "summary": "Install the add-in (elevated)", "responses": { "200": { "description": "{installed, justInstalled, message, manifestPath} or {installed:false, error, details}" } } } },
    "/api/verify-installation": { "get": { "summary": "Verify the add-in registration", "responses": { "200": { "description": "{installed, details}" } } } },
    "/api/me": { "get": { "summary": "Verified token claims", "responses": { "200": { "description": "claims" }, "401": { "description": "invalid token" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
