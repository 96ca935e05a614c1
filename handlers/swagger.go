package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
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
    <title>codesync-interviews - Swagger</title>
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
  "info": { "title": "codesync-interviews", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/api/v1/users": { "get": { "summary": "List all users", "responses": { "200": { "description": "users" }, "304": { "description": "not modified" } } } },
    "/api/v1/users/{identity}": { "get": { "summary": "Find a user by identity (null when absent)", "parameters": [{"name":"identity","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "user or null" } } } },
    "/api/v1/users/sync": {
      "post": {
        "summary": "Idempotent self registration on session start",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","name"],"properties":{"email":{"type":"string"},"name":{"type":"string"},"image":{"type":"string"}}}}}},
        "responses": { "200": { "description": "user id" } }
      }
    },
    "/api/v1/me": { "get": { "summary": "Current user", "responses": { "200": { "description": "user" } } } },
    "/api/v1/interviews": {
      "get": { "summary": "List all interviews (interviewers only)", "responses": { "200": { "description": "interviews" }, "403": { "description": "not an interviewer" } } },
      "post": {
        "summary": "Schedule an interview and allocate its call",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","startTime","candidateId"],"properties":{"title":{"type":"string"},"description":{"type":"string"},"startTime":{"type":"string","format":"date-time"},"candidateId":{"type":"string"},"interviewerIds":{"type":"array","items":{"type":"string"}}}}}}},
        "responses": { "201": { "description": "interview" }, "400": { "description": "validation error" }, "502": { "description": "video provider failure" } }
      }
    },
    "/api/v1/interviews/mine": { "get": { "summary": "Interviews of the calling candidate", "responses": { "200": { "description": "interviews" } } } },
    "/api/v1/interviews/grouped": { "get": { "summary": "Interviews bucketed into succeeded, failed, completed and upcoming", "responses": { "200": { "description": "groups" } } } },
    "/api/v1/interviews/{id}": { "get": { "summary": "Interview with display state and participants", "responses": { "200": { "description": "interview or null" } } } },
    "/api/v1/interviews/by-call/{callRef}": { "get": { "summary": "Interview by call reference", "responses": { "200": { "description": "interview or null" } } } },
    "/api/v1/interviews/{id}/status": {
      "patch": {
        "summary": "Update interview status (interviewers only)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["status"],"properties":{"status":{"type":"string","enum":["upcoming","completed","succeeded","failed"]}}}}}},
        "responses": { "200": { "description": "interview" }, "404": { "description": "not found" }, "409": { "description": "illegal transition" } }
      }
    },
    "/api/v1/interviews/{id}/comments": {
      "get": { "summary": "Comments on an interview, oldest first", "responses": { "200": { "description": "comments" } } },
      "post": {
        "summary": "Add a comment",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"content":{"type":"string"},"rating":{"type":"integer","minimum":1,"maximum":5}}}}}},
        "responses": { "201": { "description": "comment" }, "400": { "description": "validation error" }, "404": { "description": "interview not found" } }
      }
    },
    "/api/v1/interviews/{id}/recordings": { "get": { "summary": "Call recordings with presigned URLs", "responses": { "200": { "description": "recordings" }, "503": { "description": "storage not configured" } } } },
    "/api/v1/video/token": { "post": { "summary": "Issue a video provider user token", "responses": { "200": { "description": "token" } } } },
    "/ws": { "get": { "summary": "Websocket subscription to query invalidations (?topics=a,b)", "responses": { "101": { "description": "switching protocols" } } } },
    "/webhooks/identity": { "post": { "summary": "Identity provider user events (signed)", "security": [], "responses": { "200": { "description": "received" }, "401": { "description": "invalid signature" } } } },
    "/health": { "get": { "summary": "Liveness check", "security": [], "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "security": [], "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "security": [], "responses": { "200": { "description": "metrics" } } } }
  }
}`
