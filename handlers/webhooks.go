package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/webhook"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives identity-provider user events.
type WebhookHandler struct {
	verifier  *webhook.Verifier
	processor *webhook.Processor
}

func NewWebhookHandler(v *webhook.Verifier, p *webhook.Processor) *WebhookHandler {
	return &WebhookHandler{verifier: v, processor: p}
}

func (h *WebhookHandler) Register(r *gin.Engine) {
	r.POST("/webhooks/identity", h.Handle)
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if err := h.verifier.Verify(c.Request.Header, body); err != nil {
		logger.Warnf("webhook: rejected delivery %s: %v", c.GetHeader(webhook.HeaderID), err)
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	ev, err := webhook.Parse(body)
	if err != nil {
		logger.Warnf("webhook: malformed delivery %s: %v", c.GetHeader(webhook.HeaderID), err)
		metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.processor.Handle(c.Request.Context(), ev); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// 5xx makes the provider redeliver
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
