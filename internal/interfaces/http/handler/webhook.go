package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/application/webhook"
	"github.com/shoppulse/backend/internal/interfaces/http/dto"
)

// signatureHeader carries the hex HMAC of the raw request body
const signatureHeader = "x-tts-signature"

// timestampHeader carries the unix-seconds send time of the event
const timestampHeader = "x-tts-timestamp"

// maxWebhookBodyBytes caps the accepted webhook payload size
const maxWebhookBodyBytes = 1 << 20

// WebhookHandler receives marketplace push notifications, verifies them and
// hands them to the webhook application service.
type WebhookHandler struct {
	BaseHandler
	service *webhook.Service
	logger  *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service *webhook.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/webhooks/tiktok")
	group.GET("", h.HandleChallenge)
	group.POST("", h.HandleEvent)
}

// HandleChallenge answers the platform's endpoint verification probe by
// echoing the challenge query parameter back as plain text.
func (h *WebhookHandler) HandleChallenge(c *gin.Context) {
	challenge := c.Query("challenge")
	c.String(http.StatusOK, challenge)
}

// HandleEvent verifies and processes one pushed event. The raw body is read
// before any parsing because the signature covers the exact bytes sent.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes+1))
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(body) > maxWebhookBodyBytes {
		h.Error(c, dto.ErrCodePayloadTooLarge, "Webhook payload exceeds maximum size")
		return
	}

	disposition := h.service.Process(c.Request.Context(), webhook.Inbound{
		Body:      body,
		Signature: c.GetHeader(signatureHeader),
		Timestamp: c.GetHeader(timestampHeader),
	})

	switch disposition {
	case webhook.DispositionAccepted:
		c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
	case webhook.DispositionBadSignature:
		h.Unauthorized(c, "Webhook signature verification failed")
	case webhook.DispositionRejected:
		h.BadRequest(c, "Webhook rejected")
	case webhook.DispositionServerError:
		h.InternalError(c, "Webhook endpoint is not configured")
	default:
		h.InternalError(c, "Unknown webhook disposition")
	}
}
