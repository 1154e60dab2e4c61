package webhook

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// Disposition tells the HTTP layer how to answer the platform
type Disposition int

const (
	// DispositionAccepted acknowledges the event, including handler failures
	DispositionAccepted Disposition = iota
	// DispositionBadSignature rejects a signature mismatch
	DispositionBadSignature
	// DispositionRejected rejects a stale timestamp or malformed payload
	DispositionRejected
	// DispositionServerError reports a misconfigured receiver
	DispositionServerError
)

// SignatureVerifier checks a hex HMAC-SHA256 signature over the raw body
type SignatureVerifier func(secret string, body []byte, signature string) bool

// DomainHandler processes the events of one event domain
type DomainHandler interface {
	Handle(ctx context.Context, event *integration.WebhookEvent) error
}

// Inbound is one raw webhook delivery as received on the wire
type Inbound struct {
	Body      []byte
	Signature string
	Timestamp string
}

// Service verifies inbound platform webhooks and routes them to the handler
// of their event domain. Verification runs against the raw body before any
// parsing. After the delivery verifies, processing failures are swallowed
// and logged so the platform never enters a retry storm.
type Service struct {
	secret   string
	verify   SignatureVerifier
	handlers map[integration.EventDomain]DomainHandler
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new webhook Service. The handler table is keyed by
// event domain; event types whose domain has no handler are acknowledged
// as no-ops.
func NewService(secret string, verify SignatureVerifier, handlers map[integration.EventDomain]DomainHandler, logger *zap.Logger) *Service {
	return &Service{
		secret:   secret,
		verify:   verify,
		handlers: handlers,
		now:      time.Now,
		logger:   logger,
	}
}

// Process verifies and routes one delivery
func (s *Service) Process(ctx context.Context, in Inbound) Disposition {
	if s.secret == "" {
		s.logger.Error("Cannot verify webhook deliveries",
			zap.Error(integration.ErrWebhookSecretMissing),
		)
		return DispositionServerError
	}

	if !s.verify(s.secret, in.Body, in.Signature) {
		s.logger.Warn("Webhook signature mismatch",
			zap.Int("body_len", len(in.Body)),
		)
		return DispositionBadSignature
	}

	if err := s.checkFreshness(in.Timestamp); err != nil {
		s.logger.Warn("Webhook timestamp rejected",
			zap.String("timestamp", in.Timestamp),
			zap.Error(err),
		)
		return DispositionRejected
	}

	event, err := integration.ParseWebhookEvent(in.Body)
	if err != nil {
		s.logger.Warn("Webhook payload is malformed", zap.Error(err))
		return DispositionRejected
	}

	s.dispatch(ctx, event)
	return DispositionAccepted
}

// checkFreshness enforces the timestamp window, inclusive on both edges
func (s *Service) checkFreshness(raw string) error {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return integration.ErrWebhookMalformedPayload
	}
	// Bounds-check in whole seconds. Computing a skew or converting to a
	// time.Duration could overflow int64 for a hostile timestamp.
	now := s.now().Unix()
	window := int64(integration.WebhookFreshnessWindow / time.Second)
	if ts < now-window || ts > now+window {
		return integration.ErrWebhookStaleTimestamp
	}
	return nil
}

// dispatch routes a verified event. Unknown types and handler failures are
// logged and acknowledged.
func (s *Service) dispatch(ctx context.Context, event *integration.WebhookEvent) {
	domain := event.Type.Domain()
	if domain == integration.EventDomainUnknown {
		s.logger.Info("Ignoring webhook event of unknown type",
			zap.String("type", event.Type.String()),
			zap.String("shop_id", event.ShopID),
		)
		return
	}

	handler, ok := s.handlers[domain]
	if !ok {
		s.logger.Info("No handler registered for event domain",
			zap.String("domain", string(domain)),
			zap.String("type", event.Type.String()),
		)
		return
	}

	if err := handler.Handle(ctx, event); err != nil {
		// Acknowledged anyway; the failure must stay visible in logs
		s.logger.Error("Webhook handler failed",
			zap.String("type", event.Type.String()),
			zap.String("shop_id", event.ShopID),
			zap.Error(err),
		)
	}
}
