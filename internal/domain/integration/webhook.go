package integration

import (
	"encoding/json"
	"time"
)

// WebhookFreshnessWindow is the maximum allowed age (and clock skew) of a
// signed webhook request. A timestamp exactly at the boundary is accepted.
const WebhookFreshnessWindow = 300 * time.Second

// ---------------------------------------------------------------------------
// EventType
// ---------------------------------------------------------------------------

// EventType is the declared type of an inbound webhook event
type EventType string

const (
	// EventTypeOrderStatusChange reports an order status transition
	EventTypeOrderStatusChange EventType = "ORDER_STATUS_CHANGE"
	// EventTypeOrderTrackingUpdate reports a carrier tracking change
	EventTypeOrderTrackingUpdate EventType = "ORDER_TRACKING_UPDATE"
	// EventTypeOrderCancellation reports an order cancellation
	EventTypeOrderCancellation EventType = "ORDER_CANCELLATION"
	// EventTypeProductStatusChange reports a listing going on/off shelf
	EventTypeProductStatusChange EventType = "PRODUCT_STATUS_CHANGE"
	// EventTypeProductAuditResult reports the outcome of a listing review
	EventTypeProductAuditResult EventType = "PRODUCT_AUDIT_RESULT"
)

// String returns the string representation of EventType
func (t EventType) String() string {
	return string(t)
}

// EventDomain groups event types by the handler responsible for them
type EventDomain string

const (
	// EventDomainOrder routes to the order-domain handler
	EventDomainOrder EventDomain = "ORDER"
	// EventDomainProduct routes to the product-domain handler
	EventDomainProduct EventDomain = "PRODUCT"
	// EventDomainUnknown is acknowledged and logged, never processed
	EventDomainUnknown EventDomain = "UNKNOWN"
)

// eventDomains is the dispatch table from event type to handler domain.
// Unlisted types map to EventDomainUnknown, which is acknowledged as a
// logged no-op.
var eventDomains = map[EventType]EventDomain{
	EventTypeOrderStatusChange:   EventDomainOrder,
	EventTypeOrderTrackingUpdate: EventDomainOrder,
	EventTypeOrderCancellation:   EventDomainOrder,
	EventTypeProductStatusChange: EventDomainProduct,
	EventTypeProductAuditResult:  EventDomainProduct,
}

// Domain returns the handler domain for this event type
func (t EventType) Domain() EventDomain {
	if d, ok := eventDomains[t]; ok {
		return d
	}
	return EventDomainUnknown
}

// ---------------------------------------------------------------------------
// WebhookEvent
// ---------------------------------------------------------------------------

// WebhookEvent is the envelope of one inbound push notification. It lives
// entirely within a single request: parsed, verified, routed, discarded.
type WebhookEvent struct {
	// Type is the declared event type
	Type EventType `json:"type"`
	// ShopID is the external shop the event belongs to
	ShopID string `json:"shop_id"`
	// Timestamp is when the platform emitted the event (unix seconds)
	Timestamp int64 `json:"timestamp"`
	// Data is the type-specific payload, decoded by the domain handler
	Data json.RawMessage `json:"data"`
}

// ParseWebhookEvent decodes a webhook envelope from the raw request body
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, ErrWebhookMalformedPayload
	}
	if event.Type == "" {
		return nil, ErrWebhookMalformedPayload
	}
	return &event, nil
}
