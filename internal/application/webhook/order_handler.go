package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// trackingUpdatePayload is the data block of an ORDER_TRACKING_UPDATE event
type trackingUpdatePayload struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Provider       string `json:"provider"`
	Status         string `json:"status"`
}

// orderStatusPayload is the data block of order status and cancellation events
type orderStatusPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// CredentialSource resolves call-ready platform credentials for a shop
type CredentialSource interface {
	ResolveShop(shop *integration.ShopCredential) (integration.PlatformCredentials, error)
}

// OrderHandler processes ORDER_* events. Tracking updates mutate the
// tracking state table, pulling the detail record from the platform when
// the event payload is sparse; status changes and cancellations are
// recorded in the log for now.
type OrderHandler struct {
	shops       integration.ShopCredentialRepository
	tracking    integration.TrackingStateRepository
	credentials CredentialSource
	platform    integration.PlatformClient
	logger      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	shops integration.ShopCredentialRepository,
	tracking integration.TrackingStateRepository,
	credentials CredentialSource,
	platform integration.PlatformClient,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		shops:       shops,
		tracking:    tracking,
		credentials: credentials,
		platform:    platform,
		logger:      logger,
	}
}

// Handle dispatches on the concrete order event type
func (h *OrderHandler) Handle(ctx context.Context, event *integration.WebhookEvent) error {
	switch event.Type {
	case integration.EventTypeOrderTrackingUpdate:
		return h.handleTrackingUpdate(ctx, event)
	case integration.EventTypeOrderStatusChange, integration.EventTypeOrderCancellation:
		return h.handleStatusChange(event)
	default:
		h.logger.Info("Order handler ignoring event type",
			zap.String("type", event.Type.String()),
		)
		return nil
	}
}

// handleTrackingUpdate upserts the (order, tracking number) state row
func (h *OrderHandler) handleTrackingUpdate(ctx context.Context, event *integration.WebhookEvent) error {
	var payload trackingUpdatePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrWebhookMalformedPayload, err)
	}
	if payload.OrderID == "" || payload.TrackingNumber == "" {
		h.logger.Warn("Tracking update without order or tracking number",
			zap.String("shop_id", event.ShopID),
		)
		return nil
	}

	shop, err := h.shops.FindByShopID(ctx, event.ShopID)
	if err != nil {
		return err
	}

	if payload.Provider == "" || payload.Status == "" {
		h.hydrateFromPlatform(ctx, shop, &payload)
	}

	status := integration.CarrierStatus(payload.Status)
	if !status.IsValid() {
		h.logger.Warn("Tracking update carries unmodeled carrier status",
			zap.String("shop_id", event.ShopID),
			zap.String("status", payload.Status),
		)
		return nil
	}

	return h.tracking.Upsert(ctx, &integration.TrackingState{
		TenantID:         shop.TenantID,
		ShopCredentialID: shop.ID,
		ShopName:         shop.ShopName,
		OrderID:          payload.OrderID,
		TrackingNumber:   payload.TrackingNumber,
		Provider:         payload.Provider,
		Status:           status,
	})
}

// hydrateFromPlatform fills a sparse tracking update from the detail
// endpoint. Failures are logged and leave the payload as delivered; the
// validity check downstream decides what happens then.
func (h *OrderHandler) hydrateFromPlatform(ctx context.Context, shop *integration.ShopCredential, payload *trackingUpdatePayload) {
	creds, err := h.credentials.ResolveShop(shop)
	if err != nil {
		h.logger.Warn("Cannot resolve credentials for tracking detail fetch",
			zap.String("shop_id", shop.ShopID),
			zap.Error(err),
		)
		return
	}

	record, err := h.platform.FetchRecord(ctx, creds, integration.RecordKindTrackingEvent, payload.TrackingNumber)
	if err != nil {
		h.logger.Warn("Tracking detail fetch failed",
			zap.String("shop_id", shop.ShopID),
			zap.String("tracking_number", payload.TrackingNumber),
			zap.Error(err),
		)
		return
	}

	if payload.Provider == "" {
		payload.Provider = record.Provider
	}
	if payload.Status == "" {
		payload.Status = record.Status
	}
}

// handleStatusChange records the transition; order state itself lives in
// the sync tables and catches up on the next pass.
func (h *OrderHandler) handleStatusChange(event *integration.WebhookEvent) error {
	var payload orderStatusPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrWebhookMalformedPayload, err)
	}
	h.logger.Info("Order status changed",
		zap.String("type", event.Type.String()),
		zap.String("shop_id", event.ShopID),
		zap.String("order_id", payload.OrderID),
		zap.String("status", payload.Status),
	)
	return nil
}

// Ensure OrderHandler implements DomainHandler
var _ DomainHandler = (*OrderHandler)(nil)
