package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// productEventPayload is the data block of PRODUCT_* events
type productEventPayload struct {
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// ProductHandler processes PRODUCT_* events. Product state is owned by the
// catalog side; the handler records the transition so operators can trace
// platform-side takedowns and audit outcomes.
type ProductHandler struct {
	logger *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(logger *zap.Logger) *ProductHandler {
	return &ProductHandler{logger: logger}
}

// Handle records the product transition
func (h *ProductHandler) Handle(_ context.Context, event *integration.WebhookEvent) error {
	var payload productEventPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrWebhookMalformedPayload, err)
	}

	h.logger.Info("Product event received",
		zap.String("type", event.Type.String()),
		zap.String("shop_id", event.ShopID),
		zap.String("product_id", payload.ProductID),
		zap.String("status", payload.Status),
		zap.String("reason", payload.Reason),
	)
	return nil
}

// Ensure ProductHandler implements DomainHandler
var _ DomainHandler = (*ProductHandler)(nil)
