package integration

import (
	"context"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Notification Channel
// ---------------------------------------------------------------------------

// NotifyChannelConfig is one tenant's operator notification channel
type NotifyChannelConfig struct {
	// TenantID is the organization this channel belongs to
	TenantID uuid.UUID
	// ChatID is the destination chat in the messaging service
	ChatID string
	// IsActive indicates whether alerts should be dispatched
	IsActive bool
}

// NotifyChannelRepository provides access to tenant notification channels
type NotifyChannelRepository interface {
	// FindActive returns every tenant with an active channel
	FindActive(ctx context.Context) ([]NotifyChannelConfig, error)
}

// ---------------------------------------------------------------------------
// Notifier Port
// ---------------------------------------------------------------------------

// Notifier dispatches a plain-text message to a tenant's channel. Dispatch
// is bounded by a short timeout; a failed dispatch is logged, not retried.
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}
