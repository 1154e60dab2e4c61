package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// RecordKind
// ---------------------------------------------------------------------------

// RecordKind identifies one variant of the syncable record family
type RecordKind string

const (
	// RecordKindPayment is a settled or pending payment
	RecordKindPayment RecordKind = "PAYMENT"
	// RecordKindStatement is a settlement statement
	RecordKindStatement RecordKind = "STATEMENT"
	// RecordKindPackage is a fulfillment package
	RecordKindPackage RecordKind = "PACKAGE"
	// RecordKindConversation is a buyer/seller conversation message
	RecordKindConversation RecordKind = "CONVERSATION_MESSAGE"
	// RecordKindTrackingEvent is a carrier tracking event
	RecordKindTrackingEvent RecordKind = "TRACKING_EVENT"
)

// IsValid returns true if the record kind is valid
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordKindPayment, RecordKindStatement, RecordKindPackage,
		RecordKindConversation, RecordKindTrackingEvent:
		return true
	default:
		return false
	}
}

// String returns the string representation of RecordKind
func (k RecordKind) String() string {
	return string(k)
}

// AllRecordKinds returns every syncable record kind, in sync-pass order
func AllRecordKinds() []RecordKind {
	return []RecordKind{
		RecordKindPayment,
		RecordKindStatement,
		RecordKindPackage,
		RecordKindConversation,
		RecordKindTrackingEvent,
	}
}

// ---------------------------------------------------------------------------
// PlatformRecord
// ---------------------------------------------------------------------------

// PlatformRecord is one record pulled from the marketplace. ExternalID is
// the idempotency key: for a given kind, at most one local record exists per
// external ID, and all writes are upserts keyed on it. Fields not modeled
// explicitly are preserved in Extra.
type PlatformRecord struct {
	// ExternalID is the record's unique key as assigned by the platform
	ExternalID string
	// Kind identifies which record variant this is
	Kind RecordKind
	// ShopID is the external shop ID the record belongs to
	ShopID string
	// Status is the platform-side status string
	Status string
	// Amount is the monetary amount for payments and statements
	Amount decimal.Decimal
	// Currency is the ISO currency code for Amount
	Currency string
	// OrderID is the related platform order ID, when applicable
	OrderID string
	// TrackingNumber is the carrier tracking number for packages and events
	TrackingNumber string
	// Provider is the shipping provider name, when applicable
	Provider string
	// Content is the message body for conversation messages
	Content string
	// EventTime is when the record's event happened on the platform
	EventTime time.Time
	// CreateTime is when the record was created on the platform
	CreateTime time.Time
	// UpdateTime is when the record was last updated on the platform
	UpdateTime time.Time
	// Extra preserves fields not modeled explicitly
	Extra map[string]any
}

// Validate checks that the record can be upserted
func (r *PlatformRecord) Validate() error {
	if r.ExternalID == "" {
		return ErrRecordMissingExternalID
	}
	if !r.Kind.IsValid() {
		return ErrRecordInvalidKind
	}
	return nil
}

// ---------------------------------------------------------------------------
// Repository Port
// ---------------------------------------------------------------------------

// SyncRecordRepository persists pulled platform records. Writes are scoped
// to one owning shop credential; a batch's bulk-insert and updates commit
// together or not at all.
type SyncRecordRepository interface {
	// ExistingExternalIDs returns which of the given external IDs already
	// exist for the shop and kind, as a membership set. One query per batch.
	ExistingExternalIDs(ctx context.Context, ownerID uuid.UUID, kind RecordKind, externalIDs []string) (map[string]struct{}, error)

	// ApplyBatch bulk-inserts the created records and applies per-record
	// updates for the existing ones, inside a single bounded transaction.
	ApplyBatch(ctx context.Context, ownerID uuid.UUID, kind RecordKind, created, updated []PlatformRecord) error

	// CountByKind returns the number of stored records for a shop and kind
	CountByKind(ctx context.Context, ownerID uuid.UUID, kind RecordKind) (int64, error)
}
