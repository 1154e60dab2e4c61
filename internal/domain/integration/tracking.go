package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// CarrierStatus
// ---------------------------------------------------------------------------

// CarrierStatus represents the carrier-side status of a shipment
type CarrierStatus string

const (
	// CarrierStatusAwaitingCollection means the label exists but the carrier
	// has not picked the package up yet
	CarrierStatusAwaitingCollection CarrierStatus = "AWAITING_COLLECTION"
	// CarrierStatusInTransit means the package is moving through the network
	CarrierStatusInTransit CarrierStatus = "IN_TRANSIT"
	// CarrierStatusOutForDelivery means the package is on the last mile
	CarrierStatusOutForDelivery CarrierStatus = "OUT_FOR_DELIVERY"
	// CarrierStatusDelivered means the package reached the buyer
	CarrierStatusDelivered CarrierStatus = "DELIVERED"
	// CarrierStatusReturned means the package was returned to sender
	CarrierStatusReturned CarrierStatus = "RETURNED"
	// CarrierStatusLost means the carrier declared the package lost
	CarrierStatusLost CarrierStatus = "LOST"
)

// IsValid returns true if the status is valid
func (s CarrierStatus) IsValid() bool {
	switch s {
	case CarrierStatusAwaitingCollection, CarrierStatusInTransit,
		CarrierStatusOutForDelivery, CarrierStatusDelivered,
		CarrierStatusReturned, CarrierStatusLost:
		return true
	default:
		return false
	}
}

// String returns the string representation of CarrierStatus
func (s CarrierStatus) String() string {
	return string(s)
}

// IsInProgress returns true for statuses the alert scanner cares about:
// the package is supposed to be moving but has not arrived.
func (s CarrierStatus) IsInProgress() bool {
	switch s {
	case CarrierStatusAwaitingCollection, CarrierStatusInTransit, CarrierStatusOutForDelivery:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// AlertTier
// ---------------------------------------------------------------------------

// AlertTier classifies a stale in-progress shipment by elapsed days
type AlertTier string

const (
	// AlertTierNone means the shipment is not stale enough to alert on
	AlertTierNone AlertTier = ""
	// AlertTierWarning covers shipments stale for 8-9 whole days
	AlertTierWarning AlertTier = "WARNING"
	// AlertTierCritical covers shipments stale for 10 or more whole days
	AlertTierCritical AlertTier = "CRITICAL"
)

const (
	// WarningThresholdDays is the elapsed-days floor of the warning tier
	WarningThresholdDays = 8
	// CriticalThresholdDays is the elapsed-days floor of the critical tier
	CriticalThresholdDays = 10
)

// ClassifyElapsedDays maps elapsed whole days to an alert tier
func ClassifyElapsedDays(days int) AlertTier {
	switch {
	case days >= CriticalThresholdDays:
		return AlertTierCritical
	case days >= WarningThresholdDays:
		return AlertTierWarning
	default:
		return AlertTierNone
	}
}

// ---------------------------------------------------------------------------
// TrackingState
// ---------------------------------------------------------------------------

// TrackingState is one row per (order, tracking number) pair. It is mutated
// by sync pulls and webhook-driven status changes, and read-only to the
// alert scanner.
type TrackingState struct {
	// ID is the internal surrogate identifier
	ID uuid.UUID
	// TenantID is the owning organization
	TenantID uuid.UUID
	// ShopCredentialID is the owning shop connection
	ShopCredentialID uuid.UUID
	// ShopName is the display name of the owning shop, denormalized so
	// alert reports can name the shop without a join
	ShopName string
	// OrderID is the platform order reference
	OrderID string
	// TrackingNumber is the carrier tracking number
	TrackingNumber string
	// Provider is the shipping provider's name
	Provider string
	// Status is the current carrier status
	Status CarrierStatus
	// CreatedAt is when the pair was first observed
	CreatedAt time.Time
	// UpdatedAt is when the status last changed
	UpdatedAt time.Time
}

// ElapsedDays returns whole days since the last update, falling back to
// creation time when the row was never updated.
func (t *TrackingState) ElapsedDays(now time.Time) int {
	ref := t.UpdatedAt
	if ref.IsZero() {
		ref = t.CreatedAt
	}
	elapsed := now.Sub(ref)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}

// Tier classifies this state for alerting at the given time
func (t *TrackingState) Tier(now time.Time) AlertTier {
	if !t.Status.IsInProgress() {
		return AlertTierNone
	}
	return ClassifyElapsedDays(t.ElapsedDays(now))
}

// ---------------------------------------------------------------------------
// Repository Port
// ---------------------------------------------------------------------------

// TrackingStateRepository persists tracking state rows, unique per
// (order, tracking number) within a shop.
type TrackingStateRepository interface {
	// Upsert creates or updates the row keyed on (order, tracking number)
	Upsert(ctx context.Context, state *TrackingState) error

	// FindInProgressByTenant returns all in-progress rows for one tenant
	FindInProgressByTenant(ctx context.Context, tenantID uuid.UUID) ([]TrackingState, error)

	// FindByOrderAndTracking finds a single row by its natural key
	FindByOrderAndTracking(ctx context.Context, ownerID uuid.UUID, orderID, trackingNumber string) (*TrackingState, error)
}
