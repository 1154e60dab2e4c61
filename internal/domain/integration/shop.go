package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ChannelData
// ---------------------------------------------------------------------------

// ChannelData holds the per-shop configuration blob the onboarding flow
// stores as JSON. Known fields are typed; everything else is preserved in
// Extra so nothing is lost when the platform adds fields.
type ChannelData struct {
	// Cipher is the per-shop cipher/region token
	Cipher string `json:"cipher"`
	// Region is the shop's marketplace region code
	Region string `json:"region"`
	// SellerType distinguishes local from cross-border shops
	SellerType string `json:"seller_type"`
	// Extra preserves unmodeled fields from the blob
	Extra map[string]any `json:"-"`
}

// ParseChannelData parses the JSON-encoded channel data blob. An empty blob
// yields a zero ChannelData and no error. A parse failure returns the error;
// callers treat it as "absent" and fall back to the legacy flat field.
func ParseChannelData(raw string) (ChannelData, error) {
	var data ChannelData
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ChannelData{}, err
	}
	// Second pass keeps fields we don't model explicitly
	var all map[string]any
	if err := json.Unmarshal([]byte(raw), &all); err == nil {
		delete(all, "cipher")
		delete(all, "region")
		delete(all, "seller_type")
		if len(all) > 0 {
			data.Extra = all
		}
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// ShopCredential
// ---------------------------------------------------------------------------

// ShopCredential represents one tenant's connection to the marketplace
// platform. It is created by the onboarding flow and read-only to the sync
// engine; deactivated shops are excluded from sync passes.
type ShopCredential struct {
	// ID is the internal surrogate identifier
	ID uuid.UUID
	// TenantID is the owning organization
	TenantID uuid.UUID
	// ShopID is the external shop identifier assigned by the platform
	ShopID string
	// ShopName is the display name of the shop
	ShopName string
	// AccessToken is the shop's OAuth access token
	AccessToken string
	// Cipher is the legacy flat cipher token field
	Cipher string
	// ChannelDataRaw is the JSON-encoded configuration blob; the cipher
	// nested inside it wins over the legacy flat field when present
	ChannelDataRaw string
	// IsActive indicates whether the shop participates in sync passes
	IsActive bool
	// CreatedAt is when the connection was established
	CreatedAt time.Time
	// UpdatedAt is when the connection was last modified
	UpdatedAt time.Time
}

// CipherToken resolves the shop's cipher token. Resolution order: the
// channel data blob, then the legacy flat field. The returned bool is false
// when neither yields a value, in which case the shop is unsyncable. The
// returned error reports a blob that existed but could not be parsed; the
// caller logs it and the legacy fallback still applies.
func (s *ShopCredential) CipherToken() (string, bool, error) {
	data, err := ParseChannelData(s.ChannelDataRaw)
	if err == nil && data.Cipher != "" {
		return data.Cipher, true, nil
	}
	if s.Cipher != "" {
		return s.Cipher, true, err
	}
	return "", false, err
}

// ---------------------------------------------------------------------------
// Repository Ports
// ---------------------------------------------------------------------------

// ShopCredentialRepository provides read access to shop credentials.
// The sync engine never writes shop credentials.
type ShopCredentialRepository interface {
	// FindByID finds a shop by its internal surrogate ID
	FindByID(ctx context.Context, id uuid.UUID) (*ShopCredential, error)

	// FindByShopID finds a shop by its external platform shop ID
	FindByShopID(ctx context.Context, shopID string) (*ShopCredential, error)

	// FindActive returns all active shops across tenants
	FindActive(ctx context.Context) ([]ShopCredential, error)

	// FindActiveByTenant returns all active shops for one tenant
	FindActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]ShopCredential, error)
}
