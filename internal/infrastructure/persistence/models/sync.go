package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// ShopCredentialModel
// ---------------------------------------------------------------------------

// ShopCredentialModel is the persistence model for the ShopCredential entity.
type ShopCredentialModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_shop_credentials_tenant"`
	ShopID      string         `gorm:"type:varchar(100);not null;uniqueIndex:uq_shop_credentials_shop_id"`
	ShopName    string         `gorm:"type:varchar(255)"`
	AccessToken string         `gorm:"type:varchar(512);not null"`
	Cipher      string         `gorm:"type:varchar(255)"`
	ChannelData datatypes.JSON `gorm:"type:jsonb"`
	IsActive    bool           `gorm:"not null;default:true;index"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShopCredentialModel) TableName() string {
	return "shop_credentials"
}

// ToDomain converts the persistence model to a domain ShopCredential entity.
func (m *ShopCredentialModel) ToDomain() *integration.ShopCredential {
	return &integration.ShopCredential{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ShopID:         m.ShopID,
		ShopName:       m.ShopName,
		AccessToken:    m.AccessToken,
		Cipher:         m.Cipher,
		ChannelDataRaw: string(m.ChannelData),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// SyncRecordModel
// ---------------------------------------------------------------------------

// SyncRecordModel is the persistence model for the syncable record family.
// All variants share one table discriminated by Kind; the idempotency
// invariant is the unique index on (kind, external_id).
type SyncRecordModel struct {
	ID               uuid.UUID              `gorm:"type:uuid;primary_key"`
	ShopCredentialID uuid.UUID              `gorm:"type:uuid;not null;index:idx_sync_records_owner_kind,priority:1"`
	Kind             integration.RecordKind `gorm:"type:varchar(32);not null;index:idx_sync_records_owner_kind,priority:2;uniqueIndex:uq_sync_records_kind_external,priority:1"`
	ExternalID       string                 `gorm:"type:varchar(100);not null;uniqueIndex:uq_sync_records_kind_external,priority:2"`
	Status           string                 `gorm:"type:varchar(64)"`
	Amount           decimal.Decimal        `gorm:"type:decimal(20,4)"`
	Currency         string                 `gorm:"type:varchar(8)"`
	OrderID          string                 `gorm:"type:varchar(100);index"`
	TrackingNumber   string                 `gorm:"type:varchar(100)"`
	Provider         string                 `gorm:"type:varchar(100)"`
	Content          string                 `gorm:"type:text"`
	EventTime        *time.Time             `gorm:""`
	PlatformCreateAt *time.Time             `gorm:"column:platform_create_at"`
	PlatformUpdateAt *time.Time             `gorm:"column:platform_update_at"`
	Extra            datatypes.JSON         `gorm:"type:jsonb"`
	CreatedAt        time.Time              `gorm:"not null"`
	UpdatedAt        time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRecordModel) TableName() string {
	return "sync_records"
}

// ToDomain converts the persistence model to a domain PlatformRecord.
func (m *SyncRecordModel) ToDomain() *integration.PlatformRecord {
	record := &integration.PlatformRecord{
		ExternalID:     m.ExternalID,
		Kind:           m.Kind,
		Status:         m.Status,
		Amount:         m.Amount,
		Currency:       m.Currency,
		OrderID:        m.OrderID,
		TrackingNumber: m.TrackingNumber,
		Provider:       m.Provider,
		Content:        m.Content,
	}
	if m.EventTime != nil {
		record.EventTime = *m.EventTime
	}
	if m.PlatformCreateAt != nil {
		record.CreateTime = *m.PlatformCreateAt
	}
	if m.PlatformUpdateAt != nil {
		record.UpdateTime = *m.PlatformUpdateAt
	}
	if len(m.Extra) > 0 {
		var extra map[string]any
		if err := json.Unmarshal(m.Extra, &extra); err == nil {
			record.Extra = extra
		}
	}
	return record
}

// FromDomain populates the persistence model from a domain PlatformRecord.
// The caller owns ID, ShopCredentialID, and the timestamps.
func (m *SyncRecordModel) FromDomain(r *integration.PlatformRecord) {
	m.Kind = r.Kind
	m.ExternalID = r.ExternalID
	m.Status = r.Status
	m.Amount = r.Amount
	m.Currency = r.Currency
	m.OrderID = r.OrderID
	m.TrackingNumber = r.TrackingNumber
	m.Provider = r.Provider
	m.Content = r.Content
	m.EventTime = optionalTime(r.EventTime)
	m.PlatformCreateAt = optionalTime(r.CreateTime)
	m.PlatformUpdateAt = optionalTime(r.UpdateTime)
	if len(r.Extra) > 0 {
		if raw, err := json.Marshal(r.Extra); err == nil {
			m.Extra = datatypes.JSON(raw)
		}
	}
}

// optionalTime maps a zero time to NULL
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ---------------------------------------------------------------------------
// TrackingStateModel
// ---------------------------------------------------------------------------

// TrackingStateModel is the persistence model for the TrackingState entity.
// Uniqueness on (order_id, tracking_number) is the natural key.
type TrackingStateModel struct {
	ID               uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TenantID         uuid.UUID                 `gorm:"type:uuid;not null;index:idx_tracking_states_tenant"`
	ShopCredentialID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ShopName         string                    `gorm:"type:varchar(255)"`
	OrderID          string                    `gorm:"type:varchar(100);not null;uniqueIndex:uq_tracking_states_order_tracking,priority:1"`
	TrackingNumber   string                    `gorm:"type:varchar(100);not null;uniqueIndex:uq_tracking_states_order_tracking,priority:2"`
	Provider         string                    `gorm:"type:varchar(100)"`
	Status           integration.CarrierStatus `gorm:"type:varchar(32);not null;index"`
	CreatedAt        time.Time                 `gorm:"not null"`
	UpdatedAt        time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrackingStateModel) TableName() string {
	return "tracking_states"
}

// ToDomain converts the persistence model to a domain TrackingState entity.
func (m *TrackingStateModel) ToDomain() *integration.TrackingState {
	return &integration.TrackingState{
		ID:               m.ID,
		TenantID:         m.TenantID,
		ShopCredentialID: m.ShopCredentialID,
		ShopName:         m.ShopName,
		OrderID:          m.OrderID,
		TrackingNumber:   m.TrackingNumber,
		Provider:         m.Provider,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TrackingState.
func (m *TrackingStateModel) FromDomain(t *integration.TrackingState) {
	m.ID = t.ID
	m.TenantID = t.TenantID
	m.ShopCredentialID = t.ShopCredentialID
	m.ShopName = t.ShopName
	m.OrderID = t.OrderID
	m.TrackingNumber = t.TrackingNumber
	m.Provider = t.Provider
	m.Status = t.Status
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}

// ---------------------------------------------------------------------------
// NotifyChannelModel
// ---------------------------------------------------------------------------

// NotifyChannelModel is the persistence model for a tenant's operator
// notification channel.
type NotifyChannelModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_notify_channels_tenant"`
	ChatID    string    `gorm:"type:varchar(100);not null"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NotifyChannelModel) TableName() string {
	return "notify_channels"
}

// ToDomain converts the persistence model to a domain NotifyChannelConfig.
func (m *NotifyChannelModel) ToDomain() integration.NotifyChannelConfig {
	return integration.NotifyChannelConfig{
		TenantID: m.TenantID,
		ChatID:   m.ChatID,
		IsActive: m.IsActive,
	}
}
