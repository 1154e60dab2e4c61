package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/infrastructure/persistence/models"
)

// applyBatchTimeout bounds the whole batch transaction so a wedged database
// cannot stall a sync pass indefinitely.
const applyBatchTimeout = 30 * time.Second

// insertChunkSize caps the number of rows per bulk INSERT statement
const insertChunkSize = 100

// GormSyncRecordRepository implements SyncRecordRepository using GORM
type GormSyncRecordRepository struct {
	db *gorm.DB
}

// NewGormSyncRecordRepository creates a new GormSyncRecordRepository
func NewGormSyncRecordRepository(db *gorm.DB) *GormSyncRecordRepository {
	return &GormSyncRecordRepository{db: db}
}

// ExistingExternalIDs returns which of the given external IDs already exist
// for the shop and kind. One membership query per batch, never per record.
func (r *GormSyncRecordRepository) ExistingExternalIDs(ctx context.Context, ownerID uuid.UUID, kind integration.RecordKind, externalIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(externalIDs))
	if len(externalIDs) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).
		Model(&models.SyncRecordModel{}).
		Where("shop_credential_id = ? AND kind = ? AND external_id IN ?", ownerID, kind, externalIDs).
		Pluck("external_id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// ApplyBatch bulk-inserts the created records and applies per-record updates
// for the existing ones, inside a single bounded transaction.
func (r *GormSyncRecordRepository) ApplyBatch(ctx context.Context, ownerID uuid.UUID, kind integration.RecordKind, created, updated []integration.PlatformRecord) error {
	if len(created) == 0 && len(updated) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, applyBatchTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if len(created) > 0 {
			rows := make([]models.SyncRecordModel, len(created))
			for i := range created {
				rows[i].FromDomain(&created[i])
				rows[i].ID = uuid.New()
				rows[i].ShopCredentialID = ownerID
				rows[i].Kind = kind
				rows[i].CreatedAt = now
				rows[i].UpdatedAt = now
			}
			if err := tx.CreateInBatches(rows, insertChunkSize).Error; err != nil {
				return err
			}
		}

		for i := range updated {
			record := &updated[i]
			if err := tx.Model(&models.SyncRecordModel{}).
				Where("shop_credential_id = ? AND kind = ? AND external_id = ?", ownerID, kind, record.ExternalID).
				Updates(updateColumns(record, now)).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// updateColumns builds the mutable column set for an existing record. A map
// is used so zero values such as a cleared tracking number still land.
func updateColumns(record *integration.PlatformRecord, now time.Time) map[string]any {
	columns := map[string]any{
		"status":          record.Status,
		"amount":          record.Amount,
		"currency":        record.Currency,
		"order_id":        record.OrderID,
		"tracking_number": record.TrackingNumber,
		"provider":        record.Provider,
		"content":         record.Content,
		"updated_at":      now,
	}
	if !record.EventTime.IsZero() {
		columns["event_time"] = record.EventTime
	}
	if !record.UpdateTime.IsZero() {
		columns["platform_update_at"] = record.UpdateTime
	}
	if len(record.Extra) > 0 {
		staging := models.SyncRecordModel{}
		staging.FromDomain(record)
		columns["extra"] = staging.Extra
	}
	return columns
}

// CountByKind returns the number of stored records for a shop and kind
func (r *GormSyncRecordRepository) CountByKind(ctx context.Context, ownerID uuid.UUID, kind integration.RecordKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SyncRecordModel{}).
		Where("shop_credential_id = ? AND kind = ?", ownerID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSyncRecordRepository implements the repository port
var _ integration.SyncRecordRepository = (*GormSyncRecordRepository)(nil)
