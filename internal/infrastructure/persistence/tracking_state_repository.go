package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/infrastructure/persistence/models"
)

// inProgressStatuses are the carrier statuses the alert scanner watches
var inProgressStatuses = []integration.CarrierStatus{
	integration.CarrierStatusAwaitingCollection,
	integration.CarrierStatusInTransit,
	integration.CarrierStatusOutForDelivery,
}

// GormTrackingStateRepository implements TrackingStateRepository using GORM
type GormTrackingStateRepository struct {
	db *gorm.DB
}

// NewGormTrackingStateRepository creates a new GormTrackingStateRepository
func NewGormTrackingStateRepository(db *gorm.DB) *GormTrackingStateRepository {
	return &GormTrackingStateRepository{db: db}
}

// Upsert creates or updates the row keyed on (order, tracking number).
// Status changes refresh updated_at, which resets the staleness clock.
func (r *GormTrackingStateRepository) Upsert(ctx context.Context, state *integration.TrackingState) error {
	now := time.Now()
	var model models.TrackingStateModel
	model.FromDomain(state)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}, {Name: "tracking_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"shop_name", "provider", "status", "updated_at",
			}),
		}).
		Create(&model).Error
}

// FindInProgressByTenant returns all in-progress rows for one tenant
func (r *GormTrackingStateRepository) FindInProgressByTenant(ctx context.Context, tenantID uuid.UUID) ([]integration.TrackingState, error) {
	var stateModels []models.TrackingStateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, inProgressStatuses).
		Order("updated_at ASC").
		Find(&stateModels).Error; err != nil {
		return nil, err
	}

	states := make([]integration.TrackingState, len(stateModels))
	for i, model := range stateModels {
		states[i] = *model.ToDomain()
	}
	return states, nil
}

// FindByOrderAndTracking finds a single row by its natural key
func (r *GormTrackingStateRepository) FindByOrderAndTracking(ctx context.Context, ownerID uuid.UUID, orderID, trackingNumber string) (*integration.TrackingState, error) {
	var model models.TrackingStateModel
	if err := r.db.WithContext(ctx).
		Where("shop_credential_id = ? AND order_id = ? AND tracking_number = ?", ownerID, orderID, trackingNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrTrackingStateNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormTrackingStateRepository implements the repository port
var _ integration.TrackingStateRepository = (*GormTrackingStateRepository)(nil)
