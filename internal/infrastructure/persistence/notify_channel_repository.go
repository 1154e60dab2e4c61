package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/infrastructure/persistence/models"
)

// GormNotifyChannelRepository implements NotifyChannelRepository using GORM
type GormNotifyChannelRepository struct {
	db *gorm.DB
}

// NewGormNotifyChannelRepository creates a new GormNotifyChannelRepository
func NewGormNotifyChannelRepository(db *gorm.DB) *GormNotifyChannelRepository {
	return &GormNotifyChannelRepository{db: db}
}

// FindActive returns every tenant with an active notification channel
func (r *GormNotifyChannelRepository) FindActive(ctx context.Context) ([]integration.NotifyChannelConfig, error) {
	var channelModels []models.NotifyChannelModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&channelModels).Error; err != nil {
		return nil, err
	}

	channels := make([]integration.NotifyChannelConfig, len(channelModels))
	for i, model := range channelModels {
		channels[i] = model.ToDomain()
	}
	return channels, nil
}

// Ensure GormNotifyChannelRepository implements the repository port
var _ integration.NotifyChannelRepository = (*GormNotifyChannelRepository)(nil)
