package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/infrastructure/persistence/models"
)

// GormShopCredentialRepository implements ShopCredentialRepository using GORM
type GormShopCredentialRepository struct {
	db *gorm.DB
}

// NewGormShopCredentialRepository creates a new GormShopCredentialRepository
func NewGormShopCredentialRepository(db *gorm.DB) *GormShopCredentialRepository {
	return &GormShopCredentialRepository{db: db}
}

// FindByID finds a shop by its internal surrogate ID
func (r *GormShopCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.ShopCredential, error) {
	var model models.ShopCredentialModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrShopNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShopID finds a shop by its external platform shop ID
func (r *GormShopCredentialRepository) FindByShopID(ctx context.Context, shopID string) (*integration.ShopCredential, error) {
	var model models.ShopCredentialModel
	if err := r.db.WithContext(ctx).First(&model, "shop_id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrShopNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all active shops across tenants
func (r *GormShopCredentialRepository) FindActive(ctx context.Context) ([]integration.ShopCredential, error) {
	var shopModels []models.ShopCredentialModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&shopModels).Error; err != nil {
		return nil, err
	}

	shops := make([]integration.ShopCredential, len(shopModels))
	for i, model := range shopModels {
		shops[i] = *model.ToDomain()
	}
	return shops, nil
}

// FindActiveByTenant returns all active shops for one tenant
func (r *GormShopCredentialRepository) FindActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]integration.ShopCredential, error) {
	var shopModels []models.ShopCredentialModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&shopModels).Error; err != nil {
		return nil, err
	}

	shops := make([]integration.ShopCredential, len(shopModels))
	for i, model := range shopModels {
		shops[i] = *model.ToDomain()
	}
	return shops, nil
}

// Ensure GormShopCredentialRepository implements the repository port
var _ integration.ShopCredentialRepository = (*GormShopCredentialRepository)(nil)
