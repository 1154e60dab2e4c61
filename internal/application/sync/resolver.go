package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// AppCredentials are the platform app-level credentials shared by every
// shop connection. They come from configuration, not from the database.
type AppCredentials struct {
	AppKey     string
	AppSecret  string
	APIBaseURL string
}

// CredentialResolver turns a shop connection into call-ready platform
// credentials. Shops without a usable cipher or access token are reported
// as unsyncable so a sync pass can skip them without aborting.
type CredentialResolver struct {
	shops  integration.ShopCredentialRepository
	app    AppCredentials
	logger *zap.Logger
}

// NewCredentialResolver creates a new CredentialResolver
func NewCredentialResolver(shops integration.ShopCredentialRepository, app AppCredentials, logger *zap.Logger) *CredentialResolver {
	return &CredentialResolver{
		shops:  shops,
		app:    app,
		logger: logger,
	}
}

// Resolve looks a shop up by its internal ID and resolves its credentials
func (r *CredentialResolver) Resolve(ctx context.Context, shopCredentialID uuid.UUID) (*integration.ShopCredential, integration.PlatformCredentials, error) {
	shop, err := r.shops.FindByID(ctx, shopCredentialID)
	if err != nil {
		return nil, integration.PlatformCredentials{}, err
	}
	creds, err := r.ResolveShop(shop)
	return shop, creds, err
}

// ResolveShop resolves credentials for an already-loaded shop. The cipher
// comes from the channel data blob when present, falling back to the legacy
// flat field; a blob that exists but does not parse is logged and treated
// as absent.
func (r *CredentialResolver) ResolveShop(shop *integration.ShopCredential) (integration.PlatformCredentials, error) {
	if shop == nil {
		return integration.PlatformCredentials{}, integration.ErrShopNotFound
	}
	if !shop.IsActive {
		return integration.PlatformCredentials{}, integration.ErrShopInactive
	}
	if r.app.AppSecret == "" {
		return integration.PlatformCredentials{}, integration.ErrMissingAppSecret
	}
	if shop.AccessToken == "" {
		return integration.PlatformCredentials{}, integration.ErrShopUnsyncable
	}

	cipher, ok, parseErr := shop.CipherToken()
	if parseErr != nil {
		r.logger.Warn("Shop channel data blob is not valid JSON, using legacy cipher field",
			zap.String("shop_id", shop.ShopID),
			zap.Error(parseErr),
		)
	}
	if !ok {
		return integration.PlatformCredentials{}, integration.ErrShopUnsyncable
	}

	return integration.PlatformCredentials{
		AccessToken: shop.AccessToken,
		CipherToken: cipher,
		AppKey:      r.app.AppKey,
		AppSecret:   r.app.AppSecret,
		APIBaseURL:  r.app.APIBaseURL,
	}, nil
}
