package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// fakeShopRepo is an in-memory ShopCredentialRepository for tests
type fakeShopRepo struct {
	shops []integration.ShopCredential
}

func (f *fakeShopRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.ShopCredential, error) {
	for i := range f.shops {
		if f.shops[i].ID == id {
			return &f.shops[i], nil
		}
	}
	return nil, integration.ErrShopNotFound
}

func (f *fakeShopRepo) FindByShopID(_ context.Context, shopID string) (*integration.ShopCredential, error) {
	for i := range f.shops {
		if f.shops[i].ShopID == shopID {
			return &f.shops[i], nil
		}
	}
	return nil, integration.ErrShopNotFound
}

func (f *fakeShopRepo) FindActive(_ context.Context) ([]integration.ShopCredential, error) {
	var active []integration.ShopCredential
	for _, shop := range f.shops {
		if shop.IsActive {
			active = append(active, shop)
		}
	}
	return active, nil
}

func (f *fakeShopRepo) FindActiveByTenant(_ context.Context, tenantID uuid.UUID) ([]integration.ShopCredential, error) {
	var active []integration.ShopCredential
	for _, shop := range f.shops {
		if shop.IsActive && shop.TenantID == tenantID {
			active = append(active, shop)
		}
	}
	return active, nil
}

func testApp() AppCredentials {
	return AppCredentials{AppKey: "app-key", AppSecret: "app-secret"}
}

func activeShop() integration.ShopCredential {
	return integration.ShopCredential{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		ShopID:      "shop-1",
		ShopName:    "Shop One",
		AccessToken: "token-1",
		IsActive:    true,
	}
}

func TestCredentialResolver_ResolveShop(t *testing.T) {
	resolver := NewCredentialResolver(&fakeShopRepo{}, testApp(), zap.NewNop())

	t.Run("blob cipher wins over legacy field", func(t *testing.T) {
		shop := activeShop()
		shop.Cipher = "legacy-cipher"
		shop.ChannelDataRaw = `{"cipher":"blob-cipher","region":"US"}`

		creds, err := resolver.ResolveShop(&shop)
		require.NoError(t, err)
		assert.Equal(t, "blob-cipher", creds.CipherToken)
		assert.Equal(t, "token-1", creds.AccessToken)
		assert.Equal(t, "app-key", creds.AppKey)
	})

	t.Run("legacy field fills in when blob has no cipher", func(t *testing.T) {
		shop := activeShop()
		shop.Cipher = "legacy-cipher"
		shop.ChannelDataRaw = `{"region":"US"}`

		creds, err := resolver.ResolveShop(&shop)
		require.NoError(t, err)
		assert.Equal(t, "legacy-cipher", creds.CipherToken)
	})

	t.Run("unparseable blob falls back to legacy field", func(t *testing.T) {
		shop := activeShop()
		shop.Cipher = "legacy-cipher"
		shop.ChannelDataRaw = `{not json`

		creds, err := resolver.ResolveShop(&shop)
		require.NoError(t, err)
		assert.Equal(t, "legacy-cipher", creds.CipherToken)
	})

	t.Run("no cipher anywhere means unsyncable", func(t *testing.T) {
		shop := activeShop()

		_, err := resolver.ResolveShop(&shop)
		assert.ErrorIs(t, err, integration.ErrShopUnsyncable)
	})

	t.Run("missing access token means unsyncable", func(t *testing.T) {
		shop := activeShop()
		shop.AccessToken = ""
		shop.Cipher = "legacy-cipher"

		_, err := resolver.ResolveShop(&shop)
		assert.ErrorIs(t, err, integration.ErrShopUnsyncable)
	})

	t.Run("inactive shop is rejected", func(t *testing.T) {
		shop := activeShop()
		shop.IsActive = false
		shop.Cipher = "legacy-cipher"

		_, err := resolver.ResolveShop(&shop)
		assert.ErrorIs(t, err, integration.ErrShopInactive)
	})

	t.Run("missing app secret is a configuration error", func(t *testing.T) {
		bare := NewCredentialResolver(&fakeShopRepo{}, AppCredentials{AppKey: "k"}, zap.NewNop())
		shop := activeShop()
		shop.Cipher = "legacy-cipher"

		_, err := bare.ResolveShop(&shop)
		assert.ErrorIs(t, err, integration.ErrMissingAppSecret)
	})
}

func TestCredentialResolver_Resolve(t *testing.T) {
	shop := activeShop()
	shop.Cipher = "legacy-cipher"
	repo := &fakeShopRepo{shops: []integration.ShopCredential{shop}}
	resolver := NewCredentialResolver(repo, testApp(), zap.NewNop())

	t.Run("resolves by internal ID", func(t *testing.T) {
		found, creds, err := resolver.Resolve(context.Background(), shop.ID)
		require.NoError(t, err)
		assert.Equal(t, shop.ShopID, found.ShopID)
		assert.Equal(t, "legacy-cipher", creds.CipherToken)
	})

	t.Run("unknown shop returns not found", func(t *testing.T) {
		_, _, err := resolver.Resolve(context.Background(), uuid.New())
		assert.ErrorIs(t, err, integration.ErrShopNotFound)
	})
}
