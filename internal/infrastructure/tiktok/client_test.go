package tiktok

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

func testCredentials(baseURL string) integration.PlatformCredentials {
	return integration.PlatformCredentials{
		AccessToken: "access-token",
		CipherToken: "cipher-token",
		AppKey:      "app-key",
		AppSecret:   "app-secret",
		APIBaseURL:  baseURL,
	}
}

func testPageRequest(baseURL string) *integration.PageRequest {
	return &integration.PageRequest{
		Credentials: testCredentials(baseURL),
		Kind:        integration.RecordKindPayment,
		WindowStart: time.Unix(1_700_000_000, 0),
		WindowEnd:   time.Unix(1_700_086_400, 0),
		PageSize:    50,
	}
}

func TestClient_FetchPage(t *testing.T) {
	ctx := context.Background()

	t.Run("sends signed query and decodes the page", func(t *testing.T) {
		var captured *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Clone(r.Context())
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"code": 0,
				"message": "Success",
				"data": {
					"records": [
						{"id": "p-1", "status": "PAID", "amount": "12.50", "currency": "USD", "order_id": "o-1", "bank_ref": "B-1"},
						{"id": "p-2", "status": "PENDING", "amount": 3.75, "currency": "USD"}
					],
					"next_page_token": "tok-2",
					"total_count": 2
				}
			}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		page, err := client.FetchPage(ctx, testPageRequest(server.URL))
		require.NoError(t, err)

		require.NotNil(t, captured)
		assert.Equal(t, "/finance/payments/search", captured.URL.Path)
		query := captured.URL.Query()
		assert.Equal(t, "app-key", query.Get("app_key"))
		assert.Equal(t, "cipher-token", query.Get("shop_cipher"))
		assert.Equal(t, "50", query.Get("page_size"))
		assert.NotEmpty(t, query.Get("sign"))
		assert.Equal(t, "access-token", captured.Header.Get("x-tts-access-token"))

		// The signature must cover the sent params minus sign itself
		params := map[string]string{}
		for key, values := range query {
			params[key] = values[0]
		}
		assert.Equal(t, Sign("app-secret", "/finance/payments/search", params), query.Get("sign"))

		require.Len(t, page.Records, 2)
		assert.Equal(t, "p-1", page.Records[0].ExternalID)
		assert.Equal(t, "12.5", page.Records[0].Amount.String())
		assert.Equal(t, "B-1", page.Records[0].Extra["bank_ref"])
		assert.Equal(t, "tok-2", page.NextPageToken)
		assert.True(t, page.HasMore())
	})

	t.Run("last page has no next token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"code":0,"data":{"records":[],"next_page_token":""}}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		page, err := client.FetchPage(ctx, testPageRequest(server.URL))
		require.NoError(t, err)

		assert.Empty(t, page.Records)
		assert.False(t, page.HasMore())
	})

	t.Run("business error code maps to request failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"code":105001,"message":"invalid shop cipher"}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		_, err := client.FetchPage(ctx, testPageRequest(server.URL))

		assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
		assert.Contains(t, err.Error(), "invalid shop cipher")
	})

	t.Run("HTTP error status maps to request failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		_, err := client.FetchPage(ctx, testPageRequest(server.URL))

		assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
	})

	t.Run("unreachable host maps to unavailable", func(t *testing.T) {
		client := NewClient(zap.NewNop(), WithTimeout(200*time.Millisecond))
		req := testPageRequest("http://127.0.0.1:1")

		_, err := client.FetchPage(ctx, req)

		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
	})

	t.Run("success without data block is an invalid response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"code":0,"message":"Success"}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		_, err := client.FetchPage(ctx, testPageRequest(server.URL))

		assert.ErrorIs(t, err, integration.ErrPlatformInvalidResponse)
	})

	t.Run("undecodable record is skipped, page survives", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"code":0,"data":{"records":[
				{"id":"good-1","status":"PAID"},
				"just a string",
				{"id":"good-2","status":"PAID"}
			]}}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		page, err := client.FetchPage(ctx, testPageRequest(server.URL))
		require.NoError(t, err)

		require.Len(t, page.Records, 2)
		assert.Equal(t, "good-1", page.Records[0].ExternalID)
		assert.Equal(t, "good-2", page.Records[1].ExternalID)
	})

	t.Run("unknown kind is rejected before any call", func(t *testing.T) {
		client := NewClient(zap.NewNop())
		req := testPageRequest("http://unused")
		req.Kind = integration.RecordKind("NOT_A_KIND")

		_, err := client.FetchPage(ctx, req)
		assert.ErrorIs(t, err, integration.ErrRecordInvalidKind)
	})
}

func TestClient_FetchRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches one record by ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fulfillment/packages/detail", r.URL.Path)
			assert.Equal(t, "pkg-9", r.URL.Query().Get("id"))
			w.Write([]byte(`{"code":0,"data":{"id":"pkg-9","status":"IN_TRANSIT","tracking_number":"TRK-9","provider":"ups"}}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop())
		record, err := client.FetchRecord(ctx, testCredentials(server.URL), integration.RecordKindPackage, "pkg-9")
		require.NoError(t, err)

		assert.Equal(t, "pkg-9", record.ExternalID)
		assert.Equal(t, "TRK-9", record.TrackingNumber)
		assert.Equal(t, integration.RecordKindPackage, record.Kind)
	})

	t.Run("empty ID is rejected", func(t *testing.T) {
		client := NewClient(zap.NewNop())
		_, err := client.FetchRecord(ctx, testCredentials("http://unused"), integration.RecordKindPackage, "")
		assert.ErrorIs(t, err, integration.ErrRecordMissingExternalID)
	})
}

func TestSign(t *testing.T) {
	t.Run("is deterministic and order independent", func(t *testing.T) {
		a := Sign("secret", "/path", map[string]string{"b": "2", "a": "1"})
		b := Sign("secret", "/path", map[string]string{"a": "1", "b": "2"})
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("excludes sign and access_token params", func(t *testing.T) {
		base := Sign("secret", "/path", map[string]string{"a": "1"})
		withExcluded := Sign("secret", "/path", map[string]string{
			"a": "1", "sign": "junk", "access_token": "junk",
		})
		assert.Equal(t, base, withExcluded)
	})

	t.Run("changes with any input", func(t *testing.T) {
		base := Sign("secret", "/path", map[string]string{"a": "1"})
		assert.NotEqual(t, base, Sign("secret2", "/path", map[string]string{"a": "1"}))
		assert.NotEqual(t, base, Sign("secret", "/other", map[string]string{"a": "1"}))
		assert.NotEqual(t, base, Sign("secret", "/path", map[string]string{"a": "2"}))
	})
}

// computeTestSignature mirrors the platform's webhook signing
func computeTestSignature(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"type":"ORDER_STATUS_CHANGE"}`)

	t.Run("accepts a matching signature", func(t *testing.T) {
		signature := computeTestSignature("secret", body)
		assert.True(t, VerifyWebhookSignature("secret", body, signature))
	})

	t.Run("rejects a signature from another secret", func(t *testing.T) {
		signature := computeTestSignature("other", body)
		assert.False(t, VerifyWebhookSignature("secret", body, signature))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		signature := computeTestSignature("secret", body)
		assert.False(t, VerifyWebhookSignature("secret", []byte(`{"type":"X"}`), signature))
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature("secret", body, "zzzz"))
	})
}
