package tiktok

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// API endpoints for the marketplace open platform
const (
	// ProductionAPIURL is the production API endpoint
	ProductionAPIURL = "https://open-api.tiktokglobalshop.com"
	// SandboxAPIURL is the sandbox API endpoint
	SandboxAPIURL = "https://open-api-sandbox.tiktokglobalshop.com"
)

// Sign generates the request signature for a marketplace API call.
// The signature process:
//  1. Sort all query parameters by key (excluding sign and access_token)
//  2. Concatenate: path + key1 + value1 + key2 + value2 + ...
//  3. Wrap with the app secret on both sides
//  4. Calculate HMAC-SHA256 keyed with the app secret, hex encoded
func Sign(appSecret, path string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" || k == "access_token" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(appSecret)
	builder.WriteString(path)
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString(params[k])
	}
	builder.WriteString(appSecret)

	h := hmac.New(sha256.New, []byte(appSecret))
	h.Write([]byte(builder.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyWebhookSignature checks an inbound webhook signature: hex-encoded
// HMAC-SHA256 over the raw request body with the pre-shared secret. The
// comparison is constant time.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := h.Sum(nil)

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, supplied)
}
