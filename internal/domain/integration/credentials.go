package integration

import "errors"

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// Shop / credential errors
	ErrShopNotFound     = errors.New("integration: shop not found")
	ErrShopInactive     = errors.New("integration: shop is inactive")
	ErrShopUnsyncable   = errors.New("integration: shop has no cipher token and cannot be synced")
	ErrMissingAppSecret = errors.New("integration: app secret is not configured")

	// Platform errors
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")

	// Record errors
	ErrRecordMissingExternalID = errors.New("integration: record has no external identifier")
	ErrRecordInvalidKind       = errors.New("integration: invalid record kind")

	// Tracking errors
	ErrTrackingStateNotFound = errors.New("integration: tracking state not found")

	// Webhook errors
	ErrWebhookInvalidSignature = errors.New("integration: invalid webhook signature")
	ErrWebhookStaleTimestamp   = errors.New("integration: webhook timestamp outside freshness window")
	ErrWebhookMalformedPayload = errors.New("integration: malformed webhook payload")
	ErrWebhookSecretMissing    = errors.New("integration: webhook secret is not configured")

	// Notification errors
	ErrNotifyChannelNotConfigured = errors.New("integration: notification channel not configured")
	ErrNotifyDispatchFailed       = errors.New("integration: notification dispatch failed")
)

// ---------------------------------------------------------------------------
// PlatformCredentials
// ---------------------------------------------------------------------------

// PlatformCredentials is everything needed to call the marketplace API on
// behalf of one shop. AppKey/AppSecret identify the application; AccessToken
// authorizes the shop; CipherToken authorizes regionalized calls.
type PlatformCredentials struct {
	// AccessToken is the shop's OAuth access token
	AccessToken string
	// CipherToken is the opaque per-shop cipher/region token
	CipherToken string
	// AppKey is the application key from the marketplace open platform
	AppKey string
	// AppSecret is the application secret used for request signing
	AppSecret string
	// APIBaseURL is the base URL for marketplace API calls
	APIBaseURL string
}

// Validate checks that the credentials are usable for API calls
func (c *PlatformCredentials) Validate() error {
	if c.AccessToken == "" {
		return ErrShopUnsyncable
	}
	if c.CipherToken == "" {
		return ErrShopUnsyncable
	}
	if c.AppSecret == "" {
		return ErrMissingAppSecret
	}
	return nil
}
