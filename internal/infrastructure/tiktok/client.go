package tiktok

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// listPaths maps each record kind to its paginated search endpoint
var listPaths = map[integration.RecordKind]string{
	integration.RecordKindPayment:       "/finance/payments/search",
	integration.RecordKindStatement:     "/finance/statements/search",
	integration.RecordKindPackage:       "/fulfillment/packages/search",
	integration.RecordKindConversation:  "/customer_service/messages/search",
	integration.RecordKindTrackingEvent: "/fulfillment/tracking_events/search",
}

// detailPaths maps each record kind to its single-record detail endpoint
var detailPaths = map[integration.RecordKind]string{
	integration.RecordKindPayment:       "/finance/payments/detail",
	integration.RecordKindStatement:     "/finance/statements/detail",
	integration.RecordKindPackage:       "/fulfillment/packages/detail",
	integration.RecordKindConversation:  "/customer_service/messages/detail",
	integration.RecordKindTrackingEvent: "/fulfillment/tracking_events/detail",
}

// Client calls the marketplace open API. It implements the
// integration.PlatformClient port.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// ClientOption is a functional option for Client configuration
type ClientOption func(*Client)

// WithTimeout overrides the default HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// NewClient creates a new marketplace API client
func NewClient(logger *zap.Logger, opts ...ClientOption) *Client {
	client := &Client{
		http: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "shoppulse-sync/1.0").
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchPage issues one signed list call and returns one page of records
func (c *Client) FetchPage(ctx context.Context, req *integration.PageRequest) (*integration.Page, error) {
	path, ok := listPaths[req.Kind]
	if !ok {
		return nil, integration.ErrRecordInvalidKind
	}

	params := map[string]string{
		"app_key":        req.Credentials.AppKey,
		"shop_cipher":    req.Credentials.CipherToken,
		"timestamp":      strconv.FormatInt(time.Now().Unix(), 10),
		"page_size":      strconv.Itoa(req.PageSize),
		"create_time_ge": strconv.FormatInt(req.WindowStart.Unix(), 10),
		"create_time_lt": strconv.FormatInt(req.WindowEnd.Unix(), 10),
	}
	if req.PageToken != "" {
		params["page_token"] = req.PageToken
	}
	if req.SortField != "" {
		params["sort_field"] = req.SortField
	}
	if req.SortOrder != "" {
		params["sort_order"] = req.SortOrder
	}
	params["sign"] = Sign(req.Credentials.AppSecret, path, params)

	var envelope apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("x-tts-access-token", req.Credentials.AccessToken).
		SetResult(&envelope).
		ForceContentType("application/json").
		Post(c.baseURL(req.Credentials) + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode())
	}
	if !envelope.IsSuccess() {
		return nil, fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, envelope.Code, envelope.Message)
	}
	if envelope.Data == nil {
		return nil, integration.ErrPlatformInvalidResponse
	}

	page := &integration.Page{
		Records:       make([]integration.PlatformRecord, 0, len(envelope.Data.Records)),
		NextPageToken: envelope.Data.NextPageToken,
	}
	for _, raw := range envelope.Data.Records {
		record, err := decodeRecord(req.Kind, raw)
		if err != nil {
			// One undecodable record must not sink the page
			c.logger.Warn("Skipping undecodable platform record",
				zap.String("kind", req.Kind.String()),
				zap.Error(err),
			)
			continue
		}
		page.Records = append(page.Records, *record)
	}

	return page, nil
}

// FetchRecord retrieves a single record by its external identifier
func (c *Client) FetchRecord(ctx context.Context, creds integration.PlatformCredentials, kind integration.RecordKind, externalID string) (*integration.PlatformRecord, error) {
	path, ok := detailPaths[kind]
	if !ok {
		return nil, integration.ErrRecordInvalidKind
	}
	if externalID == "" {
		return nil, integration.ErrRecordMissingExternalID
	}

	params := map[string]string{
		"app_key":     creds.AppKey,
		"shop_cipher": creds.CipherToken,
		"timestamp":   strconv.FormatInt(time.Now().Unix(), 10),
		"id":          externalID,
	}
	params["sign"] = Sign(creds.AppSecret, path, params)

	var envelope detailResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("x-tts-access-token", creds.AccessToken).
		SetResult(&envelope).
		ForceContentType("application/json").
		Get(c.baseURL(creds) + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode())
	}
	if !envelope.IsSuccess() {
		return nil, fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, envelope.Code, envelope.Message)
	}
	if envelope.Data == nil {
		return nil, integration.ErrPlatformInvalidResponse
	}

	return decodeRecord(kind, envelope.Data)
}

// baseURL picks the credential's API base, defaulting to production
func (c *Client) baseURL(creds integration.PlatformCredentials) string {
	if creds.APIBaseURL != "" {
		return creds.APIBaseURL
	}
	return ProductionAPIURL
}

// Ensure Client implements the PlatformClient port
var _ integration.PlatformClient = (*Client)(nil)
