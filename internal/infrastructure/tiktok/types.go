package tiktok

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// apiResponse is the common envelope for marketplace API responses
type apiResponse struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Data      *pageData `json:"data"`
}

// IsSuccess returns true when the platform reports business success
func (r *apiResponse) IsSuccess() bool {
	return r.Code == 0
}

// pageData is one page of a paginated list response
type pageData struct {
	Records       []json.RawMessage `json:"records"`
	NextPageToken string            `json:"next_page_token"`
	TotalCount    int64             `json:"total_count"`
}

// detailResponse is the envelope for single-record detail calls
type detailResponse struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

// IsSuccess returns true when the platform reports business success
func (r *detailResponse) IsSuccess() bool {
	return r.Code == 0
}

// knownRecordFields are lifted out of the raw object into typed fields;
// everything else stays in the record's Extra map.
var knownRecordFields = []string{
	"id", "shop_id", "status", "amount", "currency", "order_id",
	"tracking_number", "provider", "content",
	"event_time", "create_time", "update_time",
}

// decodeRecord converts one raw platform object into a PlatformRecord.
// Unmodeled fields are preserved in Extra so schema drift loses nothing.
func decodeRecord(kind integration.RecordKind, raw json.RawMessage) (*integration.PlatformRecord, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	record := &integration.PlatformRecord{
		ExternalID:     stringField(fields, "id"),
		Kind:           kind,
		ShopID:         stringField(fields, "shop_id"),
		Status:         stringField(fields, "status"),
		Currency:       stringField(fields, "currency"),
		OrderID:        stringField(fields, "order_id"),
		TrackingNumber: stringField(fields, "tracking_number"),
		Provider:       stringField(fields, "provider"),
		Content:        stringField(fields, "content"),
		EventTime:      timeField(fields, "event_time"),
		CreateTime:     timeField(fields, "create_time"),
		UpdateTime:     timeField(fields, "update_time"),
	}

	if amount := stringField(fields, "amount"); amount != "" {
		if dec, err := decimal.NewFromString(amount); err == nil {
			record.Amount = dec
		}
	}

	for _, k := range knownRecordFields {
		delete(fields, k)
	}
	if len(fields) > 0 {
		record.Extra = fields
	}

	return record, nil
}

// stringField reads a string value, tolerating numeric identifiers
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return ""
	}
}

// timeField reads a unix-seconds timestamp, zero when absent
func timeField(fields map[string]any, key string) time.Time {
	switch v := fields[key].(type) {
	case float64:
		if v <= 0 {
			return time.Time{}
		}
		return time.Unix(int64(v), 0)
	case json.Number:
		if sec, err := v.Int64(); err == nil && sec > 0 {
			return time.Unix(sec, 0)
		}
	}
	return time.Time{}
}
