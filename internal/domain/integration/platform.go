package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Page Types
// ---------------------------------------------------------------------------

// PageRequest describes one paginated list call against the marketplace API
type PageRequest struct {
	// Credentials authorize the call
	Credentials PlatformCredentials
	// Kind selects which record family to list
	Kind RecordKind
	// WindowStart is the inclusive start of the time window
	WindowStart time.Time
	// WindowEnd is the inclusive end of the time window
	WindowEnd time.Time
	// PageSize is the number of records per page
	PageSize int
	// PageToken is the cursor from the previous page; empty for the first
	PageToken string
	// SortField is the server-side sort field
	SortField string
	// SortOrder is ASC or DESC
	SortOrder string
}

// Page is one page of a paginated list response
type Page struct {
	// Records are the page's records in server-provided order
	Records []PlatformRecord
	// NextPageToken is the cursor for the next page; empty when exhausted
	NextPageToken string
}

// HasMore returns true when the server indicated another page exists
func (p *Page) HasMore() bool {
	return p.NextPageToken != ""
}

// ---------------------------------------------------------------------------
// PlatformClient Port
// ---------------------------------------------------------------------------

// PlatformClient is the port to the rate-limited marketplace API. The
// concrete adapter lives in the infrastructure layer.
type PlatformClient interface {
	// FetchPage issues one list call and returns one page of records
	FetchPage(ctx context.Context, req *PageRequest) (*Page, error)

	// FetchRecord retrieves a single record by its external identifier
	FetchRecord(ctx context.Context, creds PlatformCredentials, kind RecordKind, externalID string) (*PlatformRecord, error)
}
