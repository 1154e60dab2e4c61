package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// interPageDelay throttles consecutive page fetches against the platform
const interPageDelay = 100 * time.Millisecond

// defaultPageSize is the page size requested from the platform
const defaultPageSize = 100

// PaginatedFetcher walks a cursor-paginated platform listing to completion,
// preserving server order. A failure after the first page returns whatever
// accumulated so far; a failure on the first page returns zero records. In
// neither case does the error escape to the caller.
type PaginatedFetcher struct {
	client integration.PlatformClient
	logger *zap.Logger
}

// NewPaginatedFetcher creates a new PaginatedFetcher
func NewPaginatedFetcher(client integration.PlatformClient, logger *zap.Logger) *PaginatedFetcher {
	return &PaginatedFetcher{
		client: client,
		logger: logger,
	}
}

// FetchAll accumulates every page for the request window. The request's
// page token is managed internally; callers pass a blank token.
func (f *PaginatedFetcher) FetchAll(ctx context.Context, req *integration.PageRequest) []integration.PlatformRecord {
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	var records []integration.PlatformRecord
	pageToken := ""
	pageCount := 0

	for {
		req.PageToken = pageToken
		page, err := f.client.FetchPage(ctx, req)
		if err != nil {
			// Keep what we have; the next scheduled pass catches up
			f.logger.Error("Page fetch failed, returning partial results",
				zap.String("kind", req.Kind.String()),
				zap.Int("pages_fetched", pageCount),
				zap.Int("records_accumulated", len(records)),
				zap.Error(err),
			)
			return records
		}

		records = append(records, page.Records...)
		pageCount++

		if !page.HasMore() {
			break
		}
		pageToken = page.NextPageToken

		select {
		case <-ctx.Done():
			f.logger.Warn("Pagination cancelled, returning partial results",
				zap.String("kind", req.Kind.String()),
				zap.Int("records_accumulated", len(records)),
			)
			return records
		case <-time.After(interPageDelay):
		}
	}

	f.logger.Debug("Pagination complete",
		zap.String("kind", req.Kind.String()),
		zap.Int("pages", pageCount),
		zap.Int("records", len(records)),
	)
	return records
}
