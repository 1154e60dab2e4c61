package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// scriptedClient serves a fixed sequence of pages, failing at failAtPage
type scriptedClient struct {
	pages      []integration.Page
	failAtPage int
	calls      int
}

func (c *scriptedClient) FetchPage(_ context.Context, _ *integration.PageRequest) (*integration.Page, error) {
	call := c.calls
	c.calls++
	if c.failAtPage > 0 && call+1 == c.failAtPage {
		return nil, integration.ErrPlatformRequestFailed
	}
	if call >= len(c.pages) {
		return &integration.Page{}, nil
	}
	page := c.pages[call]
	return &page, nil
}

func (c *scriptedClient) FetchRecord(_ context.Context, _ integration.PlatformCredentials, _ integration.RecordKind, _ string) (*integration.PlatformRecord, error) {
	return nil, integration.ErrPlatformRequestFailed
}

func pageOf(token string, ids ...string) integration.Page {
	records := make([]integration.PlatformRecord, len(ids))
	for i, id := range ids {
		records[i] = integration.PlatformRecord{
			ExternalID: id,
			Kind:       integration.RecordKindPayment,
		}
	}
	return integration.Page{Records: records, NextPageToken: token}
}

func pageRequest() *integration.PageRequest {
	return &integration.PageRequest{
		Kind:        integration.RecordKindPayment,
		WindowStart: time.Now().Add(-time.Hour),
		WindowEnd:   time.Now(),
	}
}

func TestPaginatedFetcher_FetchAll(t *testing.T) {
	t.Run("walks all pages preserving server order", func(t *testing.T) {
		client := &scriptedClient{pages: []integration.Page{
			pageOf("t1", "a", "b"),
			pageOf("t2", "c"),
			pageOf("", "d", "e"),
		}}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		records := fetcher.FetchAll(context.Background(), pageRequest())

		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ExternalID
		}
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
		assert.Equal(t, 3, client.calls)
	})

	t.Run("mid-stream failure keeps the pages already fetched", func(t *testing.T) {
		client := &scriptedClient{
			pages: []integration.Page{
				pageOf("t1", "a", "b"),
				pageOf("t2", "c"),
			},
			failAtPage: 3,
		}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		records := fetcher.FetchAll(context.Background(), pageRequest())

		assert.Len(t, records, 3)
	})

	t.Run("first-page failure yields zero records without an error escape", func(t *testing.T) {
		client := &scriptedClient{failAtPage: 1}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		records := fetcher.FetchAll(context.Background(), pageRequest())

		assert.Empty(t, records)
	})

	t.Run("empty first page terminates immediately", func(t *testing.T) {
		client := &scriptedClient{pages: []integration.Page{pageOf("")}}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		records := fetcher.FetchAll(context.Background(), pageRequest())

		assert.Empty(t, records)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("throttles between consecutive pages", func(t *testing.T) {
		pages := make([]integration.Page, 3)
		for i := range pages {
			token := fmt.Sprintf("t%d", i+1)
			if i == len(pages)-1 {
				token = ""
			}
			pages[i] = pageOf(token, fmt.Sprintf("r%d", i))
		}
		client := &scriptedClient{pages: pages}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		start := time.Now()
		fetcher.FetchAll(context.Background(), pageRequest())
		elapsed := time.Since(start)

		// Two page boundaries, one delay each
		assert.GreaterOrEqual(t, elapsed, 2*interPageDelay)
	})

	t.Run("cancelled context stops pagination with partial results", func(t *testing.T) {
		client := &scriptedClient{pages: []integration.Page{
			pageOf("t1", "a"),
			pageOf("t2", "b"),
		}}
		fetcher := NewPaginatedFetcher(client, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		records := fetcher.FetchAll(ctx, pageRequest())

		assert.Len(t, records, 1)
	})
}
