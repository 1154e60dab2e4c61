package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// defaultLookback bounds the fetch window when the caller does not give one
const defaultLookback = 24 * time.Hour

// ShopSyncSummary is the outcome of syncing one shop
type ShopSyncSummary struct {
	ShopID   string `json:"shopId"`
	ShopName string `json:"shopName"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Fetched  int    `json:"fetched"`
	// Error carries the failure reason when the whole shop failed
	Error string `json:"error,omitempty"`
}

// PassSummary aggregates one sync pass across shops
type PassSummary struct {
	Success         bool              `json:"success"`
	ProcessedShops  int               `json:"processedShops"`
	SkippedShops    int               `json:"skippedShops"`
	TotalCreated    int               `json:"totalCreated"`
	TotalUpdated    int               `json:"totalUpdated"`
	TotalSkipped    int               `json:"totalSkipped"`
	Results         []ShopSyncSummary `json:"results"`
	ExecutionTimeMs int64             `json:"executionTimeMs"`
}

// Service orchestrates full sync passes: resolve credentials, fetch every
// record kind page by page, and upsert the results. Shops run sequentially;
// one failing shop never aborts the pass.
type Service struct {
	shops    integration.ShopCredentialRepository
	tracking integration.TrackingStateRepository
	resolver *CredentialResolver
	fetcher  *PaginatedFetcher
	upserter *BatchUpserter
	lookback time.Duration
	pageSize int
	logger   *zap.Logger
}

// ServiceOption is a functional option for Service configuration
type ServiceOption func(*Service)

// WithLookback overrides the default fetch window length
func WithLookback(lookback time.Duration) ServiceOption {
	return func(s *Service) {
		if lookback > 0 {
			s.lookback = lookback
		}
	}
}

// WithPageSize sets the page size requested from the platform. Zero leaves
// the fetcher's default in place.
func WithPageSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates a new sync Service
func NewService(
	shops integration.ShopCredentialRepository,
	tracking integration.TrackingStateRepository,
	resolver *CredentialResolver,
	fetcher *PaginatedFetcher,
	upserter *BatchUpserter,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		shops:    shops,
		tracking: tracking,
		resolver: resolver,
		fetcher:  fetcher,
		upserter: upserter,
		lookback: defaultLookback,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// SyncAll runs one pass over every active shop, sequentially
func (s *Service) SyncAll(ctx context.Context) PassSummary {
	start := time.Now()
	summary := PassSummary{Success: true, Results: []ShopSyncSummary{}}

	shops, err := s.shops.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active shops for sync pass", zap.Error(err))
		summary.Success = false
		summary.ExecutionTimeMs = time.Since(start).Milliseconds()
		return summary
	}

	for i := range shops {
		shop := &shops[i]
		result := attempt(func() (ShopSyncSummary, error) {
			return s.syncShop(ctx, shop)
		})
		if !result.OK() {
			// Unsyncable shops are skipped, anything else is a failure
			shopSummary := ShopSyncSummary{
				ShopID:   shop.ShopID,
				ShopName: shop.ShopName,
				Error:    result.Err.Error(),
			}
			summary.Results = append(summary.Results, shopSummary)
			if isSkippableShopError(result.Err) {
				summary.SkippedShops++
				s.logger.Info("Skipping unsyncable shop",
					zap.String("shop_id", shop.ShopID),
					zap.Error(result.Err),
				)
			} else {
				summary.Success = false
				s.logger.Error("Shop sync failed",
					zap.String("shop_id", shop.ShopID),
					zap.Error(result.Err),
				)
			}
			continue
		}

		shopSummary := result.Value
		summary.Results = append(summary.Results, shopSummary)
		summary.ProcessedShops++
		summary.TotalCreated += shopSummary.Created
		summary.TotalUpdated += shopSummary.Updated
		summary.TotalSkipped += shopSummary.Skipped
	}

	summary.ExecutionTimeMs = time.Since(start).Milliseconds()
	s.logger.Info("Sync pass complete",
		zap.Int("processed_shops", summary.ProcessedShops),
		zap.Int("skipped_shops", summary.SkippedShops),
		zap.Int("total_created", summary.TotalCreated),
		zap.Int("total_updated", summary.TotalUpdated),
		zap.Int64("execution_time_ms", summary.ExecutionTimeMs),
	)
	return summary
}

// SyncShopByID syncs a single shop looked up by its external shop ID
func (s *Service) SyncShopByID(ctx context.Context, shopID string) (ShopSyncSummary, error) {
	shop, err := s.shops.FindByShopID(ctx, shopID)
	if err != nil {
		return ShopSyncSummary{ShopID: shopID}, err
	}
	return s.syncShop(ctx, shop)
}

// syncShop fetches and upserts every record kind for one shop
func (s *Service) syncShop(ctx context.Context, shop *integration.ShopCredential) (ShopSyncSummary, error) {
	summary := ShopSyncSummary{ShopID: shop.ShopID, ShopName: shop.ShopName}

	creds, err := s.resolver.ResolveShop(shop)
	if err != nil {
		return summary, err
	}

	windowEnd := time.Now()
	windowStart := windowEnd.Add(-s.lookback)

	for _, kind := range integration.AllRecordKinds() {
		records := s.fetcher.FetchAll(ctx, &integration.PageRequest{
			Credentials: creds,
			Kind:        kind,
			PageSize:    s.pageSize,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
		})
		summary.Fetched += len(records)
		if len(records) == 0 {
			continue
		}

		stats, err := s.upserter.UpsertAll(ctx, shop.ID, kind, records)
		if err != nil {
			return summary, err
		}
		summary.Created += stats.Created
		summary.Updated += stats.Updated
		summary.Skipped += stats.Skipped

		if kind == integration.RecordKindTrackingEvent {
			s.applyTrackingStates(ctx, shop, records)
		}
	}

	return summary, nil
}

// applyTrackingStates mirrors fetched tracking events into the tracking
// state table the alert scanner reads. Events without a usable order and
// tracking number pair, or with a status we do not model, are ignored.
func (s *Service) applyTrackingStates(ctx context.Context, shop *integration.ShopCredential, records []integration.PlatformRecord) {
	for i := range records {
		record := &records[i]
		if record.OrderID == "" || record.TrackingNumber == "" {
			continue
		}
		status := integration.CarrierStatus(record.Status)
		if !status.IsValid() {
			continue
		}

		err := s.tracking.Upsert(ctx, &integration.TrackingState{
			TenantID:         shop.TenantID,
			ShopCredentialID: shop.ID,
			ShopName:         shop.ShopName,
			OrderID:          record.OrderID,
			TrackingNumber:   record.TrackingNumber,
			Provider:         record.Provider,
			Status:           status,
		})
		if err != nil {
			s.logger.Warn("Failed to upsert tracking state",
				zap.String("shop_id", shop.ShopID),
				zap.String("order_id", record.OrderID),
				zap.Error(err),
			)
		}
	}
}

// isSkippableShopError reports whether a shop should be counted as skipped
// rather than failed
func isSkippableShopError(err error) bool {
	return errors.Is(err, integration.ErrShopUnsyncable) ||
		errors.Is(err, integration.ErrShopInactive)
}
