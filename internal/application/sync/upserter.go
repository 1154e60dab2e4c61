package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

const (
	// defaultBatchSize is the number of records per upsert batch
	defaultBatchSize = 50
	// maxBatchSize caps a configured batch size
	maxBatchSize = 100
)

// UpsertStats counts what one upsert run did with its records
type UpsertStats struct {
	Created int
	Updated int
	Skipped int
}

// Add accumulates another run's counts
func (s *UpsertStats) Add(other UpsertStats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
}

// BatchUpserter writes fetched platform records idempotently. Each batch
// costs one existence query plus one bounded transaction; records that
// carry no external ID or fail validation are skipped and logged, never
// fatal to the batch.
type BatchUpserter struct {
	records   integration.SyncRecordRepository
	batchSize int
	logger    *zap.Logger
}

// NewBatchUpserter creates a new BatchUpserter. A batchSize outside
// (0, maxBatchSize] falls back to the default.
func NewBatchUpserter(records integration.SyncRecordRepository, batchSize int, logger *zap.Logger) *BatchUpserter {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = defaultBatchSize
	}
	return &BatchUpserter{
		records:   records,
		batchSize: batchSize,
		logger:    logger,
	}
}

// UpsertAll processes the records in batches and returns aggregate counts.
// A batch that fails to apply is logged and skipped; later batches still run.
func (u *BatchUpserter) UpsertAll(ctx context.Context, ownerID uuid.UUID, kind integration.RecordKind, records []integration.PlatformRecord) (UpsertStats, error) {
	var stats UpsertStats
	for start := 0; start < len(records); start += u.batchSize {
		end := start + u.batchSize
		if end > len(records) {
			end = len(records)
		}

		result := attempt(func() (UpsertStats, error) {
			return u.upsertBatch(ctx, ownerID, kind, records[start:end])
		})
		if !result.OK() {
			u.logger.Error("Batch upsert failed, continuing with next batch",
				zap.String("kind", kind.String()),
				zap.Int("batch_start", start),
				zap.Int("batch_len", end-start),
				zap.Error(result.Err),
			)
			stats.Skipped += end - start
			continue
		}
		stats.Add(result.Value)
	}
	return stats, nil
}

// upsertBatch partitions one batch into creates and updates with a single
// existence query, then applies both sides in one transaction.
func (u *BatchUpserter) upsertBatch(ctx context.Context, ownerID uuid.UUID, kind integration.RecordKind, batch []integration.PlatformRecord) (UpsertStats, error) {
	var stats UpsertStats

	usable := make([]integration.PlatformRecord, 0, len(batch))
	externalIDs := make([]string, 0, len(batch))
	seen := make(map[string]int, len(batch))
	for i := range batch {
		record := &batch[i]
		if err := record.Validate(); err != nil {
			stats.Skipped++
			u.logger.Warn("Skipping invalid platform record",
				zap.String("kind", kind.String()),
				zap.String("external_id", record.ExternalID),
				zap.Error(err),
			)
			continue
		}
		// A duplicate external ID within one batch would collide on the
		// bulk insert; keep the latest occurrence.
		if at, ok := seen[record.ExternalID]; ok {
			usable[at] = *record
			stats.Skipped++
			continue
		}
		seen[record.ExternalID] = len(usable)
		usable = append(usable, *record)
		externalIDs = append(externalIDs, record.ExternalID)
	}
	if len(usable) == 0 {
		return stats, nil
	}

	existing, err := u.records.ExistingExternalIDs(ctx, ownerID, kind, externalIDs)
	if err != nil {
		return stats, err
	}

	var created, updated []integration.PlatformRecord
	for _, record := range usable {
		if _, ok := existing[record.ExternalID]; ok {
			updated = append(updated, record)
		} else {
			created = append(created, record)
		}
	}

	if err := u.records.ApplyBatch(ctx, ownerID, kind, created, updated); err != nil {
		return stats, err
	}

	stats.Created += len(created)
	stats.Updated += len(updated)
	return stats, nil
}
