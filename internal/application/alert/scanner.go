package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// notifyTimeout bounds one notification dispatch
const notifyTimeout = 5 * time.Second

// TenantResult is the scan outcome for one tenant
type TenantResult struct {
	TenantID         uuid.UUID `json:"tenantId"`
	Warnings         int       `json:"warnings"`
	Criticals        int       `json:"criticals"`
	NotificationSent bool      `json:"notificationSent"`
	Error            string    `json:"error,omitempty"`
}

// ScanSummary aggregates one scan pass across tenants
type ScanSummary struct {
	Success           bool           `json:"success"`
	ProcessedOrgs     int            `json:"processedOrgs"`
	TotalWarnings     int            `json:"totalWarnings"`
	TotalCritical     int            `json:"totalCritical"`
	NotificationsSent int            `json:"notificationsSent"`
	Results           []TenantResult `json:"results"`
	ExecutionTimeMs   int64          `json:"executionTimeMs"`
}

// Scanner walks every tenant with an active notification channel, classifies
// that tenant's in-progress shipments by staleness, and dispatches one
// report message per tenant that has anything to report. Tenants are
// isolated: a failure in one never aborts the others.
type Scanner struct {
	channels integration.NotifyChannelRepository
	tracking integration.TrackingStateRepository
	notifier integration.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScanner creates a new alert Scanner
func NewScanner(
	channels integration.NotifyChannelRepository,
	tracking integration.TrackingStateRepository,
	notifier integration.Notifier,
	logger *zap.Logger,
) *Scanner {
	return &Scanner{
		channels: channels,
		tracking: tracking,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Scan runs one pass over every tenant with an active channel
func (s *Scanner) Scan(ctx context.Context) ScanSummary {
	start := time.Now()
	summary := ScanSummary{Success: true, Results: []TenantResult{}}

	channels, err := s.channels.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load notification channels", zap.Error(err))
		summary.Success = false
		summary.ExecutionTimeMs = time.Since(start).Milliseconds()
		return summary
	}

	for _, channel := range channels {
		result := s.scanTenant(ctx, channel)
		summary.Results = append(summary.Results, result)
		summary.ProcessedOrgs++
		summary.TotalWarnings += result.Warnings
		summary.TotalCritical += result.Criticals
		if result.NotificationSent {
			summary.NotificationsSent++
		}
		if result.Error != "" {
			summary.Success = false
		}
	}

	summary.ExecutionTimeMs = time.Since(start).Milliseconds()
	s.logger.Info("Alert scan complete",
		zap.Int("processed_orgs", summary.ProcessedOrgs),
		zap.Int("total_warnings", summary.TotalWarnings),
		zap.Int("total_critical", summary.TotalCritical),
		zap.Int("notifications_sent", summary.NotificationsSent),
		zap.Int64("execution_time_ms", summary.ExecutionTimeMs),
	)
	return summary
}

// scanTenant classifies one tenant's shipments and dispatches its report
func (s *Scanner) scanTenant(ctx context.Context, channel integration.NotifyChannelConfig) TenantResult {
	result := TenantResult{TenantID: channel.TenantID}

	states, err := s.tracking.FindInProgressByTenant(ctx, channel.TenantID)
	if err != nil {
		s.logger.Error("Failed to load tracking states for tenant",
			zap.String("tenant_id", channel.TenantID.String()),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	now := s.now()
	report := buildReport(states, now)
	result.Warnings = len(report.Warnings)
	result.Criticals = len(report.Criticals)
	if report.Empty() {
		return result
	}

	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.Send(sendCtx, channel.ChatID, report.Text()); err != nil {
		// Logged, never retried; the next scheduled scan reports again
		s.logger.Error("Failed to dispatch alert report",
			zap.String("tenant_id", channel.TenantID.String()),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	result.NotificationSent = true
	return result
}
