package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/application/alert"
	syncapp "github.com/shoppulse/backend/internal/application/sync"
)

// jobTimeout bounds one scheduled run of either job
const jobTimeout = 30 * time.Minute

// Config holds the cron schedules for the periodic jobs
type Config struct {
	// SyncSchedule is the cron expression for the full sync pass
	SyncSchedule string
	// AlertSchedule is the cron expression for the tracking alert scan
	AlertSchedule string
}

// CronScheduler runs the periodic sync pass and alert scan. Both jobs are
// also triggerable manually over HTTP; the scheduler only adds the clock.
type CronScheduler struct {
	config  Config
	syncSvc *syncapp.Service
	scanner *alert.Scanner
	cron    *cron.Cron
	logger  *zap.Logger

	mu        sync.Mutex
	isRunning bool
}

// NewCronScheduler creates a new CronScheduler
func NewCronScheduler(config Config, syncSvc *syncapp.Service, scanner *alert.Scanner, logger *zap.Logger) *CronScheduler {
	return &CronScheduler{
		config:  config,
		syncSvc: syncSvc,
		scanner: scanner,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop
func (s *CronScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.SyncSchedule, s.runSyncPass); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.config.AlertSchedule, s.runAlertScan); err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Scheduler started",
		zap.String("sync_schedule", s.config.SyncSchedule),
		zap.String("alert_schedule", s.config.AlertSchedule),
	)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// runSyncPass executes one scheduled full sync pass
func (s *CronScheduler) runSyncPass() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.logger.Info("Scheduled sync pass starting")
	summary := s.syncSvc.SyncAll(ctx)
	s.logger.Info("Scheduled sync pass finished",
		zap.Bool("success", summary.Success),
		zap.Int("processed_shops", summary.ProcessedShops),
		zap.Int("total_created", summary.TotalCreated),
		zap.Int("total_updated", summary.TotalUpdated),
		zap.Int64("execution_time_ms", summary.ExecutionTimeMs),
	)
}

// runAlertScan executes one scheduled tracking alert scan
func (s *CronScheduler) runAlertScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.logger.Info("Scheduled alert scan starting")
	summary := s.scanner.Scan(ctx)
	s.logger.Info("Scheduled alert scan finished",
		zap.Bool("success", summary.Success),
		zap.Int("processed_orgs", summary.ProcessedOrgs),
		zap.Int("notifications_sent", summary.NotificationsSent),
		zap.Int64("execution_time_ms", summary.ExecutionTimeMs),
	)
}
