package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/application/alert"
)

// AlertHandler exposes a manual trigger for the stale-shipment scan
type AlertHandler struct {
	BaseHandler
	scanner *alert.Scanner
	logger  *zap.Logger
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(scanner *alert.Scanner, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		scanner: scanner,
		logger:  logger,
	}
}

// RunScan scans every tenant's in-progress shipments and dispatches stale
// shipment notifications, returning the aggregate summary.
func (h *AlertHandler) RunScan(c *gin.Context) {
	summary := h.scanner.Scan(c.Request.Context())

	h.logger.Info("Manual alert scan finished",
		zap.Bool("success", summary.Success),
		zap.Int("processed_orgs", summary.ProcessedOrgs),
		zap.Int("notifications_sent", summary.NotificationsSent),
	)
	h.Success(c, summary)
}
