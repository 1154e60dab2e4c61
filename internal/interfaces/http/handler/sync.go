package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/shoppulse/backend/internal/application/sync"
)

// SyncHandler exposes manual triggers for the marketplace sync pass
type SyncHandler struct {
	BaseHandler
	service *syncapp.Service
	logger  *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *syncapp.Service, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service: service,
		logger:  logger,
	}
}

// RunAll runs a full sync pass over every active shop and returns the
// aggregate summary. The pass itself never fails the request; partial
// failures are reported inside the summary.
func (h *SyncHandler) RunAll(c *gin.Context) {
	summary := h.service.SyncAll(c.Request.Context())

	h.logger.Info("Manual sync pass finished",
		zap.Bool("success", summary.Success),
		zap.Int("processed_shops", summary.ProcessedShops),
		zap.Int64("execution_time_ms", summary.ExecutionTimeMs),
	)
	h.Success(c, summary)
}

// RunShop syncs a single shop identified by its platform shop ID
func (h *SyncHandler) RunShop(c *gin.Context) {
	shopID := c.Param("shop_id")
	if shopID == "" {
		h.BadRequest(c, "shop_id is required")
		return
	}

	summary, err := h.service.SyncShopByID(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
