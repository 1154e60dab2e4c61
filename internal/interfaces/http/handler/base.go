package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, the status code is derived from the
// error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUnauthorized, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeConflict, message)
}

// InvalidState sends a 422 response for operations the resource's
// current state does not allow
func (h *BaseHandler) InvalidState(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInvalidState, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInternal, message)
}

// ServiceUnavailable sends a 503 service unavailable response
func (h *BaseHandler) ServiceUnavailable(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUpstreamUnavailable, message)
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, integration.ErrShopNotFound),
		errors.Is(err, integration.ErrTrackingStateNotFound):
		h.NotFound(c, err.Error())
	case errors.Is(err, integration.ErrShopInactive),
		errors.Is(err, integration.ErrShopUnsyncable):
		h.InvalidState(c, err.Error())
	case errors.Is(err, integration.ErrRecordMissingExternalID),
		errors.Is(err, integration.ErrRecordInvalidKind):
		h.BadRequest(c, err.Error())
	case errors.Is(err, integration.ErrPlatformUnavailable):
		h.ServiceUnavailable(c, err.Error())
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}
