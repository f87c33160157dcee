package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler reports liveness together with store reachability.
type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger logger.Interface
}

func NewHealthHandler(ping func(ctx context.Context) error, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		ping:   ping,
		logger: logger,
	}
}

// HealthCheck pings the store.
// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Errorw("health check failed", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, errors.ErrorTypeDatabase, "database unavailable")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"status":   "ok",
		"database": "ok",
	})
}

// NotFound answers unmatched routes with the error envelope.
func NotFound(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusNotFound, errors.ErrorTypeNotFound, "route not found")
}
