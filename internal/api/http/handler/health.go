package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthService interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler

	log *zap.Logger
	svc HealthService
}

func NewHealthHandler(log *zap.Logger, svc HealthService) *HealthHandler {
	return &HealthHandler{
		log: log,
		svc: svc,
	}
}

// Ping
// @Summary Liveness probe.
// @Description Returns "pong".
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "Success"
// @Router /health/ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, ResponseWithMessage{
		Success: true,
		Message: "pong",
	})
}

// Health
// @Summary Readiness probe.
// @Description Verifies the database is reachable.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "Success"
// @Failure 500 {object} ResponseWithError "Dependency unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Check(ctx); err != nil {
		h.log.Error("Health check failed", zap.Error(err))

		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Success: true,
		Message: "ok",
	})
}
