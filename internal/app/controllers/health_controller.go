package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sesi/membership/internal/app/models/dto"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthController reports liveness and dependency health
type HealthController struct {
	checks map[string]HealthCheck
}

// NewHealthController creates a new HealthController
func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// Ping is the liveness probe
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health runs every dependency check and answers 503 if any fails
func (c *HealthController) Health(ctx *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	status := http.StatusOK

	for name, check := range c.checks {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		err := check(cctx)
		cancel()

		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	ctx.JSON(status, resp)
}
