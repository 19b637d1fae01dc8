package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health statuses reported by the probes.
const (
	StatusHealthy   = "Healthy"
	StatusUnhealthy = "Unhealthy"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck is a named dependency probed by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// CheckResult is one entry of the readiness report.
type CheckResult struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Exception string `json:"exception"`
	Duration  string `json:"duration"`
}

// HealthReport is the body of /health/ready.
type HealthReport struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  []ReadinessCheck
	timeout time.Duration
}

func NewHealthHandler(timeout time.Duration, checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: timeout}
}

func RegisterHealthRoutes(r gin.IRouter, h *HealthHandler) {
	r.GET("/health", h.Live)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusHealthy})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Checks that the item store is reachable.
// @Tags         health
// @Produce      json
// @Success      200  {object}  handlers.HealthReport
// @Failure      503  {object}  handlers.HealthReport
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	report := HealthReport{Status: StatusHealthy, Checks: make([]CheckResult, 0, len(h.checks))}
	for _, chk := range h.checks {
		start := time.Now()
		err := chk.Pinger.Ping(ctx)
		res := CheckResult{
			Name:      chk.Name,
			Status:    StatusHealthy,
			Exception: "none",
			Duration:  time.Since(start).String(),
		}
		if err != nil {
			res.Status = StatusUnhealthy
			res.Exception = err.Error()
			report.Status = StatusUnhealthy
		}
		report.Checks = append(report.Checks, res)
	}

	code := http.StatusOK
	if report.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}
