package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/store"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger checks a backing connection. *database.Database satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	db        Pinger
	store     store.Store
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance. db may be nil when
// snapshot persistence is disabled.
func NewHealthHandler(db Pinger, st store.Store, env string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		store:     st,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// InventoryStats summarizes the marketplace state.
type InventoryStats struct {
	Properties     int `json:"properties"`
	PendingReview  int `json:"pendingReview"`
	Flagged        int `json:"flagged"`
	PendingReports int `json:"pendingReports"`
	Users          int `json:"users"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string         `json:"version"`
	Environment string         `json:"environment"`
	Uptime      string         `json:"uptime"`
	Inventory   InventoryStats `json:"inventory"`
}

// Health handles GET /health endpoint.
// Liveness only; no dependency is checked.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 503 when the snapshot database is configured but unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, ReadyResponse{
			Status:   "ready",
			Database: "disabled",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Database health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Database: "connected",
	})
}

// Info handles GET /api/v1/info endpoint.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
		Inventory:   h.inventory(),
	})
}

func (h *HealthHandler) inventory() InventoryStats {
	var stats InventoryStats
	if h.store == nil {
		return stats
	}

	props := h.store.ListProperties()
	stats.Properties = len(props)
	for _, p := range props {
		if !p.Verified {
			stats.PendingReview++
		}
		if p.Reported {
			stats.Flagged++
		}
	}
	pending := models.ReportPending
	stats.PendingReports = len(h.store.ListReports(&pending))
	stats.Users = len(h.store.ListUsers())
	return stats
}

// formatUptime formats a duration as "1d 2h 3m 4s", omitting zero days.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
