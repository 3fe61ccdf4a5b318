package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"userapi/internal/database"
	"userapi/pkg/response"
)

// HealthHandler serves the liveness and readiness probes. Readiness depends
// on storage reachability; liveness only reflects that the process responds.
type HealthHandler struct {
	db        *gorm.DB
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers the health routes, outside the versioned prefix.
func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	health := app.Group("/health")
	health.Get("/", h.HandleStatus)
	health.Get("/ready", h.HandleReady)
	health.Get("/live", h.HandleLive)
}

type healthStatus struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Database  string  `json:"database"`
	Version   string  `json:"version"`
}

// HandleStatus reports overall service health based on a trivial storage probe.
func (h *HealthHandler) HandleStatus(c *fiber.Ctx) error {
	dbStatus := "connected"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "disconnected"
	}

	status := healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Seconds(),
		Database:  dbStatus,
		Version:   h.version,
	}

	if dbStatus != "connected" {
		status.Status = "unhealthy"
		return response.Error(c, fiber.StatusServiceUnavailable, "Service unhealthy", nil)
	}
	return response.Success(c, fiber.StatusOK, "Service healthy", status)
}

// HandleReady reports whether the service can serve traffic right now.
func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	if err := database.Ping(h.db); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Service not ready", nil)
	}
	return response.Success(c, fiber.StatusOK, "Service ready", fiber.Map{"ready": true})
}

// HandleLive always succeeds while the process is responsive.
func (h *HealthHandler) HandleLive(c *fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "Service alive", fiber.Map{"alive": true})
}
