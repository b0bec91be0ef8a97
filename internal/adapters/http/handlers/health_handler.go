package handlers

import (
	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/config"
	"trustbuild-shell/internal/core/services"
)

// HealthHandler handles the shell's own health endpoint
type HealthHandler struct {
	api     *services.APIService
	monitor *services.NetworkMonitor
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(api *services.APIService, monitor *services.NetworkMonitor) *HealthHandler {
	return &HealthHandler{
		api:     api,
		monitor: monitor,
	}
}

// HealthCheck reports shell, store, backend and network health
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	storeStatus := "healthy"
	if err := config.StoreHealthCheck(); err != nil {
		storeStatus = "unhealthy"
	}

	backendStatus := "unreachable"
	if h.api.Health(c.Context()) {
		backendStatus = "healthy"
	}

	network := h.monitor.Snapshot()

	return c.JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"shell":   "healthy",
			"store":   storeStatus,
			"backend": backendStatus,
		},
		"network": fiber.Map{
			"isConnected":         network.IsConnected,
			"isInternetReachable": network.IsInternetReachable,
			"isOnline":            network.IsOnline(),
		},
	})
}
