package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// Pinger is satisfied by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and which optional capabilities are wired
type HealthHandler struct {
	store Pinger
	caps  services.Capabilities
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, caps services.Capabilities) *HealthHandler {
	return &HealthHandler{store: store, caps: caps}
}

// Banner answers the root path
func (h *HealthHandler) Banner(c *fiber.Ctx) error {
	return c.SendString("Fleetiva API is running")
}

// Health pings storage and lists configured capabilities
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"timestamp":    time.Now().UTC(),
		"capabilities": h.caps.Status(),
	})
}

// Logistics answers the legacy logistics probe
func (h *HealthHandler) Logistics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "Logistics route working"})
}
