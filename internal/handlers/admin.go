package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// AdminHandler serves superadmin housekeeping endpoints
type AdminHandler struct {
	admin    *services.AdminService
	validate *Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *services.AdminService, validate *Validator) *AdminHandler {
	return &AdminHandler{admin: admin, validate: validate}
}

type createTenantRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type tenantStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// SystemLogs returns the most recent error logs
func (h *AdminHandler) SystemLogs(c *fiber.Ctx) error {
	logs, err := h.admin.ListSystemLogs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// ClearSystemLogs deletes every error log
func (h *AdminHandler) ClearSystemLogs(c *fiber.Ctx) error {
	if _, err := h.admin.ClearSystemLogs(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logs cleared."})
}

// LoginLogs returns the most recent authentication attempts
func (h *AdminHandler) LoginLogs(c *fiber.Ctx) error {
	logs, err := h.admin.ListLoginLogs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// Tenants lists every tenant
func (h *AdminHandler) Tenants(c *fiber.Ctx) error {
	tenants, err := h.admin.ListTenants(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tenants)
}

// CreateTenant registers a new tenant, active by default
func (h *AdminHandler) CreateTenant(c *fiber.Ctx) error {
	var req createTenantRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	tenant, err := h.admin.CreateTenant(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tenant)
}

// SetTenantStatus activates or suspends a tenant
func (h *AdminHandler) SetTenantStatus(c *fiber.Ctx) error {
	var req tenantStatusRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	tenant, err := h.admin.SetTenantStatus(c.UserContext(), c.Params("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(tenant)
}
