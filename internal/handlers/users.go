package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// UserHandler lists accounts for admins
type UserHandler struct {
	accounts *services.AccountService
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List returns every user without credentials
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
