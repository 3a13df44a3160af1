package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/middleware"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// LoadHandler handles load-related requests
type LoadHandler struct {
	fleet    *services.FleetService
	validate *Validator
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(fleet *services.FleetService, validate *Validator) *LoadHandler {
	return &LoadHandler{fleet: fleet, validate: validate}
}

type postLoadRequest struct {
	Material         string  `json:"material" validate:"required,min=2,max=100"`
	RequiredCapacity float64 `json:"requiredCapacity" validate:"required,gt=0"`
	From             string  `json:"from" validate:"required,min=2,max=200"`
	To               string  `json:"to" validate:"required,min=2,max=200"`
	ConsignorName    string  `json:"consignorName" validate:"required,min=2,max=200"`
	ConsigneeName    string  `json:"consigneeName" validate:"required,min=2,max=200"`
}

// PostLoad creates a pending load for the signed-in customer
func (h *LoadHandler) PostLoad(c *fiber.Ctx) error {
	var req postLoadRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	load, err := h.fleet.PostLoad(c.UserContext(), services.PostLoadInput{
		CustomerID:       middleware.Actor(c).UserID,
		Material:         req.Material,
		RequiredCapacity: req.RequiredCapacity,
		From:             req.From,
		To:               req.To,
		ConsignorName:    req.ConsignorName,
		ConsigneeName:    req.ConsigneeName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(load)
}

// Available lists loads, optionally filtered by ?status=
func (h *LoadHandler) Available(c *fiber.Ctx) error {
	loads, err := h.fleet.ListLoads(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(loads)
}

// Mine lists the signed-in customer's loads
func (h *LoadHandler) Mine(c *fiber.Ctx) error {
	loads, err := h.fleet.ListCustomerLoads(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(loads)
}
