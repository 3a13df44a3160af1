package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/middleware"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// TruckHandler handles truck listings and load matching
type TruckHandler struct {
	fleet    *services.FleetService
	validate *Validator
}

// NewTruckHandler creates a new truck handler
func NewTruckHandler(fleet *services.FleetService, validate *Validator) *TruckHandler {
	return &TruckHandler{fleet: fleet, validate: validate}
}

type postTruckRequest struct {
	VehicleNumber   string  `json:"vehicleNumber" validate:"required,min=2,max=20"`
	Capacity        float64 `json:"capacity" validate:"required,gt=0"`
	VehicleType     string  `json:"vehicleType" validate:"required,min=2,max=50"`
	CurrentLocation string  `json:"currentLocation" validate:"required,min=2,max=200"`
}

// PostTruck lists an available truck for the signed-in driver
func (h *TruckHandler) PostTruck(c *fiber.Ctx) error {
	var req postTruckRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	truck, err := h.fleet.PostTruck(c.UserContext(), services.PostTruckInput{
		DriverID:        middleware.Actor(c).UserID,
		VehicleNumber:   req.VehicleNumber,
		Capacity:        req.Capacity,
		VehicleType:     req.VehicleType,
		CurrentLocation: req.CurrentLocation,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(truck)
}

// Available lists trucks that can still be booked
func (h *TruckHandler) Available(c *fiber.Ctx) error {
	trucks, err := h.fleet.ListAvailableTrucks(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(trucks)
}

// Mine lists the signed-in driver's trucks
func (h *TruckHandler) Mine(c *fiber.Ctx) error {
	trucks, err := h.fleet.ListDriverTrucks(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(trucks)
}

// Match ranks available trucks for a load, smallest sufficient first
func (h *TruckHandler) Match(c *fiber.Ctx) error {
	trucks, err := h.fleet.MatchTrucks(c.UserContext(), c.Params("loadId"))
	if err != nil {
		return err
	}
	return c.JSON(trucks)
}
