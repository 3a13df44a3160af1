package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// BiltyHandler handles admin maintenance of shipment documents
type BiltyHandler struct {
	bilties  *services.BiltyService
	validate *Validator
}

// NewBiltyHandler creates a new bilty handler
func NewBiltyHandler(bilties *services.BiltyService, validate *Validator) *BiltyHandler {
	return &BiltyHandler{bilties: bilties, validate: validate}
}

// biltyRequest lists the only fields a client may set on a bilty.
type biltyRequest struct {
	LRNumber       *string  `json:"lrNumber" validate:"omitempty,max=40"`
	ConsignorName  *string  `json:"consignorName" validate:"omitempty,min=2,max=200"`
	ConsigneeName  *string  `json:"consigneeName" validate:"omitempty,min=2,max=200"`
	PickupLocation *string  `json:"pickupLocation" validate:"omitempty,min=2,max=200"`
	DropLocation   *string  `json:"dropLocation" validate:"omitempty,min=2,max=200"`
	MaterialType   *string  `json:"materialType" validate:"omitempty,min=2,max=100"`
	Weight         *float64 `json:"weight" validate:"omitempty,gt=0"`
	TruckType      *string  `json:"truckType" validate:"omitempty,min=2,max=50"`
	DriverName     *string  `json:"driverName" validate:"omitempty,min=2,max=100"`
	DriverPhone    *string  `json:"driverPhone" validate:"omitempty,phone"`
	VehicleNumber  *string  `json:"vehicleNumber" validate:"omitempty,min=2,max=20"`
	FreightAmount  *float64 `json:"freightAmount" validate:"omitempty,gte=0"`
	AdvancePaid    *float64 `json:"advancePaid" validate:"omitempty,gte=0"`
	BalanceAmount  *float64 `json:"balanceAmount" validate:"omitempty,gte=0"`
	PaymentMode    *string  `json:"paymentMode" validate:"omitempty,oneof=cash bank upi card"`
	ShipmentStatus *string  `json:"shipmentStatus" validate:"omitempty,oneof=assigned in-transit delivered"`
}

func (r biltyRequest) fields() services.BiltyFields {
	return services.BiltyFields{
		LRNumber:       r.LRNumber,
		ConsignorName:  r.ConsignorName,
		ConsigneeName:  r.ConsigneeName,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		MaterialType:   r.MaterialType,
		Weight:         r.Weight,
		TruckType:      r.TruckType,
		DriverName:     r.DriverName,
		DriverPhone:    r.DriverPhone,
		VehicleNumber:  r.VehicleNumber,
		FreightAmount:  r.FreightAmount,
		AdvancePaid:    r.AdvancePaid,
		BalanceAmount:  r.BalanceAmount,
		PaymentMode:    r.PaymentMode,
		ShipmentStatus: r.ShipmentStatus,
	}
}

type createBiltyRequest struct {
	Booking string `json:"booking" validate:"required,objectid"`
	biltyRequest
}

// List returns every bilty with its booking summary
func (h *BiltyHandler) List(c *fiber.Ctx) error {
	bilties, err := h.bilties.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(bilties)
}

// Get returns one bilty
func (h *BiltyHandler) Get(c *fiber.Ctx) error {
	bilty, err := h.bilties.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(bilty)
}

// Create issues a bilty for a booking that has none
func (h *BiltyHandler) Create(c *fiber.Ctx) error {
	var req createBiltyRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	bilty, err := h.bilties.Create(c.UserContext(), req.Booking, req.fields())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(bilty)
}

// Update applies the allow-listed fields; anything else in the body is ignored
func (h *BiltyHandler) Update(c *fiber.Ctx) error {
	var req biltyRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	bilty, err := h.bilties.Update(c.UserContext(), c.Params("id"), req.fields())
	if err != nil {
		return err
	}
	return c.JSON(bilty)
}

// Delete removes a bilty
func (h *BiltyHandler) Delete(c *fiber.Ctx) error {
	if err := h.bilties.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Bilty deleted."})
}
