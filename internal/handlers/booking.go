package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/documents"
	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/middleware"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// BookingHandler handles bookings and their documents
type BookingHandler struct {
	bookings *services.BookingService
	validate *Validator
	metrics  *metrics.Metrics
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, validate *Validator, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{bookings: bookings, validate: validate, metrics: m}
}

type createBookingRequest struct {
	LoadID      string  `json:"loadId" validate:"required,objectid"`
	TruckID     string  `json:"truckId" validate:"required,objectid"`
	AdvancePaid float64 `json:"advancePaid" validate:"gte=0"`
	PaymentMode string  `json:"paymentMode" validate:"omitempty,oneof=cash bank upi card"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Create books a truck for a load
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	res, err := h.bookings.Create(c.UserContext(), services.CreateBookingInput{
		LoadID:      req.LoadID,
		TruckID:     req.TruckID,
		AdvancePaid: req.AdvancePaid,
		PaymentMode: req.PaymentMode,
		AssignedBy:  middleware.Actor(c).UserID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// All lists every booking with its references resolved
func (h *BookingHandler) All(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

// CustomerBookings lists the signed-in customer's bookings
func (h *BookingHandler) CustomerBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListForCustomer(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

// DriverBookings lists the signed-in driver's bookings
func (h *BookingHandler) DriverBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListForDriver(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

// UpdateStatus moves the driver's booking along the trip lifecycle
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.UpdateStatus(c.UserContext(), c.Params("id"), middleware.Actor(c).UserID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

// UpdatePayment records whether the booking has been paid
func (h *BookingHandler) UpdatePayment(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.UpdatePayment(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

// Bilty streams the booking's lorry receipt as a PDF
func (h *BookingHandler) Bilty(c *fiber.Ctx) error {
	bilty, err := h.bookings.BiltyFor(c.UserContext(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := documents.WriteBilty(&buf, bilty); err != nil {
		return fmt.Errorf("render bilty: %w", err)
	}
	h.metrics.DocumentRendered("bilty")
	return sendPDF(c, "bilty-"+bilty.LRNumber+".pdf", buf.Bytes())
}

// Invoice streams the booking's GST invoice as a PDF
func (h *BookingHandler) Invoice(c *fiber.Ctx) error {
	details, err := h.bookings.InvoiceFor(c.UserContext(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := documents.WriteInvoice(&buf, details.Booking, details.CustomerName); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	h.metrics.DocumentRendered("invoice")
	return sendPDF(c, "invoice-"+idTail(details.Booking.ID)+".pdf", buf.Bytes())
}

func idTail(id string) string {
	if len(id) > 6 {
		return id[len(id)-6:]
	}
	return id
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename="+filename)
	return c.Send(body)
}
