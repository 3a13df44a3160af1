package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// BookingConfig tunes the booking workflow.
type BookingConfig struct {
	FreightRatePerTon      float64
	ReleaseTruckOnDelivery bool
}

type BookingService struct {
	store   storage.Store
	lr      *LRGenerator
	cfg     BookingConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewBookingService(store storage.Store, cfg BookingConfig, m *metrics.Metrics, logger *zap.Logger) *BookingService {
	if cfg.FreightRatePerTon <= 0 {
		cfg.FreightRatePerTon = DefaultFreightRatePerTon
	}
	return &BookingService{
		store:   store,
		lr:      NewLRGenerator(),
		cfg:     cfg,
		metrics: m,
		logger:  logger.Named("booking"),
		now:     time.Now,
	}
}

// CreateBookingInput is what an admin submits to book a truck for a load.
type CreateBookingInput struct {
	LoadID      string
	TruckID     string
	AdvancePaid float64
	PaymentMode string
	AssignedBy  string
}

// CreateBookingResult is the booking together with its shipment document.
type CreateBookingResult struct {
	Booking *models.Booking `json:"booking"`
	Bilty   *models.Bilty   `json:"bilty"`
}

// Create books a truck for a load. Every write happens in one transaction:
// the load and truck are claimed with conditional updates, then the booking
// and its bilty, payment, billing record and driver assignment are created.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if in.LoadID == "" || in.TruckID == "" {
		return nil, Invalid("Load and truck are required.")
	}
	if !models.IsID(in.LoadID) || !models.IsID(in.TruckID) {
		return nil, Invalid("Invalid load or truck id.")
	}
	if in.PaymentMode == "" {
		in.PaymentMode = models.PaymentModeCash
	}
	in.PaymentMode = strings.ToLower(in.PaymentMode)
	if !models.IsValidPaymentMode(in.PaymentMode) {
		return nil, Invalid("Invalid payment mode.")
	}
	if in.AdvancePaid < 0 {
		return nil, Invalid("Advance paid cannot be negative.")
	}

	var result *CreateBookingResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		result, err = s.create(ctx, tx, in)
		return err
	})
	if err != nil {
		s.metrics.BookingFailed(failureReason(err))
		return nil, err
	}

	s.metrics.BookingCreated()
	s.logger.Info("booking created",
		zap.String("booking_id", result.Booking.ID),
		zap.String("load_id", in.LoadID),
		zap.String("truck_id", in.TruckID),
		zap.String("lr_number", result.Bilty.LRNumber))
	return result, nil
}

func (s *BookingService) create(ctx context.Context, tx storage.Store, in CreateBookingInput) (*CreateBookingResult, error) {
	load, err := tx.GetLoad(ctx, in.LoadID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Load not found.")
	}
	if err != nil {
		return nil, err
	}
	if load.Status != models.LoadStatusPending {
		return nil, Invalid("Load is not available.")
	}

	truck, err := tx.GetTruck(ctx, in.TruckID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if truck == nil || !truck.IsAvailable {
		return nil, Invalid("Truck is not available.")
	}

	driver, err := tx.GetUser(ctx, truck.DriverID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Driver not found.")
	}
	if err != nil {
		return nil, err
	}

	quote := QuoteFreight(load.RequiredCapacity, s.cfg.FreightRatePerTon, in.AdvancePaid)

	if err := tx.TransitionLoad(ctx, load.ID, models.LoadStatusPending, models.LoadStatusMatched); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, Conflict("Load was booked by another request.")
		}
		return nil, err
	}
	if err := tx.ClaimTruck(ctx, truck.ID); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, Conflict("Truck was booked by another request.")
		}
		return nil, err
	}

	booking := &models.Booking{
		TenantID:      load.TenantID,
		LoadID:        load.ID,
		TruckID:       truck.ID,
		DriverID:      truck.DriverID,
		CustomerID:    load.CustomerID,
		Status:        models.BookingStatusAssigned,
		PaymentStatus: models.PaymentStatusPending,
		FreightAmount: quote.Freight,
		AdvancePaid:   quote.Advance,
		BalanceAmount: quote.Balance,
		GSTAmount:     quote.GST,
		PaymentMode:   in.PaymentMode,
		From:          load.From,
		To:            load.To,
	}
	if err := tx.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	lrNumber, err := s.lr.Unique(ctx, tx, "", "")
	if err != nil {
		return nil, err
	}

	bilty := &models.Bilty{
		BookingID:      booking.ID,
		LRNumber:       lrNumber,
		ConsignorName:  load.ConsignorName,
		ConsigneeName:  load.ConsigneeName,
		PickupLocation: load.From,
		DropLocation:   load.To,
		MaterialType:   load.Material,
		Weight:         load.RequiredCapacity,
		TruckType:      truck.VehicleType,
		DriverName:     driver.Name,
		DriverPhone:    driver.Phone,
		VehicleNumber:  truck.VehicleNumber,
		FreightAmount:  quote.Freight,
		AdvancePaid:    quote.Advance,
		BalanceAmount:  quote.Balance,
		PaymentMode:    in.PaymentMode,
		ShipmentStatus: booking.Status,
	}
	if err := tx.CreateBilty(ctx, bilty); err != nil {
		return nil, err
	}

	if err := tx.CreatePayment(ctx, &models.Payment{
		BookingID:     booking.ID,
		Amount:        quote.Total,
		AdvancePaid:   quote.Advance,
		BalanceAmount: quote.Balance,
		PaymentMode:   in.PaymentMode,
		Status:        models.PaymentStatusPending,
	}); err != nil {
		return nil, err
	}

	if err := tx.CreateBillingRecord(ctx, &models.BillingRecord{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		DriverID:      booking.DriverID,
		TruckID:       booking.TruckID,
		LoadID:        booking.LoadID,
		LRNumber:      lrNumber,
		InvoiceNumber: booking.InvoiceNumber(),
		FreightAmount: quote.Freight,
		GSTAmount:     quote.GST,
		TotalAmount:   quote.Total,
		AdvancePaid:   quote.Advance,
		BalanceAmount: quote.Balance,
		PaymentMode:   in.PaymentMode,
		PaymentStatus: booking.PaymentStatus,
	}); err != nil {
		return nil, err
	}

	if err := tx.CreateAssignment(ctx, &models.DriverAssignment{
		BookingID:  booking.ID,
		DriverID:   truck.DriverID,
		TruckID:    truck.ID,
		AssignedBy: in.AssignedBy,
		Status:     booking.Status,
	}); err != nil {
		return nil, err
	}

	return &CreateBookingResult{Booking: booking, Bilty: bilty}, nil
}

func failureReason(err error) string {
	if svcErr, ok := AsError(err); ok {
		switch svcErr.Kind {
		case KindValidation:
			return "invalid"
		case KindNotFound:
			return "not_found"
		case KindConflict:
			return "conflict"
		}
	}
	return "internal"
}

// UpdateStatus moves a booking along its trip lifecycle on behalf of its
// driver and cascades the status to the assignment, the bilty and, on
// delivery, the load.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, driverID, status string) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, Invalid("Invalid status.")
	}

	var booking *models.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		booking, err = tx.GetBooking(ctx, bookingID)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && booking.DriverID != driverID) {
			return NotFound("Booking not found.")
		}
		if err != nil {
			return err
		}
		if !models.CanAdvanceTo(booking.Status, status) {
			return Invalid("Booking status cannot move backwards.")
		}

		prev := booking.Status
		booking.Status = status
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}

		assignment, err := tx.GetAssignmentByBooking(ctx, booking.ID)
		switch {
		case err == nil:
			assignment.Status = status
			if err := tx.UpdateAssignment(ctx, assignment); err != nil {
				return err
			}
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		bilty, err := tx.GetBiltyByBooking(ctx, booking.ID)
		switch {
		case err == nil:
			bilty.ShipmentStatus = status
			if err := tx.UpdateBilty(ctx, bilty); err != nil {
				return err
			}
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		// A repeated delivery must not release a truck a later booking holds.
		if status != models.BookingStatusDelivered || prev == models.BookingStatusDelivered {
			return nil
		}
		if err := tx.SetLoadStatus(ctx, booking.LoadID, models.LoadStatusDelivered); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if s.cfg.ReleaseTruckOnDelivery {
			if err := tx.ReleaseTruck(ctx, booking.TruckID); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking status updated", zap.String("booking_id", booking.ID), zap.String("status", status))
	return booking, nil
}

// UpdatePayment records an admin's payment decision on the booking, its
// payment and its billing record.
func (s *BookingService) UpdatePayment(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	if !models.IsValidPaymentStatus(status) {
		return nil, Invalid("Invalid payment status.")
	}

	var paidAt *time.Time
	if status == models.PaymentStatusPaid {
		now := s.now().UTC()
		paidAt = &now
	}

	var booking *models.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		booking, err = tx.GetBooking(ctx, bookingID)
		if errors.Is(err, storage.ErrNotFound) {
			return NotFound("Booking not found.")
		}
		if err != nil {
			return err
		}

		booking.PaymentStatus = status
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}

		payment, err := tx.GetPaymentByBooking(ctx, booking.ID)
		switch {
		case err == nil:
			payment.Status = status
			payment.PaidAt = paidAt
			if err := tx.UpdatePayment(ctx, payment); err != nil {
				return err
			}
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		record, err := tx.GetBillingRecordByBooking(ctx, booking.ID)
		switch {
		case err == nil:
			record.PaymentStatus = status
			record.PaidAt = paidAt
			return tx.UpdateBillingRecord(ctx, record)
		case errors.Is(err, storage.ErrNotFound):
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking payment updated", zap.String("booking_id", booking.ID), zap.String("payment_status", status))
	return booking, nil
}

// ListAll returns every booking with its load, driver and truck resolved.
func (s *BookingService) ListAll(ctx context.Context) ([]*models.BookingView, error) {
	bookings, err := s.store.ListBookings(ctx, models.BookingFilter{})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings, true)
}

// ListForCustomer returns the customer's bookings with their loads.
func (s *BookingService) ListForCustomer(ctx context.Context, customerID string) ([]*models.BookingView, error) {
	bookings, err := s.store.ListBookings(ctx, models.BookingFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings, false)
}

// ListForDriver returns the driver's bookings with their loads.
func (s *BookingService) ListForDriver(ctx context.Context, driverID string) ([]*models.BookingView, error) {
	bookings, err := s.store.ListBookings(ctx, models.BookingFilter{DriverID: driverID})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings, false)
}

// ListAwaitingPayment returns delivered bookings whose payment is still pending.
func (s *BookingService) ListAwaitingPayment(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookings(ctx, models.BookingFilter{
		Status:        models.BookingStatusDelivered,
		PaymentStatus: models.PaymentStatusPending,
	})
}

// views resolves references; dangling ones are left nil rather than failing the list.
func (s *BookingService) views(ctx context.Context, bookings []*models.Booking, full bool) ([]*models.BookingView, error) {
	loads := make(map[string]*models.Load)
	drivers := make(map[string]*models.UserSummary)
	trucks := make(map[string]*models.TruckSummary)

	out := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := &models.BookingView{Booking: b}

		if load, ok := loads[b.LoadID]; ok {
			view.Load = load
		} else if load, err := s.store.GetLoad(ctx, b.LoadID); err == nil {
			loads[b.LoadID] = load
			view.Load = load
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}

		if full {
			if d, ok := drivers[b.DriverID]; ok {
				view.Driver = d
			} else if user, err := s.store.GetUser(ctx, b.DriverID); err == nil {
				summary := models.UserSummary{ID: user.ID, Name: user.Name, Phone: user.Phone}
				drivers[b.DriverID] = &summary
				view.Driver = &summary
			} else if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}

			if tr, ok := trucks[b.TruckID]; ok {
				view.Truck = tr
			} else if truck, err := s.store.GetTruck(ctx, b.TruckID); err == nil {
				summary := truck.Summary()
				trucks[b.TruckID] = &summary
				view.Truck = &summary
			} else if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
		}

		out = append(out, view)
	}
	return out, nil
}

// accessible loads a booking the actor is allowed to see.
func (s *BookingService) accessible(ctx context.Context, bookingID string, actor Actor) (*models.Booking, error) {
	if !models.IsID(bookingID) {
		return nil, NotFound("Booking not found.")
	}
	booking, err := s.store.GetBooking(ctx, bookingID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Booking not found.")
	}
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() || actor.UserID == booking.CustomerID || actor.UserID == booking.DriverID {
		return booking, nil
	}
	return nil, Forbidden("You do not have access to this booking.")
}

// BiltyFor returns the shipment document of a booking the actor can see.
func (s *BookingService) BiltyFor(ctx context.Context, bookingID string, actor Actor) (*models.Bilty, error) {
	booking, err := s.accessible(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	bilty, err := s.store.GetBiltyByBooking(ctx, booking.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Bilty not found.")
	}
	return bilty, err
}

// InvoiceDetails is what the invoice document prints.
type InvoiceDetails struct {
	Booking      *models.Booking
	CustomerName string
}

// InvoiceFor returns invoice data for a booking the actor can see.
func (s *BookingService) InvoiceFor(ctx context.Context, bookingID string, actor Actor) (*InvoiceDetails, error) {
	booking, err := s.accessible(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	details := &InvoiceDetails{Booking: booking}
	customer, err := s.store.GetUser(ctx, booking.CustomerID)
	switch {
	case err == nil:
		details.CustomerName = customer.Name
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}
	return details, nil
}
