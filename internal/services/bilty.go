package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// BiltyFields are the editable fields of a bilty. Nil means "not supplied".
type BiltyFields struct {
	LRNumber       *string
	ConsignorName  *string
	ConsigneeName  *string
	PickupLocation *string
	DropLocation   *string
	MaterialType   *string
	Weight         *float64
	TruckType      *string
	DriverName     *string
	DriverPhone    *string
	VehicleNumber  *string
	FreightAmount  *float64
	AdvancePaid    *float64
	BalanceAmount  *float64
	PaymentMode    *string
	ShipmentStatus *string
}

func (f BiltyFields) empty() bool {
	return f.LRNumber == nil && f.ConsignorName == nil && f.ConsigneeName == nil &&
		f.PickupLocation == nil && f.DropLocation == nil && f.MaterialType == nil &&
		f.Weight == nil && f.TruckType == nil && f.DriverName == nil && f.DriverPhone == nil &&
		f.VehicleNumber == nil && f.FreightAmount == nil && f.AdvancePaid == nil &&
		f.BalanceAmount == nil && f.PaymentMode == nil && f.ShipmentStatus == nil
}

func (f BiltyFields) validate() error {
	if f.PaymentMode != nil && !models.IsValidPaymentMode(strings.ToLower(*f.PaymentMode)) {
		return Invalid("Invalid payment mode.")
	}
	if f.ShipmentStatus != nil && !models.IsValidBookingStatus(*f.ShipmentStatus) {
		return Invalid("Invalid shipment status.")
	}
	if f.Weight != nil && *f.Weight <= 0 {
		return Invalid("Weight must be greater than 0.")
	}
	for _, amount := range []*float64{f.FreightAmount, f.AdvancePaid, f.BalanceAmount} {
		if amount != nil && *amount < 0 {
			return Invalid("Amounts cannot be negative.")
		}
	}
	return nil
}

// apply copies supplied fields onto b, except the LR number.
func (f BiltyFields) apply(b *models.Bilty) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&b.ConsignorName, f.ConsignorName)
	setString(&b.ConsigneeName, f.ConsigneeName)
	setString(&b.PickupLocation, f.PickupLocation)
	setString(&b.DropLocation, f.DropLocation)
	setString(&b.MaterialType, f.MaterialType)
	setFloat(&b.Weight, f.Weight)
	setString(&b.TruckType, f.TruckType)
	setString(&b.DriverName, f.DriverName)
	setString(&b.DriverPhone, f.DriverPhone)
	if f.VehicleNumber != nil {
		b.VehicleNumber = models.NormalizeVehicleNumber(*f.VehicleNumber)
	}
	setFloat(&b.FreightAmount, f.FreightAmount)
	setFloat(&b.AdvancePaid, f.AdvancePaid)
	setFloat(&b.BalanceAmount, f.BalanceAmount)
	if f.PaymentMode != nil {
		b.PaymentMode = strings.ToLower(*f.PaymentMode)
	}
	setString(&b.ShipmentStatus, f.ShipmentStatus)
}

type BiltyService struct {
	store  storage.Store
	lr     *LRGenerator
	logger *zap.Logger
}

func NewBiltyService(store storage.Store, logger *zap.Logger) *BiltyService {
	return &BiltyService{store: store, lr: NewLRGenerator(), logger: logger.Named("bilty")}
}

// List returns every bilty with a summary of its booking, newest first.
func (s *BiltyService) List(ctx context.Context) ([]*models.BiltyView, error) {
	bilties, err := s.store.ListBilties(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.BiltyView, 0, len(bilties))
	for _, b := range bilties {
		view := &models.BiltyView{Bilty: b}
		booking, err := s.store.GetBooking(ctx, b.BookingID)
		switch {
		case err == nil:
			view.Booking = &models.BookingRef{ID: booking.ID, Status: booking.Status, PaymentStatus: booking.PaymentStatus}
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *BiltyService) Get(ctx context.Context, id string) (*models.Bilty, error) {
	bilty, err := s.store.GetBilty(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Bilty not found.")
	}
	return bilty, err
}

// Create issues a bilty for a booking that has none. Fields not supplied
// are prefilled from the booking, its load, truck and driver.
func (s *BiltyService) Create(ctx context.Context, bookingID string, fields BiltyFields) (*models.Bilty, error) {
	if bookingID == "" {
		return nil, Invalid("Booking is required.")
	}
	if !models.IsID(bookingID) {
		return nil, Invalid("Invalid booking id.")
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var bilty *models.Bilty
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if errors.Is(err, storage.ErrNotFound) {
			return NotFound("Booking not found.")
		}
		if err != nil {
			return err
		}

		if _, err := tx.GetBiltyByBooking(ctx, booking.ID); err == nil {
			return Conflict("Bilty already exists for this booking.")
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		bilty, err = s.prefill(ctx, tx, booking)
		if err != nil {
			return err
		}
		fields.apply(bilty)

		preferred := ""
		if fields.LRNumber != nil {
			preferred = *fields.LRNumber
		}
		if bilty.LRNumber, err = s.lr.Unique(ctx, tx, preferred, ""); err != nil {
			return err
		}

		if err := tx.CreateBilty(ctx, bilty); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return Conflict("Bilty already exists for this booking.")
			}
			return err
		}
		return s.syncBillingLR(ctx, tx, booking.ID, bilty.LRNumber)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bilty created", zap.String("bilty_id", bilty.ID), zap.String("lr_number", bilty.LRNumber))
	return bilty, nil
}

func (s *BiltyService) prefill(ctx context.Context, tx storage.Store, booking *models.Booking) (*models.Bilty, error) {
	bilty := &models.Bilty{
		BookingID:      booking.ID,
		PickupLocation: booking.From,
		DropLocation:   booking.To,
		FreightAmount:  booking.FreightAmount,
		AdvancePaid:    booking.AdvancePaid,
		BalanceAmount:  booking.BalanceAmount,
		PaymentMode:    booking.PaymentMode,
		ShipmentStatus: booking.Status,
	}

	load, err := tx.GetLoad(ctx, booking.LoadID)
	switch {
	case err == nil:
		bilty.ConsignorName = load.ConsignorName
		bilty.ConsigneeName = load.ConsigneeName
		bilty.MaterialType = load.Material
		bilty.Weight = load.RequiredCapacity
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	truck, err := tx.GetTruck(ctx, booking.TruckID)
	switch {
	case err == nil:
		bilty.TruckType = truck.VehicleType
		bilty.VehicleNumber = truck.VehicleNumber
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	driver, err := tx.GetUser(ctx, booking.DriverID)
	switch {
	case err == nil:
		bilty.DriverName = driver.Name
		bilty.DriverPhone = driver.Phone
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}
	return bilty, nil
}

// Update applies the supplied fields. A new LR number is re-checked for
// uniqueness and mirrored onto the billing record.
func (s *BiltyService) Update(ctx context.Context, id string, fields BiltyFields) (*models.Bilty, error) {
	if fields.empty() {
		return nil, Invalid("No valid fields to update.")
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var bilty *models.Bilty
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		bilty, err = tx.GetBilty(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return NotFound("Bilty not found.")
		}
		if err != nil {
			return err
		}

		fields.apply(bilty)
		lrChanged := false
		if fields.LRNumber != nil && strings.TrimSpace(*fields.LRNumber) != "" {
			next, err := s.lr.Unique(ctx, tx, *fields.LRNumber, bilty.ID)
			if err != nil {
				return err
			}
			lrChanged = next != bilty.LRNumber
			bilty.LRNumber = next
		}

		if err := tx.UpdateBilty(ctx, bilty); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return Conflict("LR number already in use.")
			}
			return err
		}
		if lrChanged {
			return s.syncBillingLR(ctx, tx, bilty.BookingID, bilty.LRNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bilty, nil
}

// Delete removes a bilty and clears the LR number from its billing record.
func (s *BiltyService) Delete(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		bilty, err := tx.DeleteBilty(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return NotFound("Bilty not found.")
		}
		if err != nil {
			return err
		}
		return s.syncBillingLR(ctx, tx, bilty.BookingID, "")
	})
}

func (s *BiltyService) syncBillingLR(ctx context.Context, tx storage.Store, bookingID, lrNumber string) error {
	record, err := tx.GetBillingRecordByBooking(ctx, bookingID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	record.LRNumber = lrNumber
	return tx.UpdateBillingRecord(ctx, record)
}
