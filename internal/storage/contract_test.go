package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// runStoreContract exercises behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		user := &models.User{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Role: models.RoleCustomer}
		require.NoError(t, s.CreateUser(ctx, user))
		assert.True(t, models.IsID(user.ID))
		assert.False(t, user.CreatedAt.IsZero())

		got, err := s.GetUserByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		got, err = s.GetUserByPhone(ctx, "9876543210")
		require.NoError(t, err)
		assert.Equal(t, "Asha", got.Name)

		err = s.CreateUser(ctx, &models.User{Name: "Other", Email: "asha@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)

		_, err = s.GetUser(ctx, models.NewID())
		assert.ErrorIs(t, err, ErrNotFound)

		got.CompanyName = "Asha Logistics"
		require.NoError(t, s.UpdateUser(ctx, got))
		again, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha Logistics", again.CompanyName)

		err = s.UpdateUser(ctx, &models.User{ID: models.NewID(), Email: "ghost@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("firebase uid lookup", func(t *testing.T) {
		s := newStore(t)
		uid := "firebase-uid-1"
		require.NoError(t, s.CreateUser(ctx, &models.User{Name: "F", Email: "f@example.com", FirebaseUID: &uid}))
		got, err := s.GetUserByFirebaseUID(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "f@example.com", got.Email)

		_, err = s.GetUserByFirebaseUID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("truck claim is conditional", func(t *testing.T) {
		s := newStore(t)
		truck := &models.Truck{DriverID: models.NewID(), VehicleNumber: "MH12AB1234", Capacity: 10, IsAvailable: true}
		require.NoError(t, s.CreateTruck(ctx, truck))

		require.NoError(t, s.ClaimTruck(ctx, truck.ID))
		assert.ErrorIs(t, s.ClaimTruck(ctx, truck.ID), ErrConflict)
		assert.ErrorIs(t, s.ClaimTruck(ctx, models.NewID()), ErrConflict)

		got, err := s.GetTruck(ctx, truck.ID)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)

		require.NoError(t, s.ReleaseTruck(ctx, truck.ID))
		got, err = s.GetTruck(ctx, truck.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)

		assert.ErrorIs(t, s.ReleaseTruck(ctx, models.NewID()), ErrNotFound)
		assert.ErrorIs(t, s.CreateTruck(ctx, &models.Truck{DriverID: "x", VehicleNumber: "MH12AB1234"}), ErrDuplicate)
	})

	t.Run("matching trucks", func(t *testing.T) {
		s := newStore(t)
		driver := models.NewID()
		for _, tr := range []*models.Truck{
			{DriverID: driver, VehicleNumber: "KA01A1", Capacity: 20, IsAvailable: true},
			{DriverID: driver, VehicleNumber: "KA01A2", Capacity: 8, IsAvailable: true},
			{DriverID: driver, VehicleNumber: "KA01A3", Capacity: 12, IsAvailable: false},
			{DriverID: driver, VehicleNumber: "KA01A4", Capacity: 5, IsAvailable: true},
		} {
			require.NoError(t, s.CreateTruck(ctx, tr))
		}

		trucks, err := s.FindMatchingTrucks(ctx, 8)
		require.NoError(t, err)
		require.Len(t, trucks, 2)
		assert.Equal(t, "KA01A2", trucks[0].VehicleNumber)
		assert.Equal(t, "KA01A1", trucks[1].VehicleNumber)

		mine, err := s.ListTrucks(ctx, models.TruckFilter{DriverID: driver})
		require.NoError(t, err)
		assert.Len(t, mine, 4)

		available, err := s.ListTrucks(ctx, models.TruckFilter{AvailableOnly: true})
		require.NoError(t, err)
		assert.Len(t, available, 3)
	})

	t.Run("load transitions", func(t *testing.T) {
		s := newStore(t)
		load := &models.Load{CustomerID: models.NewID(), Material: "Steel", RequiredCapacity: 5, From: "Pune", To: "Delhi"}
		require.NoError(t, s.CreateLoad(ctx, load))
		assert.Equal(t, models.LoadStatusPending, load.Status)

		require.NoError(t, s.TransitionLoad(ctx, load.ID, models.LoadStatusPending, models.LoadStatusMatched))
		assert.ErrorIs(t, s.TransitionLoad(ctx, load.ID, models.LoadStatusPending, models.LoadStatusMatched), ErrConflict)

		pending, err := s.ListLoads(ctx, models.LoadFilter{Status: models.LoadStatusPending})
		require.NoError(t, err)
		assert.Empty(t, pending)

		require.NoError(t, s.SetLoadStatus(ctx, load.ID, models.LoadStatusDelivered))
		got, err := s.GetLoad(ctx, load.ID)
		require.NoError(t, err)
		assert.Equal(t, models.LoadStatusDelivered, got.Status)
		assert.Equal(t, "Pune", got.From)
	})

	t.Run("bilty uniqueness", func(t *testing.T) {
		s := newStore(t)
		bookingID := models.NewID()
		first := &models.Bilty{BookingID: bookingID, LRNumber: "LR-1"}
		require.NoError(t, s.CreateBilty(ctx, first))

		assert.ErrorIs(t, s.CreateBilty(ctx, &models.Bilty{BookingID: bookingID, LRNumber: "LR-2"}), ErrDuplicate)
		assert.ErrorIs(t, s.CreateBilty(ctx, &models.Bilty{BookingID: models.NewID(), LRNumber: "LR-1"}), ErrDuplicate)

		got, err := s.GetBiltyByLRNumber(ctx, "LR-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		deleted, err := s.DeleteBilty(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "LR-1", deleted.LRNumber)

		_, err = s.GetBiltyByBooking(ctx, bookingID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.DeleteBilty(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		s := newStore(t)
		truck := &models.Truck{DriverID: models.NewID(), VehicleNumber: "DL01X9", Capacity: 10, IsAvailable: true}
		require.NoError(t, s.CreateTruck(ctx, truck))

		boom := errors.New("boom")
		var bookingID string
		err := s.WithTx(ctx, func(ctx context.Context, tx Store) error {
			if err := tx.ClaimTruck(ctx, truck.ID); err != nil {
				return err
			}
			booking := &models.Booking{LoadID: models.NewID(), TruckID: truck.ID, DriverID: truck.DriverID, CustomerID: models.NewID()}
			if err := tx.CreateBooking(ctx, booking); err != nil {
				return err
			}
			bookingID = booking.ID
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.GetBooking(ctx, bookingID)
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := s.GetTruck(ctx, truck.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAvailable)
	})

	t.Run("transaction commits", func(t *testing.T) {
		s := newStore(t)
		var bookingID string
		err := s.WithTx(ctx, func(ctx context.Context, tx Store) error {
			booking := &models.Booking{LoadID: models.NewID(), TruckID: models.NewID(), DriverID: models.NewID(), CustomerID: models.NewID(),
				Status: models.BookingStatusAssigned, PaymentStatus: models.PaymentStatusPending}
			if err := tx.CreateBooking(ctx, booking); err != nil {
				return err
			}
			bookingID = booking.ID
			return tx.CreatePayment(ctx, &models.Payment{BookingID: booking.ID, Amount: 100, Status: models.PaymentStatusPending})
		})
		require.NoError(t, err)

		_, err = s.GetBooking(ctx, bookingID)
		require.NoError(t, err)
		payment, err := s.GetPaymentByBooking(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, payment.Amount)
	})

	t.Run("booking filters", func(t *testing.T) {
		s := newStore(t)
		customer, driver := models.NewID(), models.NewID()
		require.NoError(t, s.CreateBooking(ctx, &models.Booking{CustomerID: customer, DriverID: driver, LoadID: "l1", TruckID: "t1", Status: models.BookingStatusAssigned, PaymentStatus: models.PaymentStatusPending}))
		require.NoError(t, s.CreateBooking(ctx, &models.Booking{CustomerID: customer, DriverID: models.NewID(), LoadID: "l2", TruckID: "t2", Status: models.BookingStatusDelivered, PaymentStatus: models.PaymentStatusPaid}))

		mine, err := s.ListBookings(ctx, models.BookingFilter{CustomerID: customer})
		require.NoError(t, err)
		assert.Len(t, mine, 2)
		assert.Equal(t, "l2", mine[0].LoadID)

		driven, err := s.ListBookings(ctx, models.BookingFilter{DriverID: driver})
		require.NoError(t, err)
		assert.Len(t, driven, 1)

		unpaid, err := s.ListBookings(ctx, models.BookingFilter{PaymentStatus: models.PaymentStatusPending})
		require.NoError(t, err)
		assert.Len(t, unpaid, 1)
	})

	t.Run("audit logs", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, s.CreateLoginLog(ctx, &models.LoginLog{Provider: models.ProviderLocal, Status: models.LoginStatusFailure}))
			require.NoError(t, s.CreateSystemLog(ctx, &models.SystemLog{Message: "boom", StatusCode: 500}))
		}

		logins, err := s.ListLoginLogs(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, logins, 2)

		n, err := s.ClearSystemLogs(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		left, err := s.ListSystemLogs(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
