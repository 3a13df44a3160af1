package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

// bookingWithoutBilty books a truck and then removes the generated bilty.
func bookingWithoutBilty(t *testing.T, f *fixture) *models.Booking {
	t.Helper()
	ctx := context.Background()
	booking := createBooking(t, f, f.bookings(BookingConfig{}))
	bilty, err := f.store.GetBiltyByBooking(ctx, booking.ID)
	require.NoError(t, err)
	_, err = f.store.DeleteBilty(ctx, bilty.ID)
	require.NoError(t, err)
	return booking
}

func TestBiltyCreate_PrefillsFromBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	booking := bookingWithoutBilty(t, f)

	bilty, err := svc.Create(ctx, booking.ID, BiltyFields{ConsigneeName: ptr("  North Yard ")})
	require.NoError(t, err)

	assert.Equal(t, booking.ID, bilty.BookingID)
	assert.Equal(t, "Acme Steel", bilty.ConsignorName)
	assert.Equal(t, "North Yard", bilty.ConsigneeName)
	assert.Equal(t, "Pune", bilty.PickupLocation)
	assert.Equal(t, "Ravi", bilty.DriverName)
	assert.Equal(t, booking.FreightAmount, bilty.FreightAmount)
	assert.NotEmpty(t, bilty.LRNumber)

	record, err := f.store.GetBillingRecordByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bilty.LRNumber, record.LRNumber)
}

func TestBiltyCreate_PreferredLRNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	booking := bookingWithoutBilty(t, f)

	bilty, err := svc.Create(ctx, booking.ID, BiltyFields{LRNumber: ptr(" lr-custom-1 ")})
	require.NoError(t, err)
	assert.Equal(t, "lr-custom-1", bilty.LRNumber)

	got, err := f.store.GetBiltyByLRNumber(ctx, "lr-custom-1")
	require.NoError(t, err)
	assert.Equal(t, bilty.ID, got.ID)
}

func TestBiltyCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	booked := createBooking(t, f, f.bookings(BookingConfig{}))

	tests := []struct {
		name      string
		bookingID string
		fields    BiltyFields
		kind      Kind
	}{
		{"missing booking", "", BiltyFields{}, KindValidation},
		{"malformed booking", "abc", BiltyFields{}, KindValidation},
		{"unknown booking", models.NewID(), BiltyFields{}, KindNotFound},
		{"already issued", booked.ID, BiltyFields{}, KindConflict},
		{"bad payment mode", booked.ID, BiltyFields{PaymentMode: ptr("cheque")}, KindValidation},
		{"negative amount", booked.ID, BiltyFields{AdvancePaid: ptr(-5.0)}, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.bookingID, tt.fields)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestBiltyUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	first := createBooking(t, f, f.bookings(BookingConfig{}))
	second := createBooking(t, f, f.bookings(BookingConfig{}))

	bilty, err := f.store.GetBiltyByBooking(ctx, first.ID)
	require.NoError(t, err)
	other, err := f.store.GetBiltyByBooking(ctx, second.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, bilty.ID, BiltyFields{})
	svcErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "No valid fields to update.", svcErr.Message)

	updated, err := svc.Update(ctx, bilty.ID, BiltyFields{
		VehicleNumber: ptr("mh 14 zz 0001"),
		PaymentMode:   ptr("UPI"),
		LRNumber:      ptr("LR-MANUAL-9"),
	})
	require.NoError(t, err)
	assert.Equal(t, "MH14ZZ0001", updated.VehicleNumber)
	assert.Equal(t, models.PaymentModeUPI, updated.PaymentMode)
	assert.Equal(t, "LR-MANUAL-9", updated.LRNumber)

	record, err := f.store.GetBillingRecordByBooking(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "LR-MANUAL-9", record.LRNumber)

	// Keeping its own number is not a collision.
	kept, err := svc.Update(ctx, bilty.ID, BiltyFields{LRNumber: ptr("LR-MANUAL-9")})
	require.NoError(t, err)
	assert.Equal(t, "LR-MANUAL-9", kept.LRNumber)

	// Taking another bilty's number yields a fresh one.
	moved, err := svc.Update(ctx, bilty.ID, BiltyFields{LRNumber: ptr(other.LRNumber)})
	require.NoError(t, err)
	assert.NotEqual(t, other.LRNumber, moved.LRNumber)

	_, err = svc.Update(ctx, models.NewID(), BiltyFields{DriverName: ptr("X")})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestBiltyDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	booking := createBooking(t, f, f.bookings(BookingConfig{}))

	bilty, err := f.store.GetBiltyByBooking(ctx, booking.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bilty.ID))
	_, err = svc.Get(ctx, bilty.ID)
	assert.True(t, IsKind(err, KindNotFound))

	record, err := f.store.GetBillingRecordByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Empty(t, record.LRNumber)

	assert.True(t, IsKind(svc.Delete(ctx, bilty.ID), KindNotFound))
}

func TestBiltyList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBiltyService(f.store, zap.NewNop())
	booking := createBooking(t, f, f.bookings(BookingConfig{}))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Booking)
	assert.Equal(t, booking.ID, views[0].Booking.ID)
	assert.Equal(t, models.PaymentStatusPending, views[0].Booking.PaymentStatus)
}
