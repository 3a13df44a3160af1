package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

type fixture struct {
	store    *storage.MemoryStore
	customer *models.User
	driver   *models.User
	admin    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: storage.NewMemoryStore()}

	f.customer = &models.User{Name: "Cust", Email: "cust@example.com", Phone: "+911111111111", Role: models.RoleCustomer}
	f.driver = &models.User{Name: "Ravi", Email: "ravi@example.com", Phone: "+922222222222", Role: models.RoleDriver}
	f.admin = &models.User{Name: "Admin", Email: "admin@example.com", Phone: "+933333333333", Role: models.RoleAdmin}
	for _, u := range []*models.User{f.customer, f.driver, f.admin} {
		require.NoError(t, f.store.CreateUser(ctx, u))
	}
	return f
}

func (f *fixture) load(t *testing.T, capacity float64) *models.Load {
	t.Helper()
	load := &models.Load{
		CustomerID:       f.customer.ID,
		ConsignorName:    "Acme Steel",
		ConsigneeName:    "Delhi Depot",
		Material:         "Steel coils",
		RequiredCapacity: capacity,
		From:             "Pune",
		To:               "Delhi",
	}
	require.NoError(t, f.store.CreateLoad(context.Background(), load))
	return load
}

func (f *fixture) truck(t *testing.T, number string, capacity float64) *models.Truck {
	t.Helper()
	truck := &models.Truck{
		DriverID:        f.driver.ID,
		VehicleNumber:   number,
		Capacity:        capacity,
		VehicleType:     "Trailer",
		CurrentLocation: "Pune",
		IsAvailable:     true,
	}
	require.NoError(t, f.store.CreateTruck(context.Background(), truck))
	return truck
}

func (f *fixture) bookings(cfg BookingConfig) *BookingService {
	return NewBookingService(f.store, cfg, metrics.NewMetrics("test"), zap.NewNop())
}

func zapNop() *zap.Logger {
	return zap.NewNop()
}
