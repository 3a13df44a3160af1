package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// Common errors returned by every Store implementation
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict means a conditional update matched zero records.
	ErrConflict = errors.New("conditional update did not match")
)

// TxFunc runs inside a transaction. It must use the ctx and tx it is given.
type TxFunc func(ctx context.Context, tx Store) error

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Tenant operations
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error

	// Truck operations
	CreateTruck(ctx context.Context, truck *models.Truck) error
	GetTruck(ctx context.Context, id string) (*models.Truck, error)
	ListTrucks(ctx context.Context, filter models.TruckFilter) ([]*models.Truck, error)
	// FindMatchingTrucks returns available trucks with capacity >= minCapacity,
	// smallest capacity first.
	FindMatchingTrucks(ctx context.Context, minCapacity float64) ([]*models.Truck, error)
	// ClaimTruck flips isAvailable from true to false, or returns ErrConflict.
	ClaimTruck(ctx context.Context, id string) error
	ReleaseTruck(ctx context.Context, id string) error

	// Load operations
	CreateLoad(ctx context.Context, load *models.Load) error
	GetLoad(ctx context.Context, id string) (*models.Load, error)
	ListLoads(ctx context.Context, filter models.LoadFilter) ([]*models.Load, error)
	// TransitionLoad moves a load from one status to another, or returns ErrConflict.
	TransitionLoad(ctx context.Context, id, from, to string) error
	SetLoadStatus(ctx context.Context, id, status string) error

	// Booking operations
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error

	// Bilty operations
	CreateBilty(ctx context.Context, bilty *models.Bilty) error
	GetBilty(ctx context.Context, id string) (*models.Bilty, error)
	GetBiltyByBooking(ctx context.Context, bookingID string) (*models.Bilty, error)
	GetBiltyByLRNumber(ctx context.Context, lrNumber string) (*models.Bilty, error)
	ListBilties(ctx context.Context) ([]*models.Bilty, error)
	UpdateBilty(ctx context.Context, bilty *models.Bilty) error
	DeleteBilty(ctx context.Context, id string) (*models.Bilty, error)

	// Payment operations
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error

	// Billing operations
	CreateBillingRecord(ctx context.Context, record *models.BillingRecord) error
	GetBillingRecordByBooking(ctx context.Context, bookingID string) (*models.BillingRecord, error)
	UpdateBillingRecord(ctx context.Context, record *models.BillingRecord) error

	// Assignment operations
	CreateAssignment(ctx context.Context, assignment *models.DriverAssignment) error
	GetAssignmentByBooking(ctx context.Context, bookingID string) (*models.DriverAssignment, error)
	UpdateAssignment(ctx context.Context, assignment *models.DriverAssignment) error

	// Audit operations
	CreateLoginLog(ctx context.Context, entry *models.LoginLog) error
	ListLoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error)
	CreateSystemLog(ctx context.Context, entry *models.SystemLog) error
	ListSystemLogs(ctx context.Context, limit int) ([]*models.SystemLog, error)
	ClearSystemLogs(ctx context.Context) (int64, error)

	// WithTx runs fn so that either all of its writes persist or none do.
	WithTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// stamp assigns a fresh id when missing and sets the audit timestamps.
func stamp(id *string, created, updated *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = models.NewID()
	}
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}
