package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// GormStore implements Store on any gorm dialect. Production runs on
// PostgreSQL; tests use SQLite in memory.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and returns the store. The *gorm.DB
// should be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func mapGormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func gormFirst[T any](ctx context.Context, s *GormStore, query string, args ...interface{}) (*T, error) {
	var out T
	if err := s.db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &out, nil
}

func (s *GormStore) create(ctx context.Context, value interface{}) error {
	return mapGormErr(s.db.WithContext(ctx).Create(value).Error)
}

// save overwrites every column of an existing row.
func (s *GormStore) save(ctx context.Context, model interface{}, id string) error {
	result := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Select("*").Updates(model)
	if result.Error != nil {
		return mapGormErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// conditionalUpdate sets fields on rows matching query, or returns ErrConflict.
func (s *GormStore) conditionalUpdate(ctx context.Context, model interface{}, fields map[string]interface{}, query string, args ...interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := s.db.WithContext(ctx).Model(model).Where(query, args...).Updates(fields)
	if result.Error != nil {
		return mapGormErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func withLimit(db *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return db.Limit(limit)
	}
	return db
}

const newestOrder = "created_at DESC, id DESC"

// User operations
func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return s.create(ctx, user)
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return gormFirst[models.User](ctx, s, "id = ?", id)
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return gormFirst[models.User](ctx, s, "email = ?", email)
}

func (s *GormStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return gormFirst[models.User](ctx, s, "phone = ?", phone)
}

func (s *GormStore) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return gormFirst[models.User](ctx, s, "firebase_uid = ?", uid)
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.save(ctx, user, user.ID)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).Order(newestOrder).Find(&users).Error
	return users, err
}

// Tenant operations
func (s *GormStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	stamp(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	return s.create(ctx, tenant)
}

func (s *GormStore) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	return gormFirst[models.Tenant](ctx, s, "id = ?", id)
}

func (s *GormStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	var tenants []*models.Tenant
	err := s.db.WithContext(ctx).Order(newestOrder).Find(&tenants).Error
	return tenants, err
}

func (s *GormStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now().UTC()
	return s.save(ctx, tenant, tenant.ID)
}

// Truck operations
func (s *GormStore) CreateTruck(ctx context.Context, truck *models.Truck) error {
	stamp(&truck.ID, &truck.CreatedAt, &truck.UpdatedAt)
	return s.create(ctx, truck)
}

func (s *GormStore) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	return gormFirst[models.Truck](ctx, s, "id = ?", id)
}

func (s *GormStore) ListTrucks(ctx context.Context, filter models.TruckFilter) ([]*models.Truck, error) {
	query := s.db.WithContext(ctx).Order(newestOrder)
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	var trucks []*models.Truck
	err := query.Find(&trucks).Error
	return trucks, err
}

func (s *GormStore) FindMatchingTrucks(ctx context.Context, minCapacity float64) ([]*models.Truck, error) {
	var trucks []*models.Truck
	err := s.db.WithContext(ctx).
		Where("is_available = ? AND capacity >= ?", true, minCapacity).
		Order("capacity ASC, id ASC").
		Find(&trucks).Error
	return trucks, err
}

func (s *GormStore) ClaimTruck(ctx context.Context, id string) error {
	return s.conditionalUpdate(ctx, &models.Truck{}, map[string]interface{}{"is_available": false},
		"id = ? AND is_available = ?", id, true)
}

func (s *GormStore) ReleaseTruck(ctx context.Context, id string) error {
	err := s.conditionalUpdate(ctx, &models.Truck{}, map[string]interface{}{"is_available": true}, "id = ?", id)
	if errors.Is(err, ErrConflict) {
		return ErrNotFound
	}
	return err
}

// Load operations
func (s *GormStore) CreateLoad(ctx context.Context, load *models.Load) error {
	if load.Status == "" {
		load.Status = models.LoadStatusPending
	}
	stamp(&load.ID, &load.CreatedAt, &load.UpdatedAt)
	return s.create(ctx, load)
}

func (s *GormStore) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	return gormFirst[models.Load](ctx, s, "id = ?", id)
}

func (s *GormStore) ListLoads(ctx context.Context, filter models.LoadFilter) ([]*models.Load, error) {
	query := s.db.WithContext(ctx).Order(newestOrder)
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var loads []*models.Load
	err := query.Find(&loads).Error
	return loads, err
}

func (s *GormStore) TransitionLoad(ctx context.Context, id, from, to string) error {
	return s.conditionalUpdate(ctx, &models.Load{}, map[string]interface{}{"status": to},
		"id = ? AND status = ?", id, from)
}

func (s *GormStore) SetLoadStatus(ctx context.Context, id, status string) error {
	err := s.conditionalUpdate(ctx, &models.Load{}, map[string]interface{}{"status": status}, "id = ?", id)
	if errors.Is(err, ErrConflict) {
		return ErrNotFound
	}
	return err
}

// Booking operations
func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	stamp(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	return s.create(ctx, booking)
}

func (s *GormStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return gormFirst[models.Booking](ctx, s, "id = ?", id)
}

func (s *GormStore) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	query := s.db.WithContext(ctx).Order(newestOrder)
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	var bookings []*models.Booking
	err := query.Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	return s.save(ctx, booking, booking.ID)
}

// Bilty operations
func (s *GormStore) CreateBilty(ctx context.Context, bilty *models.Bilty) error {
	stamp(&bilty.ID, &bilty.CreatedAt, &bilty.UpdatedAt)
	return s.create(ctx, bilty)
}

func (s *GormStore) GetBilty(ctx context.Context, id string) (*models.Bilty, error) {
	return gormFirst[models.Bilty](ctx, s, "id = ?", id)
}

func (s *GormStore) GetBiltyByBooking(ctx context.Context, bookingID string) (*models.Bilty, error) {
	return gormFirst[models.Bilty](ctx, s, "booking_id = ?", bookingID)
}

func (s *GormStore) GetBiltyByLRNumber(ctx context.Context, lrNumber string) (*models.Bilty, error) {
	return gormFirst[models.Bilty](ctx, s, "lr_number = ?", lrNumber)
}

func (s *GormStore) ListBilties(ctx context.Context) ([]*models.Bilty, error) {
	var bilties []*models.Bilty
	err := s.db.WithContext(ctx).Order(newestOrder).Find(&bilties).Error
	return bilties, err
}

func (s *GormStore) UpdateBilty(ctx context.Context, bilty *models.Bilty) error {
	bilty.UpdatedAt = time.Now().UTC()
	return s.save(ctx, bilty, bilty.ID)
}

func (s *GormStore) DeleteBilty(ctx context.Context, id string) (*models.Bilty, error) {
	bilty, err := s.GetBilty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Bilty{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return bilty, nil
}

// Payment operations
func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	stamp(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	return s.create(ctx, payment)
}

func (s *GormStore) GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	return gormFirst[models.Payment](ctx, s, "booking_id = ?", bookingID)
}

func (s *GormStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	return s.save(ctx, payment, payment.ID)
}

// Billing operations
func (s *GormStore) CreateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	stamp(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	return s.create(ctx, record)
}

func (s *GormStore) GetBillingRecordByBooking(ctx context.Context, bookingID string) (*models.BillingRecord, error) {
	return gormFirst[models.BillingRecord](ctx, s, "booking_id = ?", bookingID)
}

func (s *GormStore) UpdateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	record.UpdatedAt = time.Now().UTC()
	return s.save(ctx, record, record.ID)
}

// Assignment operations
func (s *GormStore) CreateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	stamp(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	return s.create(ctx, assignment)
}

func (s *GormStore) GetAssignmentByBooking(ctx context.Context, bookingID string) (*models.DriverAssignment, error) {
	return gormFirst[models.DriverAssignment](ctx, s, "booking_id = ?", bookingID)
}

func (s *GormStore) UpdateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	return s.save(ctx, assignment, assignment.ID)
}

// Audit operations
func (s *GormStore) CreateLoginLog(ctx context.Context, entry *models.LoginLog) error {
	stamp(&entry.ID, &entry.CreatedAt, nil)
	return s.create(ctx, entry)
}

func (s *GormStore) ListLoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	var entries []*models.LoginLog
	err := withLimit(s.db.WithContext(ctx).Order(newestOrder), limit).Find(&entries).Error
	return entries, err
}

func (s *GormStore) CreateSystemLog(ctx context.Context, entry *models.SystemLog) error {
	stamp(&entry.ID, &entry.CreatedAt, nil)
	return s.create(ctx, entry)
}

func (s *GormStore) ListSystemLogs(ctx context.Context, limit int) ([]*models.SystemLog, error) {
	var entries []*models.SystemLog
	err := withLimit(s.db.WithContext(ctx).Order(newestOrder), limit).Find(&entries).Error
	return entries, err
}

func (s *GormStore) ClearSystemLogs(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// WithTx hands fn a store bound to a single database transaction.
func (s *GormStore) WithTx(ctx context.Context, fn TxFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
