package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
// Records are copied on the way in and out so callers never share state.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[string]*models.User
	tenants     map[string]*models.Tenant
	trucks      map[string]*models.Truck
	loads       map[string]*models.Load
	bookings    map[string]*models.Booking
	bilties     map[string]*models.Bilty
	payments    map[string]*models.Payment
	billing     map[string]*models.BillingRecord
	assignments map[string]*models.DriverAssignment
	loginLogs   map[string]*models.LoginLog
	systemLogs  map[string]*models.SystemLog

	now func() time.Time
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*models.User),
		tenants:     make(map[string]*models.Tenant),
		trucks:      make(map[string]*models.Truck),
		loads:       make(map[string]*models.Load),
		bookings:    make(map[string]*models.Booking),
		bilties:     make(map[string]*models.Bilty),
		payments:    make(map[string]*models.Payment),
		billing:     make(map[string]*models.BillingRecord),
		assignments: make(map[string]*models.DriverAssignment),
		loginLogs:   make(map[string]*models.LoginLog),
		systemLogs:  make(map[string]*models.SystemLog),
		now:         time.Now,
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func values[T any](m map[string]*T, keep func(*T) bool) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

// newest sorts by creation time descending, id breaking ties.
func newest[T any](rows []*T, created func(*T) time.Time, id func(*T) string) {
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := created(rows[i]), created(rows[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(rows[i]) > id(rows[j])
	})
}

func (m *MemoryStore) stamp(id *string, created, updated *time.Time) {
	now := m.now()
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

// User operations
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if user.Email != "" && u.Email == user.Email {
			return ErrDuplicate
		}
		if user.FirebaseUID != nil && u.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return ErrDuplicate
		}
	}
	m.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	track(ctx, m, m.users, user.ID)
	m.users[user.ID] = clone(user)
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(user), nil
}

func (m *MemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return email != "" && u.Email == email })
}

func (m *MemoryStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return phone != "" && u.Phone == phone })
}

func (m *MemoryStore) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == uid })
}

func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return ErrNotFound
	}
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if user.Email != "" && u.Email == user.Email {
			return ErrDuplicate
		}
		if user.FirebaseUID != nil && u.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return ErrDuplicate
		}
	}
	user.UpdatedAt = m.now()
	track(ctx, m, m.users, user.ID)
	m.users[user.ID] = clone(user)
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := values(m.users, nil)
	newest(users, func(u *models.User) time.Time { return u.CreatedAt }, func(u *models.User) string { return u.ID })
	return users, nil
}

// Tenant operations
func (m *MemoryStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tenants {
		if t.Name == tenant.Name {
			return ErrDuplicate
		}
	}
	m.stamp(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	track(ctx, m, m.tenants, tenant.ID)
	m.tenants[tenant.ID] = clone(tenant)
	return nil
}

func (m *MemoryStore) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tenant, exists := m.tenants[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(tenant), nil
}

func (m *MemoryStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tenants := values(m.tenants, nil)
	newest(tenants, func(t *models.Tenant) time.Time { return t.CreatedAt }, func(t *models.Tenant) string { return t.ID })
	return tenants, nil
}

func (m *MemoryStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tenants[tenant.ID]; !exists {
		return ErrNotFound
	}
	tenant.UpdatedAt = m.now()
	track(ctx, m, m.tenants, tenant.ID)
	m.tenants[tenant.ID] = clone(tenant)
	return nil
}

// Truck operations
func (m *MemoryStore) CreateTruck(ctx context.Context, truck *models.Truck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.trucks {
		if t.VehicleNumber == truck.VehicleNumber {
			return ErrDuplicate
		}
	}
	m.stamp(&truck.ID, &truck.CreatedAt, &truck.UpdatedAt)
	track(ctx, m, m.trucks, truck.ID)
	m.trucks[truck.ID] = clone(truck)
	return nil
}

func (m *MemoryStore) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	truck, exists := m.trucks[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(truck), nil
}

func (m *MemoryStore) ListTrucks(ctx context.Context, filter models.TruckFilter) ([]*models.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trucks := values(m.trucks, func(t *models.Truck) bool {
		if filter.DriverID != "" && t.DriverID != filter.DriverID {
			return false
		}
		return !filter.AvailableOnly || t.IsAvailable
	})
	newest(trucks, func(t *models.Truck) time.Time { return t.CreatedAt }, func(t *models.Truck) string { return t.ID })
	return trucks, nil
}

func (m *MemoryStore) FindMatchingTrucks(ctx context.Context, minCapacity float64) ([]*models.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trucks := values(m.trucks, func(t *models.Truck) bool { return t.CanCarry(minCapacity) })
	sort.SliceStable(trucks, func(i, j int) bool {
		if trucks[i].Capacity != trucks[j].Capacity {
			return trucks[i].Capacity < trucks[j].Capacity
		}
		return trucks[i].ID < trucks[j].ID
	})
	return trucks, nil
}

func (m *MemoryStore) ClaimTruck(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	truck, exists := m.trucks[id]
	if !exists || !truck.IsAvailable {
		return ErrConflict
	}
	updated := clone(truck)
	updated.IsAvailable = false
	updated.UpdatedAt = m.now()
	track(ctx, m, m.trucks, id)
	m.trucks[id] = updated
	return nil
}

func (m *MemoryStore) ReleaseTruck(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	truck, exists := m.trucks[id]
	if !exists {
		return ErrNotFound
	}
	updated := clone(truck)
	updated.IsAvailable = true
	updated.UpdatedAt = m.now()
	track(ctx, m, m.trucks, id)
	m.trucks[id] = updated
	return nil
}

// Load operations
func (m *MemoryStore) CreateLoad(ctx context.Context, load *models.Load) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if load.Status == "" {
		load.Status = models.LoadStatusPending
	}
	m.stamp(&load.ID, &load.CreatedAt, &load.UpdatedAt)
	track(ctx, m, m.loads, load.ID)
	m.loads[load.ID] = clone(load)
	return nil
}

func (m *MemoryStore) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	load, exists := m.loads[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(load), nil
}

func (m *MemoryStore) ListLoads(ctx context.Context, filter models.LoadFilter) ([]*models.Load, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loads := values(m.loads, func(l *models.Load) bool {
		if filter.CustomerID != "" && l.CustomerID != filter.CustomerID {
			return false
		}
		return filter.Status == "" || l.Status == filter.Status
	})
	newest(loads, func(l *models.Load) time.Time { return l.CreatedAt }, func(l *models.Load) string { return l.ID })
	return loads, nil
}

func (m *MemoryStore) TransitionLoad(ctx context.Context, id, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	load, exists := m.loads[id]
	if !exists || load.Status != from {
		return ErrConflict
	}
	updated := clone(load)
	updated.Status = to
	updated.UpdatedAt = m.now()
	track(ctx, m, m.loads, id)
	m.loads[id] = updated
	return nil
}

func (m *MemoryStore) SetLoadStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	load, exists := m.loads[id]
	if !exists {
		return ErrNotFound
	}
	updated := clone(load)
	updated.Status = status
	updated.UpdatedAt = m.now()
	track(ctx, m, m.loads, id)
	m.loads[id] = updated
	return nil
}

// Booking operations
func (m *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stamp(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	track(ctx, m, m.bookings, booking.ID)
	m.bookings[booking.ID] = clone(booking)
	return nil
}

func (m *MemoryStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, exists := m.bookings[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(booking), nil
}

func (m *MemoryStore) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bookings := values(m.bookings, func(b *models.Booking) bool {
		switch {
		case filter.CustomerID != "" && b.CustomerID != filter.CustomerID:
			return false
		case filter.DriverID != "" && b.DriverID != filter.DriverID:
			return false
		case filter.Status != "" && b.Status != filter.Status:
			return false
		case filter.PaymentStatus != "" && b.PaymentStatus != filter.PaymentStatus:
			return false
		}
		return true
	})
	newest(bookings, func(b *models.Booking) time.Time { return b.CreatedAt }, func(b *models.Booking) string { return b.ID })
	return bookings, nil
}

func (m *MemoryStore) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[booking.ID]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = m.now()
	track(ctx, m, m.bookings, booking.ID)
	m.bookings[booking.ID] = clone(booking)
	return nil
}

// Bilty operations
func (m *MemoryStore) biltyConflicts(bilty *models.Bilty) bool {
	for id, b := range m.bilties {
		if id == bilty.ID {
			continue
		}
		if b.BookingID == bilty.BookingID || b.LRNumber == bilty.LRNumber {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateBilty(ctx context.Context, bilty *models.Bilty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.biltyConflicts(bilty) {
		return ErrDuplicate
	}
	m.stamp(&bilty.ID, &bilty.CreatedAt, &bilty.UpdatedAt)
	track(ctx, m, m.bilties, bilty.ID)
	m.bilties[bilty.ID] = clone(bilty)
	return nil
}

func (m *MemoryStore) GetBilty(ctx context.Context, id string) (*models.Bilty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bilty, exists := m.bilties[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(bilty), nil
}

func (m *MemoryStore) findBilty(match func(*models.Bilty) bool) (*models.Bilty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bilties {
		if match(b) {
			return clone(b), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetBiltyByBooking(ctx context.Context, bookingID string) (*models.Bilty, error) {
	return m.findBilty(func(b *models.Bilty) bool { return b.BookingID == bookingID })
}

func (m *MemoryStore) GetBiltyByLRNumber(ctx context.Context, lrNumber string) (*models.Bilty, error) {
	return m.findBilty(func(b *models.Bilty) bool { return b.LRNumber == lrNumber })
}

func (m *MemoryStore) ListBilties(ctx context.Context) ([]*models.Bilty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bilties := values(m.bilties, nil)
	newest(bilties, func(b *models.Bilty) time.Time { return b.CreatedAt }, func(b *models.Bilty) string { return b.ID })
	return bilties, nil
}

func (m *MemoryStore) UpdateBilty(ctx context.Context, bilty *models.Bilty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bilties[bilty.ID]; !exists {
		return ErrNotFound
	}
	if m.biltyConflicts(bilty) {
		return ErrDuplicate
	}
	bilty.UpdatedAt = m.now()
	track(ctx, m, m.bilties, bilty.ID)
	m.bilties[bilty.ID] = clone(bilty)
	return nil
}

func (m *MemoryStore) DeleteBilty(ctx context.Context, id string) (*models.Bilty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bilty, exists := m.bilties[id]
	if !exists {
		return nil, ErrNotFound
	}
	track(ctx, m, m.bilties, id)
	delete(m.bilties, id)
	return clone(bilty), nil
}

// Payment operations
func (m *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
		if p.BookingID == payment.BookingID {
			return ErrDuplicate
		}
	}
	m.stamp(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	track(ctx, m, m.payments, payment.ID)
	m.payments[payment.ID] = clone(payment)
	return nil
}

func (m *MemoryStore) GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.payments {
		if p.BookingID == bookingID {
			return clone(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.payments[payment.ID]; !exists {
		return ErrNotFound
	}
	payment.UpdatedAt = m.now()
	track(ctx, m, m.payments, payment.ID)
	m.payments[payment.ID] = clone(payment)
	return nil
}

// Billing operations
func (m *MemoryStore) CreateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.billing {
		if r.BookingID == record.BookingID {
			return ErrDuplicate
		}
	}
	m.stamp(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	track(ctx, m, m.billing, record.ID)
	m.billing[record.ID] = clone(record)
	return nil
}

func (m *MemoryStore) GetBillingRecordByBooking(ctx context.Context, bookingID string) (*models.BillingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.billing {
		if r.BookingID == bookingID {
			return clone(r), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.billing[record.ID]; !exists {
		return ErrNotFound
	}
	record.UpdatedAt = m.now()
	track(ctx, m, m.billing, record.ID)
	m.billing[record.ID] = clone(record)
	return nil
}

// Assignment operations
func (m *MemoryStore) CreateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stamp(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	track(ctx, m, m.assignments, assignment.ID)
	m.assignments[assignment.ID] = clone(assignment)
	return nil
}

func (m *MemoryStore) GetAssignmentByBooking(ctx context.Context, bookingID string) (*models.DriverAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.assignments {
		if a.BookingID == bookingID {
			return clone(a), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.assignments[assignment.ID]; !exists {
		return ErrNotFound
	}
	assignment.UpdatedAt = m.now()
	track(ctx, m, m.assignments, assignment.ID)
	m.assignments[assignment.ID] = clone(assignment)
	return nil
}

// Audit operations
func (m *MemoryStore) CreateLoginLog(ctx context.Context, entry *models.LoginLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stamp(&entry.ID, &entry.CreatedAt, nil)
	m.loginLogs[entry.ID] = clone(entry)
	return nil
}

func (m *MemoryStore) ListLoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := values(m.loginLogs, nil)
	newest(entries, func(l *models.LoginLog) time.Time { return l.CreatedAt }, func(l *models.LoginLog) string { return l.ID })
	return truncate(entries, limit), nil
}

func (m *MemoryStore) CreateSystemLog(ctx context.Context, entry *models.SystemLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stamp(&entry.ID, &entry.CreatedAt, nil)
	m.systemLogs[entry.ID] = clone(entry)
	return nil
}

func (m *MemoryStore) ListSystemLogs(ctx context.Context, limit int) ([]*models.SystemLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := values(m.systemLogs, nil)
	newest(entries, func(l *models.SystemLog) time.Time { return l.CreatedAt }, func(l *models.SystemLog) string { return l.ID })
	return truncate(entries, limit), nil
}

func (m *MemoryStore) ClearSystemLogs(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.systemLogs))
	m.systemLogs = make(map[string]*models.SystemLog)
	return n, nil
}

func truncate[T any](rows []*T, limit int) []*T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// WithTx serializes transactions and undoes the writes fn made when it
// fails. Only writes issued with the ctx handed to fn are journaled, so
// concurrent writes from outside the transaction survive a rollback.
// Nested WithTx calls deadlock; fn must use the tx it is handed.
func (m *MemoryStore) WithTx(ctx context.Context, fn TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	j := &txJournal{store: m}
	if err := fn(context.WithValue(ctx, txKey{}, j), m); err != nil {
		m.rollback(j)
		return err
	}
	return nil
}

type txKey struct{}

// txJournal records how to undo each write of one transaction. Audit logs
// are never journaled: they are written best effort outside transactions.
type txJournal struct {
	store *MemoryStore
	undo  []func()
}

// track remembers the current value of table[id] when ctx belongs to a
// transaction on m. Callers hold m.mu. Stored records are never mutated in
// place, so keeping the pointer is enough.
func track[T any](ctx context.Context, m *MemoryStore, table map[string]*T, id string) {
	j, _ := ctx.Value(txKey{}).(*txJournal)
	if j == nil || j.store != m {
		return
	}
	prev, existed := table[id]
	j.undo = append(j.undo, func() {
		if existed {
			table[id] = prev
		} else {
			delete(table, id)
		}
	})
}

func (m *MemoryStore) rollback(j *txJournal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
