package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

type staticBookings struct {
	bookings []*models.Booking
	err      error
}

func (s staticBookings) ListAwaitingPayment(ctx context.Context) ([]*models.Booking, error) {
	return s.bookings, s.err
}

type recordingSMS struct {
	mu   sync.Mutex
	sent map[string][]string
	fail map[string]bool
}

func newRecordingSMS() *recordingSMS {
	return &recordingSMS{sent: map[string][]string{}, fail: map[string]bool{}}
}

func (r *recordingSMS) SendSMS(ctx context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[to] {
		return errors.New("carrier rejected")
	}
	r.sent[to] = append(r.sent[to], body)
	return nil
}

func (r *recordingSMS) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msgs := range r.sent {
		n += len(msgs)
	}
	return n
}

func seedCustomers(t *testing.T) (*storage.MemoryStore, *models.User, *models.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	alice := &models.User{Name: "Alice", Email: "alice@example.com", Phone: "+911111111111", Role: models.RoleCustomer}
	bob := &models.User{Name: "Bob", Email: "bob@example.com", Phone: "+922222222222", Role: models.RoleCustomer}
	require.NoError(t, store.CreateUser(context.Background(), alice))
	require.NoError(t, store.CreateUser(context.Background(), bob))
	return store, alice, bob
}

func TestRunOnce(t *testing.T) {
	store, alice, bob := seedCustomers(t)
	bookings := staticBookings{bookings: []*models.Booking{
		{ID: "65f1a2b3c4d5e6f7a8c0ffee", CustomerID: alice.ID, BalanceAmount: 10200, From: "Pune", To: "Delhi"},
		{ID: models.NewID(), CustomerID: bob.ID, BalanceAmount: 500},
		{ID: models.NewID(), CustomerID: models.NewID(), BalanceAmount: 700},
	}}

	sms := newRecordingSMS()
	sms.fail[bob.Phone] = true
	job := NewPaymentReminderJob(bookings, store, sms, time.Hour, nil, zap.NewNop())

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, sms.sent[alice.Phone], 1)
	msg := sms.sent[alice.Phone][0]
	assert.Contains(t, msg, "Hi Alice")
	assert.Contains(t, msg, "Rs. 10200.00")
	assert.Contains(t, msg, "INV-C0FFEE")
	assert.Contains(t, msg, "Pune to Delhi")
}

func TestRunOnceListError(t *testing.T) {
	store, _, _ := seedCustomers(t)
	job := NewPaymentReminderJob(staticBookings{err: errors.New("store down")}, store, newRecordingSMS(), time.Hour, nil, zap.NewNop())

	_, err := job.RunOnce(context.Background())
	assert.ErrorContains(t, err, "store down")
}

func TestDisabled(t *testing.T) {
	store, _, _ := seedCustomers(t)

	assert.False(t, NewPaymentReminderJob(staticBookings{}, store, nil, time.Hour, nil, zap.NewNop()).Enabled())
	assert.False(t, NewPaymentReminderJob(staticBookings{}, store, newRecordingSMS(), 0, nil, zap.NewNop()).Enabled())

	job := NewPaymentReminderJob(staticBookings{}, store, nil, time.Hour, nil, zap.NewNop())
	job.Start(context.Background())
	job.Stop()

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestStartStop(t *testing.T) {
	store, alice, _ := seedCustomers(t)
	bookings := staticBookings{bookings: []*models.Booking{{ID: models.NewID(), CustomerID: alice.ID}}}
	sms := newRecordingSMS()

	job := NewPaymentReminderJob(bookings, store, sms, 10*time.Millisecond, nil, zap.NewNop())
	job.Start(context.Background())
	job.Start(context.Background())

	assert.Eventually(t, func() bool { return sms.count() >= 2 }, time.Second, 5*time.Millisecond)

	job.Stop()
	after := sms.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sms.count())

	job.Stop()
}
