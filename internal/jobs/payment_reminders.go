package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// AwaitingPayment lists delivered bookings that are still unpaid
type AwaitingPayment interface {
	ListAwaitingPayment(ctx context.Context) ([]*models.Booking, error)
}

// UserGetter resolves the customer to remind
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// PaymentReminderJob texts customers whose delivered bookings are unpaid
type PaymentReminderJob struct {
	bookings AwaitingPayment
	users    UserGetter
	sms      services.SMSSender
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPaymentReminderJob creates a new payment reminder job. A zero interval
// or a nil sender leaves the job disabled.
func NewPaymentReminderJob(bookings AwaitingPayment, users UserGetter, sms services.SMSSender, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *PaymentReminderJob {
	return &PaymentReminderJob{
		bookings: bookings,
		users:    users,
		sms:      sms,
		interval: interval,
		metrics:  m,
		logger:   logger.Named("jobs.payment_reminders"),
	}
}

// Enabled reports whether Start will schedule anything
func (j *PaymentReminderJob) Enabled() bool {
	return j.interval > 0 && j.sms != nil
}

// Start runs the job on its interval until Stop or ctx is cancelled
func (j *PaymentReminderJob) Start(ctx context.Context) {
	if !j.Enabled() {
		j.logger.Info("payment reminders disabled")
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.logger.Warn("payment reminders already running")
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.loop(ctx, j.done)
	j.logger.Info("payment reminders started", zap.Duration("interval", j.interval))
}

// Stop halts the job and waits for an in-flight run to finish
func (j *PaymentReminderJob) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	j.logger.Info("payment reminders stopped")
}

func (j *PaymentReminderJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.logger.Error("payment reminder run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce sends one reminder per unpaid delivered booking and returns how
// many were sent. Individual delivery failures are logged and skipped.
func (j *PaymentReminderJob) RunOnce(ctx context.Context) (int, error) {
	if j.sms == nil {
		return 0, nil
	}

	bookings, err := j.bookings.ListAwaitingPayment(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unpaid bookings: %w", err)
	}

	sent := 0
	for _, b := range bookings {
		customer, err := j.users.GetUser(ctx, b.CustomerID)
		if err != nil || customer.Phone == "" {
			j.logger.Warn("no phone for payment reminder", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}

		if err := j.sms.SendSMS(ctx, customer.Phone, reminderMessage(customer, b)); err != nil {
			j.logger.Warn("payment reminder not delivered", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		j.metrics.ReminderSent()
		sent++
	}

	if sent > 0 {
		j.logger.Info("payment reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}

func reminderMessage(customer *models.User, b *models.Booking) string {
	return fmt.Sprintf("Hi %s, payment of Rs. %.2f for invoice %s (%s to %s) is pending. Please clear the balance at the earliest.",
		customer.Name, b.BalanceAmount, b.InvoiceNumber(), b.From, b.To)
}
