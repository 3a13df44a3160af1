package models

import (
	"strings"
	"time"
)

// Booking status constants
const (
	BookingStatusAssigned  = "assigned"
	BookingStatusInTransit = "in-transit"
	BookingStatusDelivered = "delivered"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Payment mode constants
const (
	PaymentModeCash = "cash"
	PaymentModeBank = "bank"
	PaymentModeUPI  = "upi"
	PaymentModeCard = "card"
)

// Booking is the aggregate root of a shipment: one load carried by one truck.
type Booking struct {
	ID         string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	TenantID   string `json:"tenant,omitempty" bson:"tenant,omitempty" gorm:"index"`
	LoadID     string `json:"loadId" bson:"load" gorm:"index;not null"`
	TruckID    string `json:"truckId" bson:"truck" gorm:"index;not null"`
	DriverID   string `json:"driverId" bson:"driver" gorm:"index;not null"`
	CustomerID string `json:"customerId" bson:"customer" gorm:"index;not null"`

	Status        string `json:"status" bson:"status" gorm:"default:assigned"`
	PaymentStatus string `json:"paymentStatus" bson:"paymentStatus" gorm:"default:pending"`

	FreightAmount float64 `json:"freightAmount" bson:"freightAmount"`
	AdvancePaid   float64 `json:"advancePaid" bson:"advancePaid"`
	BalanceAmount float64 `json:"balanceAmount" bson:"balanceAmount"`
	GSTAmount     float64 `json:"gstAmount" bson:"gstAmount"`
	PaymentMode   string  `json:"paymentMode" bson:"paymentMode" gorm:"default:cash"`

	From string `json:"from" bson:"from" gorm:"column:origin"`
	To   string `json:"to" bson:"to" gorm:"column:destination"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TotalAmount is freight plus GST
func (b *Booking) TotalAmount() float64 {
	return b.FreightAmount + b.GSTAmount
}

// InvoiceNumber is derived from the trailing characters of the booking id.
func (b *Booking) InvoiceNumber() string {
	return InvoiceNumberFor(b.ID)
}

// InvoiceNumberFor builds "INV-XXXXXX" from an id.
func InvoiceNumberFor(id string) string {
	tail := id
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return "INV-" + strings.ToUpper(tail)
}

// BookingFilter narrows booking listings. Empty fields match everything.
type BookingFilter struct {
	CustomerID    string
	DriverID      string
	Status        string
	PaymentStatus string
}

// BookingView is a booking with its references resolved for listings.
type BookingView struct {
	*Booking
	Load   *Load         `json:"load,omitempty"`
	Driver *UserSummary  `json:"driver,omitempty"`
	Truck  *TruckSummary `json:"truck,omitempty"`
}

// bookingStatusRank orders statuses along the trip lifecycle.
var bookingStatusRank = map[string]int{
	BookingStatusAssigned:  0,
	BookingStatusInTransit: 1,
	BookingStatusDelivered: 2,
}

// IsValidBookingStatus checks status against the trip lifecycle
func IsValidBookingStatus(status string) bool {
	_, ok := bookingStatusRank[status]
	return ok
}

// CanAdvanceTo reports whether a booking may move from one status to another.
// Staying put is allowed; moving backwards is not.
func CanAdvanceTo(from, to string) bool {
	f, okFrom := bookingStatusRank[from]
	t, okTo := bookingStatusRank[to]
	return okFrom && okTo && t >= f
}

// IsValidPaymentStatus checks status against the known payment statuses
func IsValidPaymentStatus(status string) bool {
	return status == PaymentStatusPending || status == PaymentStatusPaid
}

// IsValidPaymentMode checks mode against the accepted payment modes
func IsValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeBank, PaymentModeUPI, PaymentModeCard:
		return true
	}
	return false
}
