package models

import "time"

// Payment tracks what is owed on a booking.
type Payment struct {
	ID            string     `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	BookingID     string     `json:"bookingId" bson:"booking" gorm:"uniqueIndex;not null"`
	Amount        float64    `json:"amount" bson:"amount"`
	AdvancePaid   float64    `json:"advancePaid" bson:"advancePaid"`
	BalanceAmount float64    `json:"balanceAmount" bson:"balanceAmount"`
	PaymentMode   string     `json:"paymentMode" bson:"paymentMode"`
	Status        string     `json:"status" bson:"status" gorm:"default:pending"`
	PaidAt        *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BillingRecord reconciles invoice and LR numbers with booking totals.
type BillingRecord struct {
	ID            string     `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	BookingID     string     `json:"bookingId" bson:"booking" gorm:"uniqueIndex;not null"`
	CustomerID    string     `json:"customerId" bson:"customer" gorm:"index"`
	DriverID      string     `json:"driverId" bson:"driver"`
	TruckID       string     `json:"truckId" bson:"truck"`
	LoadID        string     `json:"loadId" bson:"load"`
	LRNumber      string     `json:"lrNumber,omitempty" bson:"lrNumber,omitempty" gorm:"index"`
	InvoiceNumber string     `json:"invoiceNumber" bson:"invoiceNumber" gorm:"index"`
	FreightAmount float64    `json:"freightAmount" bson:"freightAmount"`
	GSTAmount     float64    `json:"gstAmount" bson:"gstAmount"`
	TotalAmount   float64    `json:"totalAmount" bson:"totalAmount"`
	AdvancePaid   float64    `json:"advancePaid" bson:"advancePaid"`
	BalanceAmount float64    `json:"balanceAmount" bson:"balanceAmount"`
	PaymentMode   string     `json:"paymentMode" bson:"paymentMode"`
	PaymentStatus string     `json:"paymentStatus" bson:"paymentStatus" gorm:"default:pending"`
	PaidAt        *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DriverAssignment records which admin put which driver on a booking.
type DriverAssignment struct {
	ID         string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	BookingID  string `json:"bookingId" bson:"booking" gorm:"index;not null"`
	DriverID   string `json:"driverId" bson:"driver" gorm:"index;not null"`
	TruckID    string `json:"truckId" bson:"truck" gorm:"not null"`
	AssignedBy string `json:"assignedBy" bson:"assignedBy" gorm:"not null"`
	Status     string `json:"status" bson:"status" gorm:"default:assigned"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
