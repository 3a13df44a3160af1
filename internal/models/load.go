package models

import "time"

// Load status constants
const (
	LoadStatusPending   = "pending"
	LoadStatusMatched   = "matched"
	LoadStatusDelivered = "delivered"
)

// Load represents a shipment that needs to be transported
type Load struct {
	ID            string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	TenantID      string `json:"tenant,omitempty" bson:"tenant,omitempty" gorm:"index"`
	CustomerID    string `json:"customerId" bson:"customer" gorm:"index;not null"`
	ConsignorName string `json:"consignorName" bson:"consignorName"`
	ConsigneeName string `json:"consigneeName" bson:"consigneeName"`
	Material      string `json:"material" bson:"material"`

	// RequiredCapacity is in tons
	RequiredCapacity float64 `json:"requiredCapacity" bson:"requiredCapacity"`

	From   string `json:"from" bson:"from" gorm:"column:origin"`
	To     string `json:"to" bson:"to" gorm:"column:destination"`
	Status string `json:"status" bson:"status" gorm:"index;default:pending"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LoadFilter narrows load listings. Empty fields match everything.
type LoadFilter struct {
	CustomerID string
	Status     string
}

// IsValidLoadStatus checks status against the known load statuses
func IsValidLoadStatus(status string) bool {
	switch status {
	case LoadStatusPending, LoadStatusMatched, LoadStatusDelivered:
		return true
	}
	return false
}
