package models

import "time"

// Tenant groups records by company. References to it are informational.
type Tenant struct {
	ID       string `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	Name     string `json:"name" bson:"name" gorm:"uniqueIndex;not null"`
	IsActive bool   `json:"isActive" bson:"isActive"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// All returns every persisted model, used for gorm migrations.
func All() []interface{} {
	return []interface{}{
		&User{}, &Tenant{}, &Truck{}, &Load{}, &Booking{}, &Bilty{},
		&Payment{}, &BillingRecord{}, &DriverAssignment{}, &LoginLog{}, &SystemLog{},
	}
}
