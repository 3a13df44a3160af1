package models

import (
	"strings"
	"time"
)

// Truck is a vehicle posted by a driver.
type Truck struct {
	ID              string  `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	TenantID        string  `json:"tenant,omitempty" bson:"tenant,omitempty" gorm:"index"`
	DriverID        string  `json:"driverId" bson:"driver" gorm:"index;not null"`
	VehicleNumber   string  `json:"vehicleNumber" bson:"vehicleNumber" gorm:"uniqueIndex;not null"`
	Capacity        float64 `json:"capacity" bson:"capacity"` // in tons
	VehicleType     string  `json:"vehicleType" bson:"vehicleType"`
	CurrentLocation string  `json:"currentLocation" bson:"currentLocation"`
	IsAvailable     bool    `json:"isAvailable" bson:"isAvailable" gorm:"index"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeVehicleNumber removes spaces and uppercases the plate
func NormalizeVehicleNumber(v string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}

// CanCarry checks if the truck is free and big enough for the load
func (t *Truck) CanCarry(requiredCapacity float64) bool {
	return t.IsAvailable && t.Capacity >= requiredCapacity
}

// TruckSummary is the projection embedded in booking listings.
type TruckSummary struct {
	ID            string `json:"id"`
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType"`
}

// Summary projects the truck for listings.
func (t *Truck) Summary() TruckSummary {
	return TruckSummary{ID: t.ID, VehicleNumber: t.VehicleNumber, VehicleType: t.VehicleType}
}

// TruckFilter narrows truck listings.
type TruckFilter struct {
	DriverID      string
	AvailableOnly bool
}
