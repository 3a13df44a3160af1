package models

import "time"

// Bilty is the shipment document (lorry receipt) issued for a booking.
type Bilty struct {
	ID             string  `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	BookingID      string  `json:"bookingId" bson:"booking" gorm:"uniqueIndex;not null"`
	LRNumber       string  `json:"lrNumber" bson:"lrNumber" gorm:"uniqueIndex;not null"`
	ConsignorName  string  `json:"consignorName" bson:"consignorName"`
	ConsigneeName  string  `json:"consigneeName" bson:"consigneeName"`
	PickupLocation string  `json:"pickupLocation" bson:"pickupLocation"`
	DropLocation   string  `json:"dropLocation" bson:"dropLocation"`
	MaterialType   string  `json:"materialType" bson:"materialType"`
	Weight         float64 `json:"weight" bson:"weight"`
	TruckType      string  `json:"truckType" bson:"truckType"`
	DriverName     string  `json:"driverName" bson:"driverName"`
	DriverPhone    string  `json:"driverPhone" bson:"driverPhone"`
	VehicleNumber  string  `json:"vehicleNumber" bson:"vehicleNumber"`
	FreightAmount  float64 `json:"freightAmount" bson:"freightAmount"`
	AdvancePaid    float64 `json:"advancePaid" bson:"advancePaid"`
	BalanceAmount  float64 `json:"balanceAmount" bson:"balanceAmount"`
	PaymentMode    string  `json:"paymentMode" bson:"paymentMode"`
	ShipmentStatus string  `json:"shipmentStatus" bson:"shipmentStatus" gorm:"default:assigned"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BiltyView is a bilty with a short summary of its booking.
type BiltyView struct {
	*Bilty
	Booking *BookingRef `json:"booking,omitempty"`
}

// BookingRef is the booking projection shown next to a bilty.
type BookingRef struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}
