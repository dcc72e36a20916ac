package models

import "time"

type CartItemStatus string

const (
	CartItemStatusPending CartItemStatus = "pending"
	CartItemStatusBooked  CartItemStatus = "booked"
)

// Discount is the snapshot written by the discount service onto a cart item.
// FinalPrice wins over the test's base price when positive.
type Discount struct {
	Code       string  `json:"code,omitempty" bson:"code,omitempty"`
	Percent    float64 `json:"percent" bson:"percent"`
	FinalPrice float64 `json:"finalPrice" bson:"finalPrice"`
}

type CartItem struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	PatientID   string         `json:"patientId" bson:"patientId"`
	ClinicID    string         `json:"clinicId" bson:"clinicId"`
	TestID      string         `json:"testId" bson:"testId"`
	Status      CartItemStatus `json:"status" bson:"status"`
	Discount    *Discount      `json:"discount,omitempty" bson:"discount,omitempty"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty" bson:"scheduledAt,omitempty"`
	TimeModel   `bson:",inline"`
}
