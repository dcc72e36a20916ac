package models

import "time"

// PendingPublicOrder stages everything needed to materialize an anonymous
// order once the provider confirms payment. It lives in redis under the
// provider's deposit/collection id and expires on its own; if it is gone when
// the webhook arrives, materialization fails instead of guessing.
type PendingPublicOrder struct {
	OrderKey        string        `json:"orderKey"`
	Provider        string        `json:"provider"`
	ClinicID        string        `json:"clinicId"`
	TestNumber      int           `json:"testNumber"`
	Booker          PublicBooker  `json:"booker"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	DeliveryMethod  string        `json:"deliveryMethod"`
	DeliveryAddress string        `json:"deliveryAddress,omitempty"`
	Discount        *Discount     `json:"discount,omitempty"`
	ScheduledAt     *time.Time    `json:"scheduledAt,omitempty"`
	ExpectedAmount  float64       `json:"expectedAmount"`
	Currency        string        `json:"currency"`
	CreatedAt       time.Time     `json:"createdAt"`
}
