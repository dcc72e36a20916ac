package requests

type Checkout struct {
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=subscription insurance mobile_money bank_transfer"`
	DeliveryMethod  string `json:"deliveryMethod" validate:"required,oneof=pickup home_collection courier"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	// PayerPhoneNumber is the mobile-money account to charge; required for the
	// mobile_money rail only.
	PayerPhoneNumber string `json:"payerPhoneNumber,omitempty" validate:"omitempty,e164"`
}

type PublicCheckout struct {
	ClinicID         string `json:"clinicId" validate:"required"`
	TestNumber       int    `json:"testNumber" validate:"required,gt=0"`
	FullName         string `json:"fullName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	PhoneNumber      string `json:"phoneNumber" validate:"required,e164"`
	PaymentMethod    string `json:"paymentMethod" validate:"required,oneof=mobile_money bank_transfer"`
	DeliveryMethod   string `json:"deliveryMethod" validate:"required,oneof=pickup home_collection courier"`
	DeliveryAddress  string `json:"deliveryAddress,omitempty"`
	PayerPhoneNumber string `json:"payerPhoneNumber,omitempty" validate:"omitempty,e164"`
	DiscountCode     string `json:"discountCode,omitempty"`
	// ScheduledAt is the requested slot in RFC 3339; public bookings are
	// always scheduled.
	ScheduledAt string `json:"scheduledAt" validate:"required"`
}
