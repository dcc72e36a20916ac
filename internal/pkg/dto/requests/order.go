package requests

type UpdateTestStatus struct {
	OrderID string `json:"-" validate:"required"`
	TestID  string `json:"-" validate:"required"`
	Status  string `json:"status" validate:"required"`
	Reason  string `json:"reason,omitempty"`
}

type UploadResult struct {
	OrderID     string `json:"-" validate:"required"`
	TestID      string `json:"-" validate:"required"`
	FileName    string `json:"-" validate:"required"`
	ContentType string `json:"-" validate:"required"`
	Document    []byte `json:"-" validate:"required"`
}

type UpdatePaymentMethod struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=subscription insurance mobile_money bank_transfer"`
}

type UpdateDeliveryAddress struct {
	DeliveryMethod  string `json:"deliveryMethod" validate:"required,oneof=pickup home_collection courier"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
}

type SubmitWithdrawal struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	// Provider selects the payout rail.
	Provider string `json:"provider" validate:"required,oneof=pawapay yellowcard"`
	// RecipientAccount is the mobile-money number or bank account to pay out to.
	RecipientAccount string `json:"recipientAccount" validate:"required"`
}
