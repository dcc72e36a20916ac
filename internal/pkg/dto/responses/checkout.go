package responses

// Checkout is returned by both checkout paths. For the external rails the
// orders are not created yet; the provider reference is what the webhook will
// later confirm. For the privilege rails the orders come back immediately.
type Checkout struct {
	Provider          string   `json:"provider,omitempty"`
	ProviderReference string   `json:"providerReference,omitempty"`
	PaymentStatus     string   `json:"paymentStatus"`
	TotalAmount       float64  `json:"totalAmount"`
	Currency          string   `json:"currency"`
	OrderCodes        []string `json:"orderCodes,omitempty"`
}

type InitiateDeposit struct {
	ProviderReference string
	Status            string
}

type SubmitPayout struct {
	ProviderReference string
	Status            string
}
