package requests

// PaymentMetadata is the strongly-typed business context attached to every
// payment initiation. Each adapter serializes it to its provider's wire shape
// at the boundary; the webhook handler deserializes it back to decide how to
// materialize the order.
type PaymentMetadata struct {
	PatientID       string `json:"patientId,omitempty"`
	Public          bool   `json:"public,omitempty"`
	DeliveryMethod  string `json:"deliveryMethod"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
}

type InitiateDeposit struct {
	// IdempotencyKey is generated by the caller, never the provider, so a
	// retried initiation cannot double-charge.
	IdempotencyKey string
	Amount         float64
	Currency       string
	PayerAccount   string
	Description    string
	Metadata       PaymentMetadata
}

type SubmitPayout struct {
	IdempotencyKey   string
	Amount           float64
	Currency         string
	RecipientAccount string
	Description      string
}
