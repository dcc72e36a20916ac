package requests

// YellowCardCallback covers both collection (deposit) and disbursement
// (payout) events; EventType tells them apart.
type YellowCardCallback struct {
	SequenceID string            `json:"sequenceId"`
	EventType  string            `json:"eventType"` // "collection" | "disbursement"
	Status     string            `json:"status"`
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	Reason     string            `json:"reason,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// TypedMetadata rebuilds the platform's metadata struct from the provider's
// flat map.
func (c *YellowCardCallback) TypedMetadata() PaymentMetadata {
	return PaymentMetadata{
		PatientID:       c.Metadata["patientId"],
		Public:          c.Metadata["public"] == "true",
		DeliveryMethod:  c.Metadata["deliveryMethod"],
		DeliveryAddress: c.Metadata["deliveryAddress"],
	}
}
