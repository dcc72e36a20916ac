package requests

// PawaPayMetadataField is the provider's wire shape for metadata: an array of
// key/value pairs. The typed PaymentMetadata is converted to and from this
// shape only inside the adapter and webhook layers.
type PawaPayMetadataField struct {
	FieldName  string `json:"fieldName"`
	FieldValue string `json:"fieldValue"`
}

type PawaPayFailureReason struct {
	FailureCode    string `json:"failureCode"`
	FailureMessage string `json:"failureMessage"`
}

type PawaPayDepositCallback struct {
	DepositID       string                 `json:"depositId"`
	Status          string                 `json:"status"`
	DepositedAmount string                 `json:"depositedAmount"`
	Currency        string                 `json:"currency"`
	FailureReason   *PawaPayFailureReason  `json:"failureReason,omitempty"`
	Metadata        []PawaPayMetadataField `json:"metadata,omitempty"`
}

// TypedMetadata rebuilds the platform's metadata struct from the provider's
// key/value array.
func (c *PawaPayDepositCallback) TypedMetadata() PaymentMetadata {
	var md PaymentMetadata
	for _, f := range c.Metadata {
		switch f.FieldName {
		case "patientId":
			md.PatientID = f.FieldValue
		case "public":
			md.Public = f.FieldValue == "true"
		case "deliveryMethod":
			md.DeliveryMethod = f.FieldValue
		case "deliveryAddress":
			md.DeliveryAddress = f.FieldValue
		}
	}
	return md
}

type PawaPayPayoutCallback struct {
	PayoutID      string                `json:"payoutId"`
	Status        string                `json:"status"`
	Amount        string                `json:"amount"`
	Currency      string                `json:"currency"`
	FailureReason *PawaPayFailureReason `json:"failureReason,omitempty"`
}
