package requests

type EmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	// Data carries the template variables; rendering happens in the mailer
	// worker, not here.
	Data map[string]interface{} `json:"data,omitempty"`
}
