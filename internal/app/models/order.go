package models

import "time"

type PaymentMethod string

const (
	PaymentMethodSubscription PaymentMethod = "subscription"
	PaymentMethodInsurance    PaymentMethod = "insurance"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type OrderTestStatus string

const (
	TestStatusPending         OrderTestStatus = "pending"
	TestStatusSampleCollected OrderTestStatus = "sample_collected"
	TestStatusProcessing      OrderTestStatus = "processing"
	TestStatusResultReady     OrderTestStatus = "result_ready"
	TestStatusResultSent      OrderTestStatus = "result_sent"
	TestStatusRejected        OrderTestStatus = "rejected"
	TestStatusCancelled       OrderTestStatus = "cancelled"
	TestStatusFailed          OrderTestStatus = "failed"
)

// KnownTestStatuses lists every status the transition engine accepts.
var KnownTestStatuses = map[OrderTestStatus]bool{
	TestStatusPending:         true,
	TestStatusSampleCollected: true,
	TestStatusProcessing:      true,
	TestStatusResultReady:     true,
	TestStatusResultSent:      true,
	TestStatusRejected:        true,
	TestStatusCancelled:       true,
	TestStatusFailed:          true,
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderTestStatus) IsTerminal() bool {
	switch s {
	case TestStatusResultSent, TestStatusRejected, TestStatusCancelled, TestStatusFailed:
		return true
	}
	return false
}

// RequiresReason reports whether a transition into s must carry a reason.
func (s OrderTestStatus) RequiresReason() bool {
	switch s {
	case TestStatusRejected, TestStatusCancelled, TestStatusFailed:
		return true
	}
	return false
}

type StatusHistoryEntry struct {
	Status    OrderTestStatus `json:"status" bson:"status"`
	Timestamp time.Time       `json:"timestamp" bson:"timestamp"`
}

// OrderTest is a fulfillment line item. Name, price, turnaround and description
// are snapshots taken at order creation; later edits to the live test record
// never touch historical orders.
type OrderTest struct {
	TestID        string               `json:"testId" bson:"testId"`
	Name          string               `json:"name" bson:"name"`
	Price         float64              `json:"price" bson:"price"`
	Turnaround    string               `json:"turnaround" bson:"turnaround"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	Image         string               `json:"image,omitempty" bson:"image,omitempty"`
	ScheduledAt   *time.Time           `json:"scheduledAt,omitempty" bson:"scheduledAt,omitempty"`
	Status        OrderTestStatus      `json:"status" bson:"status"`
	StatusReason  string               `json:"statusReason,omitempty" bson:"statusReason,omitempty"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory" bson:"statusHistory"`
}

// PublicBooker identifies an anonymous customer who completed a public
// checkout without a patient account.
type PublicBooker struct {
	FullName    string `json:"fullName" bson:"fullName"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
}

// PawaPayInfo records the mobile-money provider's view of the payment.
type PawaPayInfo struct {
	DepositID string `json:"depositId" bson:"depositId"`
	Status    string `json:"status" bson:"status"`
}

// YellowCardInfo records the bank collection provider's view of the payment.
type YellowCardInfo struct {
	SequenceID string `json:"sequenceId" bson:"sequenceId"`
	Status     string `json:"status" bson:"status"`
}

type Order struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	OrderCode       string          `json:"orderCode" bson:"orderCode"`
	ClinicID        string          `json:"clinicId" bson:"clinicId"`
	PatientID       string          `json:"patientId,omitempty" bson:"patientId,omitempty"`
	PublicBooker    *PublicBooker   `json:"publicBooker,omitempty" bson:"publicBooker,omitempty"`
	Tests           []OrderTest     `json:"tests" bson:"tests"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" bson:"paymentStatus"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalAmount"`
	Currency        string          `json:"currency" bson:"currency"`
	DeliveryMethod  string          `json:"deliveryMethod" bson:"deliveryMethod"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty" bson:"deliveryAddress,omitempty"`
	PawaPayInfo     *PawaPayInfo    `json:"pawaPayInfo,omitempty" bson:"pawaPayInfo,omitempty"`
	YellowCardInfo  *YellowCardInfo `json:"yellowCardInfo,omitempty" bson:"yellowCardInfo,omitempty"`
	FailureReason   string          `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	TimeModel       `bson:",inline"`
}
