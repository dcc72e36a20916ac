package models

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusFailed    WithdrawalStatus = "failed"
)

type WithdrawalHistoryEntry struct {
	Status    WithdrawalStatus `json:"status" bson:"status"`
	Timestamp time.Time        `json:"timestamp" bson:"timestamp"`
}

// Withdrawal is a clinic payout request. The clinic balance is debited
// (amount + fee) when the request is submitted; a failed payout refunds the
// full debit.
type Withdrawal struct {
	ID            string                   `json:"id" bson:"_id,omitempty"`
	ClinicID      string                   `json:"clinicId" bson:"clinicId"`
	Amount        float64                  `json:"amount" bson:"amount"`
	Fee           float64                  `json:"fee" bson:"fee"`
	Currency      string                   `json:"currency" bson:"currency"`
	Provider      string                   `json:"provider" bson:"provider"`
	PayoutID      string                   `json:"payoutId" bson:"payoutId"`
	Status        WithdrawalStatus         `json:"status" bson:"status"`
	FailureReason string                   `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	StatusHistory []WithdrawalHistoryEntry `json:"statusHistory" bson:"statusHistory"`
	TimeModel     `bson:",inline"`
}
