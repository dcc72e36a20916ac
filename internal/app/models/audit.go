package models

import "time"

// OrderAuditRecord is written in the same transaction as the order mutation it
// describes, so an order is never updated without its audit trail.
type OrderAuditRecord struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	OrderID   string    `json:"orderId" bson:"orderId"`
	Field     string    `json:"field" bson:"field"`
	OldValue  string    `json:"oldValue" bson:"oldValue"`
	NewValue  string    `json:"newValue" bson:"newValue"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
