package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
	"time"
)

// NotificationService fans out to the patient, clinic and operator channels.
// Fire-and-forget from the core's perspective; failures are logged, never
// surfaced, because the financial transaction has already succeeded.
type NotificationService interface {
	NotifyPatient(ctx context.Context, patientID, title, message, category string) error
	NotifyClinic(ctx context.Context, clinicID, title, message, category string) error
	NotifyOperator(ctx context.Context, title, message, category string) error
	SendPush(ctx context.Context, token, title, message, category string, data map[string]string) error
}

// OperatorAlertService raises high-priority alerts that require a human, such
// as a reconciliation amount mismatch.
type OperatorAlertService interface {
	RaiseAlert(ctx context.Context, title, message string, details map[string]interface{}) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, recipientEmail string) error
	SendPaymentFailed(ctx context.Context, recipientEmail, reason string) error
	SendTestStatusUpdate(ctx context.Context, order *models.Order, test *models.OrderTest, recipientEmail string) error
}

type CalendarEvent struct {
	EventLink string
	MeetLink  string
}

type CalendarService interface {
	CreateEvent(ctx context.Context, clinic *models.Clinic, attendeeName, attendeeEmail, testName, orderID, deliveryMethod, address string, startTime time.Time, timezone string) (*CalendarEvent, error)
}

// ResultStore keeps uploaded result documents, one per (order, test, clinic).
type ResultStore interface {
	Exists(ctx context.Context, objectName string) (bool, error)
	Put(ctx context.Context, objectName string, data []byte, contentType string) error
}
