package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
	"time"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) (string, error)
	// NextOrderSequence reserves the next value of the monotonically
	// increasing order counter; order codes are sequential, never random.
	NextOrderSequence(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	FindByPatientID(ctx context.Context, patientID string) ([]models.Order, error)
	FindByClinicID(ctx context.Context, clinicID string) ([]models.Order, error)
	// FindByProviderReference resolves the order holding the given provider
	// transaction id, if any. This is the webhook idempotency check.
	FindByProviderReference(ctx context.Context, provider, providerReference string) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	// UpdateOrderWithAudit persists the order mutation and its audit
	// notification record inside one transaction; a partial failure leaves
	// neither write behind.
	UpdateOrderWithAudit(ctx context.Context, order *models.Order, audit *models.OrderAuditRecord) error
	// CountTestsScheduledAt counts in-flight order test lines holding the
	// given slot for a clinic; part of the unified slot availability check.
	CountTestsScheduledAt(ctx context.Context, clinicID string, slot time.Time) (int64, error)
}
