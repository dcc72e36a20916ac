package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
)

// PendingPublicOrderStore stages unauthenticated bookings between payment
// initiation and asynchronous confirmation. Records expire on their own; a
// missing record means materialization must fail loudly.
type PendingPublicOrderStore interface {
	Save(ctx context.Context, pending *models.PendingPublicOrder) error
	Find(ctx context.Context, orderKey string) (*models.PendingPublicOrder, error)
	Delete(ctx context.Context, orderKey string) error
}
