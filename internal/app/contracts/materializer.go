package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
)

// MaterializeOptions carries the payment context shared by every group of one
// materialization. Provider fields are empty on the privilege rails, which
// settle without an external confirmation.
type MaterializeOptions struct {
	PaymentMethod     models.PaymentMethod
	DeliveryMethod    string
	DeliveryAddress   string
	Provider          string
	ProviderReference string
	ProviderStatus    string
}

// OrderMaterializer converts a confirmed payment into durable per-clinic
// orders: order insert, cart consumption, net balance credit, then the
// best-effort notification fan-out. Groups are processed sequentially and the
// fan-out never rolls an order back.
type OrderMaterializer interface {
	MaterializeCartGroups(ctx context.Context, patientID string, groups []OrderGroup, opts MaterializeOptions) ([]models.Order, error)
	MaterializePublicOrder(ctx context.Context, pending *models.PendingPublicOrder, opts MaterializeOptions) (*models.Order, error)
}
