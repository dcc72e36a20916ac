package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
)

type CartItemRepository interface {
	FindPendingByPatientID(ctx context.Context, patientID string) ([]models.CartItem, error)
	// MarkBooked flips the given items from pending to booked. It is only
	// called after an order has been durably created.
	MarkBooked(ctx context.Context, cartItemIDs []string) error
	// UpdateDiscount overwrites an item's discount snapshot; nil clears it.
	UpdateDiscount(ctx context.Context, cartItemID string, discount *models.Discount) error
}

// OrderGroup is the set of cart line items belonging to one clinic within a
// single checkout; it materializes into exactly one order.
type OrderGroup struct {
	ClinicID    string
	Tests       []models.OrderTest
	TotalAmount float64
	CartItemIDs []string
}

// CartGrouper resolves a patient's pending cart into per-clinic order groups.
// Pure computation over already-loaded state; safe to re-run on retry.
type CartGrouper interface {
	GroupPendingCart(ctx context.Context, patientID string) ([]OrderGroup, error)
}
