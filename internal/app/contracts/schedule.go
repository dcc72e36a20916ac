package contracts

import (
	"context"
	"time"
)

// ScheduleValidator enforces delivery-method support, clinic availability and
// slot collision rules before any payment is initiated. A violation fails the
// whole checkout; there is no partial acceptance of a multi-clinic cart.
type ScheduleValidator interface {
	ValidateCheckout(ctx context.Context, clinicIDs []string, deliveryMethod string) error
	// ValidateSlot additionally checks the requested slot against the clinic's
	// weekly windows and the unified taken-slot namespace (booked cart items
	// and in-flight order test lines alike).
	ValidateSlot(ctx context.Context, clinicID string, slot time.Time) error
}

// SlotOccupancyRepository answers the single availability question both
// checkout paths share.
type SlotOccupancyRepository interface {
	IsSlotTaken(ctx context.Context, clinicID string, slot time.Time) (bool, error)
}
