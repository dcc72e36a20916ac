package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
	"time"
)

type DiscountRepository interface {
	// FindActiveByCode resolves the campaign behind a code if it is active
	// and inside its validity window at the given instant.
	FindActiveByCode(ctx context.Context, code string, at time.Time) (*models.DiscountCampaign, error)
}

// DiscountService refreshes discount snapshots against campaign state. The
// snapshot on a cart item may be days old by checkout time; pricing must
// never consume it unrevalidated.
type DiscountService interface {
	// Revalidate corrects item.Discount in place against the current
	// campaign and persists the corrected snapshot; a withdrawn or expired
	// discount is cleared, never silently honored.
	Revalidate(ctx context.Context, item *models.CartItem, test *models.LabTest) error
	// ResolveForTest builds a fresh snapshot for a public booking's code.
	ResolveForTest(ctx context.Context, code string, test *models.LabTest) (*models.Discount, error)
}
