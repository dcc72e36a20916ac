package contracts

import (
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"context"
)

type CheckoutUsecase interface {
	// Checkout runs the authenticated path: group the pending cart, validate
	// delivery and availability, then either initiate an external payment or,
	// for the privilege rails, materialize immediately after the debit commits.
	Checkout(ctx context.Context, patientID string, request *requests.Checkout) (*responses.Checkout, error)
	// CheckoutPublic runs the anonymous single-test path and stages a pending
	// public order under the provider's deposit id.
	CheckoutPublic(ctx context.Context, request *requests.PublicCheckout) (*responses.Checkout, error)
}
