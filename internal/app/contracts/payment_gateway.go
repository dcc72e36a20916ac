package contracts

import (
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"context"
)

// PaymentGatewayService is the shared adapter contract over both rails.
// Initiation always carries a caller-generated idempotent id, and all business
// context needed to later materialize the order travels as typed metadata:
// the webhook callback is the only execution context left once the provider is
// done.
type PaymentGatewayService interface {
	Provider() string
	InitiateDeposit(ctx context.Context, request *requests.InitiateDeposit) (*responses.InitiateDeposit, error)
	// AcceptCollection performs the provider-specific accept step for a
	// collection the provider reports as awaiting approval. Providers whose
	// collections settle without approval implement it as a no-op.
	AcceptCollection(ctx context.Context, providerReference string) error
	SubmitPayout(ctx context.Context, request *requests.SubmitPayout) (*responses.SubmitPayout, error)
}
