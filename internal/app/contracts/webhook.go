package contracts

import (
	"clinirun-service/internal/pkg/dto/requests"
	"context"
)

// WebhookUsecase is the reconciliation layer: it normalizes provider events,
// enforces the amount-match rule and hands confirmed payments to the order
// materializer exactly once.
type WebhookUsecase interface {
	HandlePawaPayDeposit(ctx context.Context, request *requests.PawaPayDepositCallback) error
	HandlePawaPayPayout(ctx context.Context, request *requests.PawaPayPayoutCallback) error
	HandleYellowCardEvent(ctx context.Context, request *requests.YellowCardCallback) error
}
