package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) (string, error)
	FindByPayoutID(ctx context.Context, payoutID string) (*models.Withdrawal, error)
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
}
