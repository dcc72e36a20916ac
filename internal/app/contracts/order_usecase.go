package contracts

import (
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/dto/requests"
	"context"
)

type OrderUsecase interface {
	ListPatientOrders(ctx context.Context, patientID string) ([]models.Order, error)
	// GetOrder and the two update operations act on behalf of an
	// authenticated patient; an order owned by someone else (or by a public
	// booker) is rejected, never revealed.
	GetOrder(ctx context.Context, patientID, orderID string) (*models.Order, error)
	UpdatePaymentMethod(ctx context.Context, patientID, orderID string, request *requests.UpdatePaymentMethod) (*models.Order, error)
	UpdateDeliveryAddress(ctx context.Context, patientID, orderID string, request *requests.UpdateDeliveryAddress) (*models.Order, error)
	// UpdateTestStatus drives the per-test state machine on behalf of a clinic.
	UpdateTestStatus(ctx context.Context, clinicID string, request *requests.UpdateTestStatus) (*models.Order, error)
	// UploadResult is the compound transition: store the result document then
	// back-fill skipped history stages up to result_sent.
	UploadResult(ctx context.Context, clinicID string, request *requests.UploadResult) (*models.Order, error)
}

type WithdrawalUsecase interface {
	SubmitWithdrawal(ctx context.Context, clinicID string, request *requests.SubmitWithdrawal) (*models.Withdrawal, error)
	// HandlePayoutResult settles a payout webhook: completed marks the ledger,
	// failed refunds the previously debited principal plus fee.
	HandlePayoutResult(ctx context.Context, payoutID, status, failureReason string) error
}
