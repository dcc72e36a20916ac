package withdrawals

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type withdrawalUsecase struct {
	WithdrawalRepository contracts.WithdrawalRepository
	ClinicRepository     contracts.ClinicRepository
	Notification         contracts.NotificationService
	OperatorAlert        contracts.OperatorAlertService
	PawaPay              contracts.PaymentGatewayService
	YellowCard           contracts.PaymentGatewayService
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger
}

var (
	withdrawalUsecaseInstance contracts.WithdrawalUsecase
	onceWithdrawalUsecase     sync.Once
)

func NewWithdrawalUsecase(
	withdrawalRepository contracts.WithdrawalRepository,
	clinicRepository contracts.ClinicRepository,
	notification contracts.NotificationService,
	operatorAlert contracts.OperatorAlertService,
	pawaPay contracts.PaymentGatewayService,
	yellowCard contracts.PaymentGatewayService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.WithdrawalUsecase {
	onceWithdrawalUsecase.Do(func() {
		withdrawalUsecaseInstance = &withdrawalUsecase{
			WithdrawalRepository: withdrawalRepository,
			ClinicRepository:     clinicRepository,
			Notification:         notification,
			OperatorAlert:        operatorAlert,
			PawaPay:              pawaPay,
			YellowCard:           yellowCard,
			InternalConfig:       internalConfig,
			Log:                  logger,
		}
	})
	return withdrawalUsecaseInstance
}

// SubmitWithdrawal debits principal plus fee atomically before touching the
// provider, so a raced second withdrawal can never overdraw. A failed payout
// initiation refunds the debit in full.
func (uc *withdrawalUsecase) SubmitWithdrawal(ctx context.Context, clinicID string, request *requests.SubmitWithdrawal) (*models.Withdrawal, error) {
	requestID := utils.GetRequestID(ctx)

	clinic, err := uc.ClinicRepository.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientClinicNotFound, "clinic missing at withdrawal")
	}

	fee := request.Amount * uc.InternalConfig.Fees.WithdrawalFeeRate
	totalDebit := request.Amount + fee

	debited, err := uc.ClinicRepository.DebitBalance(ctx, clinicID, totalDebit)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
			constvars.ErrClientInsufficientBalance,
			fmt.Sprintf("withdrawal of %.2f plus fee %.2f exceeds balance", request.Amount, fee))
	}

	gateway := uc.gatewayFor(request.Provider)
	payout, err := gateway.SubmitPayout(ctx, &requests.SubmitPayout{
		IdempotencyKey:   utils.GenerateIdempotencyKey(),
		Amount:           request.Amount,
		Currency:         uc.InternalConfig.App.Currency,
		RecipientAccount: request.RecipientAccount,
		Description:      fmt.Sprintf("Withdrawal for %s", clinic.Name),
	})
	if err != nil {
		if refundErr := uc.ClinicRepository.IncrementBalance(ctx, clinicID, totalDebit); refundErr != nil {
			uc.Log.Error("failed to refund debit after payout initiation failure",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingClinicIDKey, clinicID),
				zap.Float64(constvars.LoggingAmountKey, totalDebit),
				zap.Error(refundErr),
			)
		}
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		ClinicID:      clinicID,
		Amount:        request.Amount,
		Fee:           fee,
		Currency:      uc.InternalConfig.App.Currency,
		Provider:      gateway.Provider(),
		PayoutID:      payout.ProviderReference,
		Status:        models.WithdrawalStatusPending,
		StatusHistory: []models.WithdrawalHistoryEntry{{Status: models.WithdrawalStatusPending, Timestamp: time.Now()}},
	}
	if _, err := uc.WithdrawalRepository.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "withdrawal_submitted", requestID,
		zap.String(constvars.LoggingWithdrawalIDKey, withdrawal.ID),
		zap.String(constvars.LoggingClinicIDKey, clinicID),
		zap.String(constvars.LoggingProviderKey, withdrawal.Provider),
		zap.String(constvars.LoggingProviderRefKey, withdrawal.PayoutID),
		zap.Float64(constvars.LoggingAmountKey, request.Amount),
	)

	if err := uc.Notification.NotifyClinic(ctx, clinicID,
		"Withdrawal submitted",
		fmt.Sprintf("Your withdrawal of %.2f %s is being processed.", request.Amount, withdrawal.Currency),
		constvars.NotificationCategoryWithdrawal); err != nil {
		uc.Log.Warn("withdrawal notification failed", zap.Error(err))
	}
	return withdrawal, nil
}

// HandlePayoutResult settles a provider payout callback. Terminal states are
// sticky: a repeated delivery for an already-settled withdrawal is a no-op,
// so the failure refund can never be applied twice.
func (uc *withdrawalUsecase) HandlePayoutResult(ctx context.Context, payoutID, status, failureReason string) error {
	withdrawal, err := uc.WithdrawalRepository.FindByPayoutID(ctx, payoutID)
	if err != nil {
		return err
	}
	if withdrawal == nil {
		uc.Log.Warn("payout callback for unknown withdrawal",
			zap.String(constvars.LoggingProviderRefKey, payoutID),
			zap.String(constvars.LoggingPaymentStatusKey, status),
		)
		return uc.OperatorAlert.RaiseAlert(ctx,
			"Payout callback without withdrawal",
			fmt.Sprintf("Provider reported %s for payout %s but no withdrawal references it.", status, payoutID),
			map[string]interface{}{"payoutId": payoutID, "status": status})
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil
	}

	newStatus := models.WithdrawalStatus(status)
	switch newStatus {
	case models.WithdrawalStatusCompleted:
		withdrawal.Status = models.WithdrawalStatusCompleted
	case models.WithdrawalStatusFailed:
		withdrawal.Status = models.WithdrawalStatusFailed
		withdrawal.FailureReason = failureReason
	default:
		return nil
	}
	withdrawal.StatusHistory = append(withdrawal.StatusHistory, models.WithdrawalHistoryEntry{
		Status:    withdrawal.Status,
		Timestamp: time.Now(),
	})

	if err := uc.WithdrawalRepository.Update(ctx, withdrawal); err != nil {
		return err
	}

	if withdrawal.Status == models.WithdrawalStatusFailed {
		refund := withdrawal.Amount + withdrawal.Fee
		if err := uc.ClinicRepository.IncrementBalance(ctx, withdrawal.ClinicID, refund); err != nil {
			return err
		}
		if err := uc.Notification.NotifyClinic(ctx, withdrawal.ClinicID,
			"Withdrawal failed",
			fmt.Sprintf("Your withdrawal of %.2f %s failed and the full amount was returned to your balance.", withdrawal.Amount, withdrawal.Currency),
			constvars.NotificationCategoryWithdrawal); err != nil {
			uc.Log.Warn("withdrawal failure notification failed", zap.Error(err))
		}
		return nil
	}

	utils.LogBusinessEvent(uc.Log, "withdrawal_completed", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingWithdrawalIDKey, withdrawal.ID),
		zap.String(constvars.LoggingClinicIDKey, withdrawal.ClinicID),
		zap.Float64(constvars.LoggingAmountKey, withdrawal.Amount),
	)
	if err := uc.Notification.NotifyClinic(ctx, withdrawal.ClinicID,
		"Withdrawal completed",
		fmt.Sprintf("Your withdrawal of %.2f %s has been paid out.", withdrawal.Amount, withdrawal.Currency),
		constvars.NotificationCategoryWithdrawal); err != nil {
		uc.Log.Warn("withdrawal completion notification failed", zap.Error(err))
	}
	return nil
}

func (uc *withdrawalUsecase) gatewayFor(provider string) contracts.PaymentGatewayService {
	if provider == constvars.ProviderYellowCard {
		return uc.YellowCard
	}
	return uc.PawaPay
}
