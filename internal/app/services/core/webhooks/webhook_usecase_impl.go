package webhooks

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/app/services/shared/paymentgateway"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// webhookLockTTL bounds how long a delivery holds the per-reference lock; a
// crashed handler releases it by expiry.
const webhookLockTTL = 30 * time.Second

type eventKind int

const (
	eventNonTerminal eventKind = iota
	eventTerminalSuccess
	eventTerminalFailure
)

// depositEvent is the provider-neutral form every incoming deposit webhook is
// normalized into before dispatch. One handler per kind keeps the idempotency
// and mismatch rules independently testable.
type depositEvent struct {
	Provider        string
	Reference       string
	RawStatus       string
	Kind            eventKind
	ConfirmedAmount float64
	Currency        string
	FailureReason   string
	Metadata        requests.PaymentMetadata
}

type webhookUsecase struct {
	OrderRepository   contracts.OrderRepository
	CartGrouper       contracts.CartGrouper
	PendingStore      contracts.PendingPublicOrderStore
	Materializer      contracts.OrderMaterializer
	WithdrawalUsecase contracts.WithdrawalUsecase
	Notification      contracts.NotificationService
	OperatorAlert     contracts.OperatorAlertService
	Email             contracts.EmailService
	Redis             contracts.RedisRepository
	PawaPay           contracts.PaymentGatewayService
	YellowCard        contracts.PaymentGatewayService
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

var (
	webhookUsecaseInstance contracts.WebhookUsecase
	onceWebhookUsecase     sync.Once
)

func NewWebhookUsecase(
	orderRepository contracts.OrderRepository,
	cartGrouper contracts.CartGrouper,
	pendingStore contracts.PendingPublicOrderStore,
	materializer contracts.OrderMaterializer,
	withdrawalUsecase contracts.WithdrawalUsecase,
	notification contracts.NotificationService,
	operatorAlert contracts.OperatorAlertService,
	email contracts.EmailService,
	redisRepository contracts.RedisRepository,
	pawaPay contracts.PaymentGatewayService,
	yellowCard contracts.PaymentGatewayService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.WebhookUsecase {
	onceWebhookUsecase.Do(func() {
		webhookUsecaseInstance = &webhookUsecase{
			OrderRepository:   orderRepository,
			CartGrouper:       cartGrouper,
			PendingStore:      pendingStore,
			Materializer:      materializer,
			WithdrawalUsecase: withdrawalUsecase,
			Notification:      notification,
			OperatorAlert:     operatorAlert,
			Email:             email,
			Redis:             redisRepository,
			PawaPay:           pawaPay,
			YellowCard:        yellowCard,
			InternalConfig:    internalConfig,
			Log:               logger,
		}
	})
	return webhookUsecaseInstance
}

func (uc *webhookUsecase) HandlePawaPayDeposit(ctx context.Context, request *requests.PawaPayDepositCallback) error {
	if request.DepositID == "" || request.Status == "" {
		return exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientCannotProcessRequest, "deposit callback missing depositId or status")
	}

	event := depositEvent{
		Provider:  constvars.ProviderPawaPay,
		Reference: request.DepositID,
		RawStatus: request.Status,
		Currency:  request.Currency,
		Metadata:  request.TypedMetadata(),
	}
	switch request.Status {
	case constvars.PawaPayStatusCompleted:
		event.Kind = eventTerminalSuccess
	case constvars.PawaPayStatusFailed, constvars.PawaPayStatusRejected:
		event.Kind = eventTerminalFailure
	default:
		event.Kind = eventNonTerminal
	}
	if request.FailureReason != nil {
		event.FailureReason = fmt.Sprintf("%s: %s", request.FailureReason.FailureCode, request.FailureReason.FailureMessage)
	}
	if request.DepositedAmount != "" {
		amount, err := strconv.ParseFloat(request.DepositedAmount, 64)
		if err != nil {
			return exceptions.BuildNewCustomError(err, constvars.StatusBadRequest,
				constvars.ErrClientCannotProcessRequest, "deposit callback carries a non-numeric amount")
		}
		event.ConfirmedAmount = amount
	}

	return uc.handleDeposit(ctx, event)
}

func (uc *webhookUsecase) HandlePawaPayPayout(ctx context.Context, request *requests.PawaPayPayoutCallback) error {
	if request.PayoutID == "" || request.Status == "" {
		return exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientCannotProcessRequest, "payout callback missing payoutId or status")
	}

	var reason string
	if request.FailureReason != nil {
		reason = fmt.Sprintf("%s: %s", request.FailureReason.FailureCode, request.FailureReason.FailureMessage)
	}

	switch request.Status {
	case constvars.PawaPayStatusCompleted:
		return uc.WithdrawalUsecase.HandlePayoutResult(ctx, request.PayoutID, string(models.WithdrawalStatusCompleted), "")
	case constvars.PawaPayStatusFailed, constvars.PawaPayStatusRejected:
		return uc.WithdrawalUsecase.HandlePayoutResult(ctx, request.PayoutID, string(models.WithdrawalStatusFailed), reason)
	default:
		// progress report, nothing to settle yet
		return nil
	}
}

func (uc *webhookUsecase) HandleYellowCardEvent(ctx context.Context, request *requests.YellowCardCallback) error {
	if request.SequenceID == "" || request.Status == "" {
		return exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientCannotProcessRequest, "callback missing sequenceId or status")
	}

	if request.EventType == "disbursement" {
		switch request.Status {
		case constvars.YellowCardStatusComplete:
			return uc.WithdrawalUsecase.HandlePayoutResult(ctx, request.SequenceID, string(models.WithdrawalStatusCompleted), "")
		case constvars.YellowCardStatusFailed, constvars.YellowCardStatusRejected, constvars.YellowCardStatusExpired:
			return uc.WithdrawalUsecase.HandlePayoutResult(ctx, request.SequenceID, string(models.WithdrawalStatusFailed), request.Reason)
		default:
			return nil
		}
	}

	event := depositEvent{
		Provider:      constvars.ProviderYellowCard,
		Reference:     request.SequenceID,
		RawStatus:     request.Status,
		Currency:      request.Currency,
		FailureReason: request.Reason,
		Metadata:      request.TypedMetadata(),
	}
	switch request.Status {
	case constvars.YellowCardStatusComplete:
		event.Kind = eventTerminalSuccess
	case constvars.YellowCardStatusFailed, constvars.YellowCardStatusRejected, constvars.YellowCardStatusExpired:
		event.Kind = eventTerminalFailure
	default:
		event.Kind = eventNonTerminal
	}
	if request.Amount != "" {
		amount, err := strconv.ParseFloat(request.Amount, 64)
		if err != nil {
			return exceptions.BuildNewCustomError(err, constvars.StatusBadRequest,
				constvars.ErrClientCannotProcessRequest, "callback carries a non-numeric amount")
		}
		event.ConfirmedAmount = amount
	}

	return uc.handleDeposit(ctx, event)
}

// handleDeposit is the dispatch. The per-reference lock serializes racing
// deliveries; the already-materialized check makes retried deliveries
// success no-ops.
func (uc *webhookUsecase) handleDeposit(ctx context.Context, event depositEvent) error {
	requestID := utils.GetRequestID(ctx)

	acquired, err := uc.Redis.TrySetNX(ctx, constvars.RedisKeyWebhookLock+event.Reference, requestID, webhookLockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		uc.Log.Info("concurrent webhook delivery for reference, acknowledging without processing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderRefKey, event.Reference),
		)
		return nil
	}
	defer func() {
		if err := uc.Redis.Delete(context.WithoutCancel(ctx), constvars.RedisKeyWebhookLock+event.Reference); err != nil {
			uc.Log.Warn("failed to release webhook lock", zap.Error(err))
		}
	}()

	existing, err := uc.OrderRepository.FindByProviderReference(ctx, event.Provider, event.Reference)
	if err != nil {
		return err
	}

	switch event.Kind {
	case eventTerminalFailure:
		return uc.handleFailure(ctx, event, existing)
	case eventNonTerminal:
		return uc.handleNonTerminal(ctx, event, existing)
	case eventTerminalSuccess:
		if existing != nil {
			// retried delivery for an already-materialized reference
			uc.Log.Info("duplicate success webhook, order already materialized",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingProviderRefKey, event.Reference),
				zap.String(constvars.LoggingOrderIDKey, existing.ID),
			)
			return nil
		}
		return uc.handleSuccess(ctx, event)
	}
	return nil
}

// handleFailure records the provider's rejection on any referencing order and
// notifies the payer and an operator once. A repeated failure delivery finds
// paymentStatus already failed and does nothing.
func (uc *webhookUsecase) handleFailure(ctx context.Context, event depositEvent, existing *models.Order) error {
	if existing != nil {
		if existing.PaymentStatus == models.PaymentStatusFailed {
			return nil
		}
		existing.PaymentStatus = models.PaymentStatusFailed
		existing.FailureReason = event.FailureReason
		uc.setProviderStatus(existing, event)
		if err := uc.OrderRepository.UpdateOrder(ctx, existing); err != nil {
			return err
		}
	}

	utils.LogBusinessEvent(uc.Log, "payment_failed", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingProviderKey, event.Provider),
		zap.String(constvars.LoggingProviderRefKey, event.Reference),
		zap.String("failure_reason", event.FailureReason),
	)

	uc.notifyPaymentFailed(ctx, event, existing)
	if err := uc.Notification.NotifyOperator(ctx,
		"Payment failed",
		fmt.Sprintf("Provider %s reported %s for reference %s: %s", event.Provider, event.RawStatus, event.Reference, event.FailureReason),
		constvars.NotificationCategoryPayment); err != nil {
		uc.Log.Warn("operator payment-failure notification failed", zap.Error(err))
	}
	return nil
}

// handleNonTerminal performs the provider-specific accept step at most once,
// keyed off the status the provider itself reports.
func (uc *webhookUsecase) handleNonTerminal(ctx context.Context, event depositEvent, existing *models.Order) error {
	if existing != nil {
		// order already materialized, a late progress report changes nothing
		return nil
	}

	if event.Provider == constvars.ProviderYellowCard && event.RawStatus == constvars.YellowCardStatusPendingApproval {
		if err := uc.YellowCard.AcceptCollection(ctx, event.Reference); err != nil {
			return err
		}
	}

	uc.Log.Info("non-terminal payment status acknowledged",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingProviderKey, event.Provider),
		zap.String(constvars.LoggingProviderRefKey, event.Reference),
		zap.String(constvars.LoggingPaymentStatusKey, event.RawStatus),
	)
	return nil
}

// handleSuccess recomputes the expected amount, enforces the tolerance gate
// and only then materializes. A mismatch is a hard stop with an operator
// alert, never a retry.
func (uc *webhookUsecase) handleSuccess(ctx context.Context, event depositEvent) error {
	requestID := utils.GetRequestID(ctx)

	var (
		pending  *models.PendingPublicOrder
		groups   []contracts.OrderGroup
		expected float64
		err      error
	)

	if event.Metadata.Public {
		pending, err = uc.PendingStore.Find(ctx, event.Reference)
		if err != nil {
			return err
		}
		if pending == nil {
			// expired or already consumed staging record; never fabricate an
			// order from the webhook alone
			utils.LogSecurityEvent(uc.Log, "pending_public_order_missing", requestID, "high",
				zap.String(constvars.LoggingProviderKey, event.Provider),
				zap.String(constvars.LoggingProviderRefKey, event.Reference),
			)
			return uc.OperatorAlert.RaiseAlert(ctx,
				"Confirmed payment without staging record",
				fmt.Sprintf("Provider %s confirmed reference %s but no pending public order exists; the booking likely expired.", event.Provider, event.Reference),
				map[string]interface{}{
					"provider":        event.Provider,
					"reference":       event.Reference,
					"confirmedAmount": event.ConfirmedAmount,
				})
		}
		expected = pending.ExpectedAmount
	} else {
		groups, err = uc.CartGrouper.GroupPendingCart(ctx, event.Metadata.PatientID)
		if err != nil {
			return err
		}
		for _, group := range groups {
			expected += group.TotalAmount
		}
	}

	expected = uc.applyProviderFee(event.Provider, expected)
	if math.Abs(expected-event.ConfirmedAmount) > uc.InternalConfig.Fees.ReconciliationTolerance {
		utils.LogSecurityEvent(uc.Log, "amount_mismatch", requestID, "critical",
			zap.String(constvars.LoggingProviderKey, event.Provider),
			zap.String(constvars.LoggingProviderRefKey, event.Reference),
			zap.Float64(constvars.LoggingExpectedKey, expected),
			zap.Float64(constvars.LoggingConfirmedKey, event.ConfirmedAmount),
		)
		return uc.OperatorAlert.RaiseAlert(ctx,
			"Payment amount mismatch",
			fmt.Sprintf("Provider %s confirmed %.2f for reference %s, expected %.2f. Materialization aborted.",
				event.Provider, event.ConfirmedAmount, event.Reference, expected),
			map[string]interface{}{
				"provider":        event.Provider,
				"reference":       event.Reference,
				"expectedAmount":  expected,
				"confirmedAmount": event.ConfirmedAmount,
			})
	}

	opts := contracts.MaterializeOptions{
		DeliveryMethod:    event.Metadata.DeliveryMethod,
		DeliveryAddress:   event.Metadata.DeliveryAddress,
		Provider:          event.Provider,
		ProviderReference: event.Reference,
		ProviderStatus:    event.RawStatus,
	}
	if event.Provider == constvars.ProviderYellowCard {
		opts.PaymentMethod = models.PaymentMethodBankTransfer
	} else {
		opts.PaymentMethod = models.PaymentMethodMobileMoney
	}

	if pending != nil {
		opts.PaymentMethod = pending.PaymentMethod
		opts.DeliveryMethod = pending.DeliveryMethod
		opts.DeliveryAddress = pending.DeliveryAddress
		if _, err := uc.Materializer.MaterializePublicOrder(ctx, pending, opts); err != nil {
			return err
		}
		return uc.PendingStore.Delete(ctx, event.Reference)
	}

	_, err = uc.Materializer.MaterializeCartGroups(ctx, event.Metadata.PatientID, groups, opts)
	return err
}

// applyProviderFee aligns the independently computed expectation with the
// figure the provider confirms: a fee-inclusive provider reports the gross
// amount, so the fee is added before comparison. Rounding matches what the
// adapter sent out.
func (uc *webhookUsecase) applyProviderFee(provider string, expected float64) float64 {
	switch provider {
	case constvars.ProviderPawaPay:
		if uc.InternalConfig.PawaPay.FeeInclusive {
			expected *= 1 + uc.InternalConfig.PawaPay.FeeRate
		}
	case constvars.ProviderYellowCard:
		if uc.InternalConfig.YellowCard.FeeInclusive {
			expected *= 1 + uc.InternalConfig.YellowCard.FeeRate
		}
	}
	return paymentgateway.RoundProviderAmount(expected)
}

func (uc *webhookUsecase) notifyPaymentFailed(ctx context.Context, event depositEvent, existing *models.Order) {
	reason := event.FailureReason
	if reason == "" {
		reason = "the payment was not completed"
	}

	if event.Metadata.Public || (existing != nil && existing.PublicBooker != nil) {
		email := ""
		if existing != nil && existing.PublicBooker != nil {
			email = existing.PublicBooker.Email
		} else if pending, err := uc.PendingStore.Find(ctx, event.Reference); err == nil && pending != nil {
			email = pending.Booker.Email
			if err := uc.PendingStore.Delete(ctx, event.Reference); err != nil {
				uc.Log.Warn("failed to drop staging record for failed payment", zap.Error(err))
			}
		}
		if email != "" {
			if err := uc.Email.SendPaymentFailed(ctx, email, reason); err != nil {
				uc.Log.Warn("payment-failed email failed", zap.Error(err))
			}
		}
		return
	}

	patientID := event.Metadata.PatientID
	if patientID == "" && existing != nil {
		patientID = existing.PatientID
	}
	if patientID == "" {
		return
	}
	if err := uc.Notification.NotifyPatient(ctx, patientID,
		"Payment failed",
		fmt.Sprintf("Your payment could not be completed: %s", reason),
		constvars.NotificationCategoryPayment); err != nil {
		uc.Log.Warn("patient payment-failure notification failed", zap.Error(err))
	}
}

func (uc *webhookUsecase) setProviderStatus(order *models.Order, event depositEvent) {
	switch event.Provider {
	case constvars.ProviderPawaPay:
		if order.PawaPayInfo == nil {
			order.PawaPayInfo = &models.PawaPayInfo{DepositID: event.Reference}
		}
		order.PawaPayInfo.Status = event.RawStatus
	case constvars.ProviderYellowCard:
		if order.YellowCardInfo == nil {
			order.YellowCardInfo = &models.YellowCardInfo{SequenceID: event.Reference}
		}
		order.YellowCardInfo.Status = event.RawStatus
	}
}
