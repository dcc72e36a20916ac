package controllers

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	WebhookUsecase contracts.WebhookUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, webhookUsecase contracts.WebhookUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		webhookControllerInstance = &WebhookController{
			Log:            logger,
			WebhookUsecase: webhookUsecase,
		}
	})
	return webhookControllerInstance
}

func (ctrl *WebhookController) PawaPayDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "pawapay_deposit_webhook_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	request := new(requests.PawaPayDepositCallback)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	if err := ctrl.WebhookUsecase.HandlePawaPayDeposit(ctx, request); err != nil {
		ctrl.Log.Error("pawaPay deposit webhook failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderRefKey, request.DepositID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "pawapay_deposit_webhook_processed", requestID,
		zap.String(constvars.LoggingProviderRefKey, request.DepositID),
		zap.String(constvars.LoggingPaymentStatusKey, request.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WebhookProcessedSuccess, nil)
}

func (ctrl *WebhookController) PawaPayPayout(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "pawapay_payout_webhook_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
	)

	request := new(requests.PawaPayPayoutCallback)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	if err := ctrl.WebhookUsecase.HandlePawaPayPayout(ctx, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WebhookProcessedSuccess, nil)
}

func (ctrl *WebhookController) YellowCardEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "yellowcard_webhook_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	request := new(requests.YellowCardCallback)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	if err := ctrl.WebhookUsecase.HandleYellowCardEvent(ctx, request); err != nil {
		ctrl.Log.Error("Yellow Card webhook failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderRefKey, request.SequenceID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "yellowcard_webhook_processed", requestID,
		zap.String(constvars.LoggingProviderRefKey, request.SequenceID),
		zap.String(constvars.LoggingPaymentStatusKey, request.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WebhookProcessedSuccess, nil)
}
