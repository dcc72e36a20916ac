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

type CheckoutController struct {
	Log             *zap.Logger
	CheckoutUsecase contracts.CheckoutUsecase
}

var (
	checkoutControllerInstance *CheckoutController
	onceCheckoutController     sync.Once
)

func NewCheckoutController(logger *zap.Logger, checkoutUsecase contracts.CheckoutUsecase) *CheckoutController {
	onceCheckoutController.Do(func() {
		checkoutControllerInstance = &CheckoutController{
			Log:             logger,
			CheckoutUsecase: checkoutUsecase,
		}
	})
	return checkoutControllerInstance
}

func (ctrl *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	patientID, _ := r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}

	request := new(requests.Checkout)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.CheckoutUsecase.Checkout(ctx, patientID, request)
	if err != nil {
		ctrl.Log.Error("Checkout failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "checkout_processed", requestID,
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingPaymentStatusKey, result.PaymentStatus),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	if len(result.OrderCodes) > 0 {
		utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CheckoutCompletedSuccess, result)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckoutInitiatedSuccess, result)
}

func (ctrl *CheckoutController) CheckoutPublic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := new(requests.PublicCheckout)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.CheckoutUsecase.CheckoutPublic(ctx, request)
	if err != nil {
		ctrl.Log.Error("Public checkout failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicIDKey, request.ClinicID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "public_checkout_processed", requestID,
		zap.String(constvars.LoggingClinicIDKey, request.ClinicID),
		zap.String(constvars.LoggingProviderRefKey, result.ProviderReference),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PublicCheckoutInitiatedSuccess, result)
}
