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

type WithdrawalController struct {
	Log               *zap.Logger
	WithdrawalUsecase contracts.WithdrawalUsecase
}

var (
	withdrawalControllerInstance *WithdrawalController
	onceWithdrawalController     sync.Once
)

func NewWithdrawalController(logger *zap.Logger, withdrawalUsecase contracts.WithdrawalUsecase) *WithdrawalController {
	onceWithdrawalController.Do(func() {
		withdrawalControllerInstance = &WithdrawalController{
			Log:               logger,
			WithdrawalUsecase: withdrawalUsecase,
		}
	})
	return withdrawalControllerInstance
}

func (ctrl *WithdrawalController) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	clinicID, _ := r.Context().Value(constvars.CONTEXT_CLINIC_ID_KEY).(string)
	if clinicID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}

	request := new(requests.SubmitWithdrawal)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	withdrawal, err := ctrl.WithdrawalUsecase.SubmitWithdrawal(ctx, clinicID, request)
	if err != nil {
		ctrl.Log.Error("Withdrawal submission failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicIDKey, clinicID),
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

	utils.LogBusinessEvent(ctrl.Log, "withdrawal_submission_processed", requestID,
		zap.String(constvars.LoggingClinicIDKey, clinicID),
		zap.String(constvars.LoggingWithdrawalIDKey, withdrawal.ID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.WithdrawalSubmittedSuccess, withdrawal)
}
