package controllers

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxResultUploadBytes caps a single result document.
const maxResultUploadBytes = 16 << 20

type OrderController struct {
	Log          *zap.Logger
	OrderUsecase contracts.OrderUsecase
}

var (
	orderControllerInstance *OrderController
	onceOrderController     sync.Once
)

func NewOrderController(logger *zap.Logger, orderUsecase contracts.OrderUsecase) *OrderController {
	onceOrderController.Do(func() {
		orderControllerInstance = &OrderController{
			Log:          logger,
			OrderUsecase: orderUsecase,
		}
	})
	return orderControllerInstance
}

func (ctrl *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	patientID, _ := r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := ctrl.OrderUsecase.ListPatientOrders(ctx, patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderListSuccess, orders)
}

func (ctrl *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	patientID, _ := r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("orderID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := ctrl.OrderUsecase.GetOrder(ctx, patientID, orderID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderDetailSuccess, order)
}

func (ctrl *OrderController) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	patientID, _ := r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("orderID"))
		return
	}

	request := new(requests.UpdatePaymentMethod)
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

	order, err := ctrl.OrderUsecase.UpdatePaymentMethod(ctx, patientID, orderID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "order_payment_method_updated", requestID,
		zap.String(constvars.LoggingOrderIDKey, orderID),
		zap.String("payment_method", request.PaymentMethod),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderPaymentMethodSuccess, order)
}

func (ctrl *OrderController) UpdateDeliveryAddress(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	patientID, _ := r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNotAuthorized(nil))
		return
	}
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("orderID"))
		return
	}

	request := new(requests.UpdateDeliveryAddress)
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

	order, err := ctrl.OrderUsecase.UpdateDeliveryAddress(ctx, patientID, orderID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "order_delivery_updated", requestID,
		zap.String(constvars.LoggingOrderIDKey, orderID),
		zap.String("delivery_method", request.DeliveryMethod),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderDeliveryAddressSuccess, order)
}

func (ctrl *OrderController) UpdateTestStatus(w http.ResponseWriter, r *http.Request) {
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

	request := new(requests.UpdateTestStatus)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.OrderID = chi.URLParam(r, "orderID")
	request.TestID = chi.URLParam(r, "testID")
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := ctrl.OrderUsecase.UpdateTestStatus(ctx, clinicID, request)
	if err != nil {
		ctrl.Log.Error("Test status update failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.String(constvars.LoggingTestIDKey, request.TestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderTestStatusUpdateSuccess, order)
}

func (ctrl *OrderController) UploadResult(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxResultUploadBytes); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.BuildNewCustomError(err,
			constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.BuildNewCustomError(err,
			constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, "document file missing"))
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxResultUploadBytes))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.BuildNewCustomError(err,
			constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, "failed to read document"))
		return
	}

	request := &requests.UploadResult{
		OrderID:     chi.URLParam(r, "orderID"),
		TestID:      chi.URLParam(r, "testID"),
		FileName:    header.Filename,
		ContentType: header.Header.Get(constvars.HeaderContentType),
		Document:    document,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := ctrl.OrderUsecase.UploadResult(ctx, clinicID, request)
	if err != nil {
		ctrl.Log.Error("Result upload failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, request.OrderID),
			zap.String(constvars.LoggingTestIDKey, request.TestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "order_result_uploaded", requestID,
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingTestIDKey, request.TestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OrderResultUploadSuccess, order)
}
