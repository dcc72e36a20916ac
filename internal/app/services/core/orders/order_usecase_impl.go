package orders

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

type orderUsecase struct {
	OrderRepository   contracts.OrderRepository
	PatientRepository contracts.PatientRepository
	ScheduleValidator contracts.ScheduleValidator
	ResultStore       contracts.ResultStore
	Notification      contracts.NotificationService
	Email             contracts.EmailService
	Log               *zap.Logger
}

var (
	orderUsecaseInstance contracts.OrderUsecase
	onceOrderUsecase     sync.Once
)

func NewOrderUsecase(
	orderRepository contracts.OrderRepository,
	patientRepository contracts.PatientRepository,
	scheduleValidator contracts.ScheduleValidator,
	resultStore contracts.ResultStore,
	notification contracts.NotificationService,
	email contracts.EmailService,
	logger *zap.Logger,
) contracts.OrderUsecase {
	onceOrderUsecase.Do(func() {
		orderUsecaseInstance = &orderUsecase{
			OrderRepository:   orderRepository,
			PatientRepository: patientRepository,
			ScheduleValidator: scheduleValidator,
			ResultStore:       resultStore,
			Notification:      notification,
			Email:             email,
			Log:               logger,
		}
	})
	return orderUsecaseInstance
}

func (uc *orderUsecase) ListPatientOrders(ctx context.Context, patientID string) ([]models.Order, error) {
	return uc.OrderRepository.FindByPatientID(ctx, patientID)
}

func (uc *orderUsecase) GetOrder(ctx context.Context, patientID, orderID string) (*models.Order, error) {
	return uc.loadPatientOrder(ctx, patientID, orderID)
}

func (uc *orderUsecase) findOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := uc.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientOrderNotFound, "order not found")
	}
	return order, nil
}

// loadPatientOrder resolves an order on behalf of an authenticated patient.
// Public-booker orders carry no patient id, so they fail the check too.
func (uc *orderUsecase) loadPatientOrder(ctx context.Context, patientID, orderID string) (*models.Order, error) {
	order, err := uc.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PatientID != patientID {
		return nil, exceptions.ErrNotAuthorized(fmt.Errorf("order %s does not belong to patient %s", orderID, patientID))
	}
	return order, nil
}

func (uc *orderUsecase) UpdatePaymentMethod(ctx context.Context, patientID, orderID string, request *requests.UpdatePaymentMethod) (*models.Order, error) {
	order, err := uc.loadPatientOrder(ctx, patientID, orderID)
	if err != nil {
		return nil, err
	}

	oldMethod := order.PaymentMethod
	order.PaymentMethod = models.PaymentMethod(request.PaymentMethod)

	audit := &models.OrderAuditRecord{
		OrderID:  order.ID,
		Field:    "paymentMethod",
		OldValue: string(oldMethod),
		NewValue: request.PaymentMethod,
	}
	if err := uc.OrderRepository.UpdateOrderWithAudit(ctx, order, audit); err != nil {
		return nil, err
	}

	uc.notifyOrderChanged(ctx, order, "Payment method updated",
		fmt.Sprintf("The payment method on order %s changed to %s.", order.OrderCode, request.PaymentMethod))
	return order, nil
}

func (uc *orderUsecase) UpdateDeliveryAddress(ctx context.Context, patientID, orderID string, request *requests.UpdateDeliveryAddress) (*models.Order, error) {
	order, err := uc.loadPatientOrder(ctx, patientID, orderID)
	if err != nil {
		return nil, err
	}

	if err := uc.ScheduleValidator.ValidateCheckout(ctx, []string{order.ClinicID}, request.DeliveryMethod); err != nil {
		return nil, err
	}

	oldValue := fmt.Sprintf("%s|%s", order.DeliveryMethod, order.DeliveryAddress)
	order.DeliveryMethod = request.DeliveryMethod
	order.DeliveryAddress = request.DeliveryAddress

	audit := &models.OrderAuditRecord{
		OrderID:  order.ID,
		Field:    "delivery",
		OldValue: oldValue,
		NewValue: fmt.Sprintf("%s|%s", request.DeliveryMethod, request.DeliveryAddress),
	}
	if err := uc.OrderRepository.UpdateOrderWithAudit(ctx, order, audit); err != nil {
		return nil, err
	}

	uc.notifyOrderChanged(ctx, order, "Delivery updated",
		fmt.Sprintf("Delivery for order %s changed to %s.", order.OrderCode, request.DeliveryMethod))
	return order, nil
}

func (uc *orderUsecase) UpdateTestStatus(ctx context.Context, clinicID string, request *requests.UpdateTestStatus) (*models.Order, error) {
	order, test, err := uc.loadClinicOrderTest(ctx, clinicID, request.OrderID, request.TestID)
	if err != nil {
		return nil, err
	}

	oldStatus := test.Status
	newStatus := models.OrderTestStatus(request.Status)
	if err := ApplyTestTransition(order, test, newStatus, request.Reason, time.Now()); err != nil {
		return nil, err
	}

	audit := &models.OrderAuditRecord{
		OrderID:  order.ID,
		Field:    fmt.Sprintf("tests.%s.status", test.TestID),
		OldValue: string(oldStatus),
		NewValue: string(newStatus),
	}
	if err := uc.OrderRepository.UpdateOrderWithAudit(ctx, order, audit); err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "test_status_updated", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.String(constvars.LoggingTestIDKey, test.TestID),
		zap.String("from_status", string(oldStatus)),
		zap.String("to_status", string(newStatus)),
	)

	uc.fanOutStatusUpdate(ctx, order, test)
	return order, nil
}

// UploadResult is the compound transition: store the document, then walk the
// remaining stages to result_sent stamping every skipped entry with the
// upload timestamp, so the ledger stays complete.
func (uc *orderUsecase) UploadResult(ctx context.Context, clinicID string, request *requests.UploadResult) (*models.Order, error) {
	order, test, err := uc.loadClinicOrderTest(ctx, clinicID, request.OrderID, request.TestID)
	if err != nil {
		return nil, err
	}

	if test.Status.IsTerminal() {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
			constvars.ErrClientResultTerminalStatus,
			fmt.Sprintf("test %s is already %s", test.TestID, test.Status))
	}
	if test.ScheduledAt == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound,
			constvars.ErrClientBookingNotFound,
			fmt.Sprintf("test %s has no booking on order %s", test.TestID, order.ID))
	}

	objectName := utils.GenerateResultObjectName(order.ID, test.TestID, clinicID, filepath.Ext(request.FileName))
	exists, err := uc.ResultStore.Exists(ctx, objectName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
			constvars.ErrClientResultAlreadyUploaded,
			fmt.Sprintf("result document already present at %s", objectName))
	}
	if err := uc.ResultStore.Put(ctx, objectName, request.Document, request.ContentType); err != nil {
		return nil, err
	}

	oldStatus := test.Status
	BackfillToResultSent(test, time.Now())

	audit := &models.OrderAuditRecord{
		OrderID:  order.ID,
		Field:    fmt.Sprintf("tests.%s.status", test.TestID),
		OldValue: string(oldStatus),
		NewValue: string(models.TestStatusResultSent),
	}
	if err := uc.OrderRepository.UpdateOrderWithAudit(ctx, order, audit); err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "result_uploaded", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.String(constvars.LoggingTestIDKey, test.TestID),
		zap.String("object_name", objectName),
	)

	uc.fanOutStatusUpdate(ctx, order, test)
	return order, nil
}

func (uc *orderUsecase) loadClinicOrderTest(ctx context.Context, clinicID, orderID, testID string) (*models.Order, *models.OrderTest, error) {
	order, err := uc.findOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.ClinicID != clinicID {
		return nil, nil, exceptions.ErrNotAuthorized(fmt.Errorf("order %s does not belong to clinic %s", orderID, clinicID))
	}

	for i := range order.Tests {
		if order.Tests[i].TestID == testID {
			return order, &order.Tests[i], nil
		}
	}
	return nil, nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound,
		constvars.ErrClientOrderTestNotFound,
		fmt.Sprintf("test %s not on order %s", testID, orderID))
}

// fanOutStatusUpdate fires the status-change side effects: email, patient
// notification and push (skipped for public bookings, which have no
// authenticated channel), clinic notification and an operator event. All
// best-effort.
func (uc *orderUsecase) fanOutStatusUpdate(ctx context.Context, order *models.Order, test *models.OrderTest) {
	requestID := utils.GetRequestID(ctx)
	logErr := func(step string, err error) {
		if err != nil {
			uc.Log.Warn("status update fan-out step failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.String("step", step),
				zap.Error(err),
			)
		}
	}

	message := fmt.Sprintf("Test %s on order %s is now %s.", test.Name, order.OrderCode, test.Status)

	if order.PatientID != "" {
		logErr("notify_patient", uc.Notification.NotifyPatient(ctx, order.PatientID,
			"Test status update", message, constvars.NotificationCategoryTestStatus))

		patient, err := uc.PatientRepository.FindByID(ctx, order.PatientID)
		if err != nil || patient == nil {
			logErr("load_patient", err)
		} else {
			logErr("email_status", uc.Email.SendTestStatusUpdate(ctx, order, test, patient.Email))
			if patient.PushToken != "" {
				logErr("push_patient", uc.Notification.SendPush(ctx, patient.PushToken,
					"Test status update", message, constvars.NotificationCategoryTestStatus,
					map[string]string{"orderId": order.ID, "testId": test.TestID}))
			}
		}
	} else if order.PublicBooker != nil {
		logErr("email_status", uc.Email.SendTestStatusUpdate(ctx, order, test, order.PublicBooker.Email))
	}

	logErr("notify_clinic", uc.Notification.NotifyClinic(ctx, order.ClinicID,
		"Test status update", message, constvars.NotificationCategoryTestStatus))
	logErr("notify_operator", uc.Notification.NotifyOperator(ctx,
		"Test status update", message, constvars.NotificationCategoryTestStatus))
}

// notifyOrderChanged re-notifies both parties after a patient-driven order
// mutation. Best-effort.
func (uc *orderUsecase) notifyOrderChanged(ctx context.Context, order *models.Order, title, message string) {
	logErr := func(err error) {
		if err != nil {
			uc.Log.Warn("order change notification failed",
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.Error(err),
			)
		}
	}
	if order.PatientID != "" {
		logErr(uc.Notification.NotifyPatient(ctx, order.PatientID, title, message, constvars.NotificationCategoryOrder))
	}
	logErr(uc.Notification.NotifyClinic(ctx, order.ClinicID, title, message, constvars.NotificationCategoryOrder))
}
