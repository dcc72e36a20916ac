package orders

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type orderMaterializer struct {
	OrderRepository    contracts.OrderRepository
	CartItemRepository contracts.CartItemRepository
	ClinicRepository   contracts.ClinicRepository
	PatientRepository  contracts.PatientRepository
	LabTestRepository  contracts.LabTestRepository
	Notification       contracts.NotificationService
	OperatorAlert      contracts.OperatorAlertService
	Email              contracts.EmailService
	Calendar           contracts.CalendarService
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

var (
	materializerInstance contracts.OrderMaterializer
	onceMaterializer     sync.Once
)

func NewOrderMaterializer(
	orderRepository contracts.OrderRepository,
	cartItemRepository contracts.CartItemRepository,
	clinicRepository contracts.ClinicRepository,
	patientRepository contracts.PatientRepository,
	labTestRepository contracts.LabTestRepository,
	notification contracts.NotificationService,
	operatorAlert contracts.OperatorAlertService,
	email contracts.EmailService,
	calendar contracts.CalendarService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.OrderMaterializer {
	onceMaterializer.Do(func() {
		materializerInstance = &orderMaterializer{
			OrderRepository:    orderRepository,
			CartItemRepository: cartItemRepository,
			ClinicRepository:   clinicRepository,
			PatientRepository:  patientRepository,
			LabTestRepository:  labTestRepository,
			Notification:       notification,
			OperatorAlert:      operatorAlert,
			Email:              email,
			Calendar:           calendar,
			InternalConfig:     internalConfig,
			Log:                logger,
		}
	})
	return materializerInstance
}

// MaterializeCartGroups turns each clinic group into one paid order, marks the
// contributing cart items booked, credits the clinic net of the platform fee
// and fires the fan-out. Groups are handled one at a time; an error stops
// before the next group so nothing is half-created out of order.
func (m *orderMaterializer) MaterializeCartGroups(ctx context.Context, patientID string, groups []contracts.OrderGroup, opts contracts.MaterializeOptions) ([]models.Order, error) {
	requestID := utils.GetRequestID(ctx)

	patient, err := m.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientPatientNotFound, "patient missing during materialization")
	}

	created := make([]models.Order, 0, len(groups))
	for _, group := range groups {
		order, err := m.buildOrder(ctx, group.ClinicID, group.Tests, group.TotalAmount, opts)
		if err != nil {
			return created, err
		}
		order.PatientID = patientID

		if _, err := m.OrderRepository.CreateOrder(ctx, order); err != nil {
			return created, err
		}
		if err := m.CartItemRepository.MarkBooked(ctx, group.CartItemIDs); err != nil {
			return created, err
		}
		if err := m.creditClinic(ctx, group.ClinicID, group.TotalAmount); err != nil {
			return created, err
		}

		utils.LogBusinessEvent(m.Log, "order_materialized", requestID,
			zap.String(constvars.LoggingOrderIDKey, order.ID),
			zap.String(constvars.LoggingClinicIDKey, group.ClinicID),
			zap.Float64(constvars.LoggingAmountKey, group.TotalAmount),
		)

		m.fanOut(ctx, order, patient.FullName, patient.Email, patient.PushToken, false)
		created = append(created, *order)
	}
	return created, nil
}

// MaterializePublicOrder builds the single order a confirmed public booking
// describes. The staging record is the only source of booker context; it must
// still exist or the confirmation cannot be honored.
func (m *orderMaterializer) MaterializePublicOrder(ctx context.Context, pending *models.PendingPublicOrder, opts contracts.MaterializeOptions) (*models.Order, error) {
	requestID := utils.GetRequestID(ctx)

	test, err := m.LabTestRepository.FindByClinicAndNumber(ctx, pending.ClinicID, pending.TestNumber)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientTestNotFound, "staged public booking references a missing test")
	}

	snapshot := models.OrderTest{
		TestID:      test.ID,
		Name:        test.Name,
		Price:       pending.ExpectedAmount,
		Turnaround:  test.Turnaround,
		Description: test.Description,
		Image:       test.Image,
		ScheduledAt: pending.ScheduledAt,
	}

	order, err := m.buildOrder(ctx, pending.ClinicID, []models.OrderTest{snapshot}, pending.ExpectedAmount, opts)
	if err != nil {
		return nil, err
	}
	booker := pending.Booker
	order.PublicBooker = &booker

	if _, err := m.OrderRepository.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := m.creditClinic(ctx, pending.ClinicID, pending.ExpectedAmount); err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(m.Log, "public_order_materialized", requestID,
		zap.String(constvars.LoggingOrderIDKey, order.ID),
		zap.String(constvars.LoggingClinicIDKey, pending.ClinicID),
		zap.Float64(constvars.LoggingAmountKey, pending.ExpectedAmount),
	)

	m.fanOut(ctx, order, booker.FullName, booker.Email, "", true)
	return order, nil
}

func (m *orderMaterializer) buildOrder(ctx context.Context, clinicID string, tests []models.OrderTest, totalAmount float64, opts contracts.MaterializeOptions) (*models.Order, error) {
	seq, err := m.OrderRepository.NextOrderSequence(ctx)
	if err != nil {
		return nil, err
	}
	orderCode := fmt.Sprintf("ORD-%06d", seq)

	now := time.Now()
	lines := make([]models.OrderTest, len(tests))
	copy(lines, tests)
	for i := range lines {
		lines[i].Status = models.TestStatusPending
		lines[i].StatusHistory = []models.StatusHistoryEntry{{
			Status:    models.TestStatusPending,
			Timestamp: now,
		}}
	}

	order := &models.Order{
		OrderCode:       orderCode,
		ClinicID:        clinicID,
		Tests:           lines,
		PaymentMethod:   opts.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPaid,
		TotalAmount:     totalAmount,
		Currency:        m.InternalConfig.App.Currency,
		DeliveryMethod:  opts.DeliveryMethod,
		DeliveryAddress: opts.DeliveryAddress,
	}

	switch opts.Provider {
	case constvars.ProviderPawaPay:
		order.PawaPayInfo = &models.PawaPayInfo{DepositID: opts.ProviderReference, Status: opts.ProviderStatus}
	case constvars.ProviderYellowCard:
		order.YellowCardInfo = &models.YellowCardInfo{SequenceID: opts.ProviderReference, Status: opts.ProviderStatus}
	}
	return order, nil
}

func (m *orderMaterializer) creditClinic(ctx context.Context, clinicID string, totalAmount float64) error {
	netCredit := totalAmount * (1 - m.InternalConfig.Fees.PlatformFeeRate)
	return m.ClinicRepository.IncrementBalance(ctx, clinicID, netCredit)
}

// fanOut fires every post-materialization side effect. The payment is already
// captured and the order is the durable source of truth, so failures here are
// logged and swallowed, never returned.
func (m *orderMaterializer) fanOut(ctx context.Context, order *models.Order, recipientName, recipientEmail, pushToken string, public bool) {
	requestID := utils.GetRequestID(ctx)
	logErr := func(step string, err error) {
		if err != nil {
			m.Log.Warn("materializer fan-out step failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOrderIDKey, order.ID),
				zap.String("step", step),
				zap.Error(err),
			)
		}
	}

	if !public {
		logErr("notify_patient_order", m.Notification.NotifyPatient(ctx, order.PatientID,
			"Order confirmed",
			fmt.Sprintf("Your order %s has been confirmed.", order.OrderCode),
			constvars.NotificationCategoryOrder))
		logErr("notify_patient_payment", m.Notification.NotifyPatient(ctx, order.PatientID,
			"Payment received",
			fmt.Sprintf("We received your payment of %.2f %s for order %s.", order.TotalAmount, order.Currency, order.OrderCode),
			constvars.NotificationCategoryPayment))
		if pushToken != "" {
			logErr("push_patient", m.Notification.SendPush(ctx, pushToken,
				"Order confirmed",
				fmt.Sprintf("Order %s is confirmed.", order.OrderCode),
				constvars.NotificationCategoryOrder,
				map[string]string{"orderId": order.ID}))
		}
	}

	logErr("notify_clinic_order", m.Notification.NotifyClinic(ctx, order.ClinicID,
		"New order",
		fmt.Sprintf("Order %s has been placed and paid.", order.OrderCode),
		constvars.NotificationCategoryOrder))
	logErr("notify_clinic_payment", m.Notification.NotifyClinic(ctx, order.ClinicID,
		"Payment processed",
		fmt.Sprintf("Payment of %.2f %s received for order %s.", order.TotalAmount, order.Currency, order.OrderCode),
		constvars.NotificationCategoryPayment))
	logErr("notify_operator", m.Notification.NotifyOperator(ctx,
		"Order materialized",
		fmt.Sprintf("Order %s (clinic %s) materialized for %.2f %s.", order.OrderCode, order.ClinicID, order.TotalAmount, order.Currency),
		constvars.NotificationCategoryOrder))
	logErr("email_confirmation", m.Email.SendOrderConfirmation(ctx, order, recipientEmail))

	m.createCalendarEvents(ctx, order, recipientName, recipientEmail)
}

// createCalendarEvents books a calendar/meeting slot for each scheduled line,
// retrying with exponential backoff up to the configured attempt cap. The
// third-party calendar API has its own transient-failure modes; after the cap
// an operator is alerted instead of blocking the order.
func (m *orderMaterializer) createCalendarEvents(ctx context.Context, order *models.Order, attendeeName, attendeeEmail string) {
	var clinic *models.Clinic
	for _, test := range order.Tests {
		if test.ScheduledAt == nil {
			continue
		}

		if clinic == nil {
			found, err := m.ClinicRepository.FindByID(ctx, order.ClinicID)
			if err != nil || found == nil {
				m.Log.Warn("calendar event skipped, clinic lookup failed",
					zap.String(constvars.LoggingOrderIDKey, order.ID),
					zap.Error(err),
				)
				return
			}
			clinic = found
		}

		if err := m.createEventWithRetry(ctx, clinic, order, &test, attendeeName, attendeeEmail); err != nil {
			alertErr := m.OperatorAlert.RaiseAlert(ctx,
				"Calendar event creation failed",
				fmt.Sprintf("Could not create a calendar event for order %s after %d attempts.", order.OrderCode, m.InternalConfig.Calendar.MaxRetryAttempts),
				map[string]interface{}{
					"orderId":  order.ID,
					"clinicId": order.ClinicID,
					"testId":   test.TestID,
					"error":    err.Error(),
				})
			if alertErr != nil {
				m.Log.Error("failed to raise calendar alert",
					zap.String(constvars.LoggingOrderIDKey, order.ID),
					zap.Error(alertErr),
				)
			}
		}
	}
}

func (m *orderMaterializer) createEventWithRetry(ctx context.Context, clinic *models.Clinic, order *models.Order, test *models.OrderTest, attendeeName, attendeeEmail string) error {
	var lastErr error
	backoff := time.Second
	for attempt := 1; attempt <= m.InternalConfig.Calendar.MaxRetryAttempts; attempt++ {
		_, err := m.Calendar.CreateEvent(ctx, clinic, attendeeName, attendeeEmail,
			test.Name, order.ID, order.DeliveryMethod, order.DeliveryAddress,
			*test.ScheduledAt, clinic.Timezone)
		if err == nil {
			return nil
		}
		lastErr = err

		m.Log.Warn("calendar event attempt failed",
			zap.String(constvars.LoggingOrderIDKey, order.ID),
			zap.Int(constvars.LoggingAttemptKey, attempt),
			zap.Error(err),
		)
		if attempt < m.InternalConfig.Calendar.MaxRetryAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return lastErr
}
