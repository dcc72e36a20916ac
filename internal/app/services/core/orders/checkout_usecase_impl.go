package orders

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type checkoutUsecase struct {
	CartGrouper       contracts.CartGrouper
	ScheduleValidator contracts.ScheduleValidator
	PatientRepository contracts.PatientRepository
	LabTestRepository contracts.LabTestRepository
	Discounts         contracts.DiscountService
	Materializer      contracts.OrderMaterializer
	PendingStore      contracts.PendingPublicOrderStore
	PawaPay           contracts.PaymentGatewayService
	YellowCard        contracts.PaymentGatewayService
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

var (
	checkoutUsecaseInstance contracts.CheckoutUsecase
	onceCheckoutUsecase     sync.Once
)

func NewCheckoutUsecase(
	cartGrouper contracts.CartGrouper,
	scheduleValidator contracts.ScheduleValidator,
	patientRepository contracts.PatientRepository,
	labTestRepository contracts.LabTestRepository,
	discounts contracts.DiscountService,
	materializer contracts.OrderMaterializer,
	pendingStore contracts.PendingPublicOrderStore,
	pawaPay contracts.PaymentGatewayService,
	yellowCard contracts.PaymentGatewayService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CheckoutUsecase {
	onceCheckoutUsecase.Do(func() {
		checkoutUsecaseInstance = &checkoutUsecase{
			CartGrouper:       cartGrouper,
			ScheduleValidator: scheduleValidator,
			PatientRepository: patientRepository,
			LabTestRepository: labTestRepository,
			Discounts:         discounts,
			Materializer:      materializer,
			PendingStore:      pendingStore,
			PawaPay:           pawaPay,
			YellowCard:        yellowCard,
			InternalConfig:    internalConfig,
			Log:               logger,
		}
	})
	return checkoutUsecaseInstance
}

func (uc *checkoutUsecase) Checkout(ctx context.Context, patientID string, request *requests.Checkout) (*responses.Checkout, error) {
	groups, err := uc.CartGrouper.GroupPendingCart(ctx, patientID)
	if err != nil {
		return nil, err
	}

	clinicIDs := make([]string, 0, len(groups))
	var totalAmount float64
	for _, group := range groups {
		clinicIDs = append(clinicIDs, group.ClinicID)
		totalAmount += group.TotalAmount
	}

	if err := uc.ScheduleValidator.ValidateCheckout(ctx, clinicIDs, request.DeliveryMethod); err != nil {
		return nil, err
	}
	for _, group := range groups {
		for _, test := range group.Tests {
			if test.ScheduledAt == nil {
				continue
			}
			if err := uc.ScheduleValidator.ValidateSlot(ctx, group.ClinicID, *test.ScheduledAt); err != nil {
				return nil, err
			}
		}
	}

	paymentMethod := models.PaymentMethod(request.PaymentMethod)
	switch paymentMethod {
	case models.PaymentMethodSubscription, models.PaymentMethodInsurance:
		return uc.checkoutPrivileged(ctx, patientID, groups, totalAmount, paymentMethod, request)
	case models.PaymentMethodMobileMoney, models.PaymentMethodBankTransfer:
		return uc.checkoutExternal(ctx, patientID, totalAmount, paymentMethod, request)
	default:
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientCannotProcessRequest,
			fmt.Sprintf("unknown payment method %q", request.PaymentMethod))
	}
}

// checkoutPrivileged settles the subscription and insurance rails: the
// privilege debit commits before any order exists, so a failed debit leaves
// nothing to unwind.
func (uc *checkoutUsecase) checkoutPrivileged(ctx context.Context, patientID string, groups []contracts.OrderGroup, totalAmount float64, paymentMethod models.PaymentMethod, request *requests.Checkout) (*responses.Checkout, error) {
	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientPatientNotFound, "patient missing at checkout")
	}

	testCount := 0
	for _, group := range groups {
		testCount += len(group.Tests)
	}

	switch paymentMethod {
	case models.PaymentMethodSubscription:
		if patient.SubscriptionCredits < testCount {
			return nil, exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
				constvars.ErrClientInsufficientCredits,
				fmt.Sprintf("patient has %d credits, cart needs %d", patient.SubscriptionCredits, testCount))
		}
		for i := 0; i < testCount; i++ {
			debited, err := uc.PatientRepository.DebitSubscriptionCredit(ctx, patientID)
			if err != nil {
				return nil, err
			}
			if !debited {
				return nil, exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
					constvars.ErrClientInsufficientCredits,
					"subscription credits exhausted while debiting")
			}
		}
	case models.PaymentMethodInsurance:
		if patient.InsuranceProvider == "" || patient.InsurancePolicyLimit < totalAmount {
			return nil, exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
				constvars.ErrClientInsuranceNotCovered,
				fmt.Sprintf("policy limit %.2f below cart total %.2f", patient.InsurancePolicyLimit, totalAmount))
		}
		// The read above is a fast pre-check; the conditional decrement is
		// what actually commits the reservation before any order exists.
		debited, err := uc.PatientRepository.DebitInsuranceAllowance(ctx, patientID, totalAmount)
		if err != nil {
			return nil, err
		}
		if !debited {
			return nil, exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
				constvars.ErrClientInsuranceNotCovered,
				"policy cover exhausted while reserving")
		}
	}

	created, err := uc.Materializer.MaterializeCartGroups(ctx, patientID, groups, contracts.MaterializeOptions{
		PaymentMethod:   paymentMethod,
		DeliveryMethod:  request.DeliveryMethod,
		DeliveryAddress: request.DeliveryAddress,
	})
	if err != nil {
		return nil, err
	}

	orderCodes := make([]string, 0, len(created))
	for _, order := range created {
		orderCodes = append(orderCodes, order.OrderCode)
	}
	return &responses.Checkout{
		PaymentStatus: string(models.PaymentStatusPaid),
		TotalAmount:   totalAmount,
		Currency:      uc.InternalConfig.App.Currency,
		OrderCodes:    orderCodes,
	}, nil
}

// checkoutExternal initiates the deposit and returns immediately; orders only
// materialize when the provider's webhook confirms the payment.
func (uc *checkoutUsecase) checkoutExternal(ctx context.Context, patientID string, totalAmount float64, paymentMethod models.PaymentMethod, request *requests.Checkout) (*responses.Checkout, error) {
	if request.PayerPhoneNumber == "" {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientPayerPhoneRequired, "payerPhoneNumber missing for external payment rail")
	}

	gateway := uc.gatewayFor(paymentMethod)
	deposit, err := gateway.InitiateDeposit(ctx, &requests.InitiateDeposit{
		IdempotencyKey: utils.GenerateIdempotencyKey(),
		Amount:         totalAmount,
		Currency:       uc.InternalConfig.App.Currency,
		PayerAccount:   request.PayerPhoneNumber,
		Description:    "Diagnostic test order",
		Metadata: requests.PaymentMetadata{
			PatientID:       patientID,
			DeliveryMethod:  request.DeliveryMethod,
			DeliveryAddress: request.DeliveryAddress,
		},
	})
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "checkout_payment_initiated", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingProviderKey, gateway.Provider()),
		zap.String(constvars.LoggingProviderRefKey, deposit.ProviderReference),
		zap.Float64(constvars.LoggingAmountKey, totalAmount),
	)
	return &responses.Checkout{
		Provider:          gateway.Provider(),
		ProviderReference: deposit.ProviderReference,
		PaymentStatus:     string(models.PaymentStatusPending),
		TotalAmount:       totalAmount,
		Currency:          uc.InternalConfig.App.Currency,
	}, nil
}

func (uc *checkoutUsecase) CheckoutPublic(ctx context.Context, request *requests.PublicCheckout) (*responses.Checkout, error) {
	scheduledAt, err := time.Parse(time.RFC3339, request.ScheduledAt)
	if err != nil {
		return nil, exceptions.BuildNewCustomError(err, constvars.StatusBadRequest,
			constvars.ErrClientInvalidScheduledAt, "scheduledAt is not RFC 3339")
	}

	test, err := uc.LabTestRepository.FindByClinicAndNumber(ctx, request.ClinicID, request.TestNumber)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusNotFound,
			constvars.ErrClientTestNotFound,
			fmt.Sprintf("no test number %d at clinic %s", request.TestNumber, request.ClinicID))
	}

	if err := uc.ScheduleValidator.ValidateCheckout(ctx, []string{request.ClinicID}, request.DeliveryMethod); err != nil {
		return nil, err
	}
	if err := uc.ScheduleValidator.ValidateSlot(ctx, request.ClinicID, scheduledAt); err != nil {
		return nil, err
	}

	payerAccount := request.PayerPhoneNumber
	if payerAccount == "" {
		payerAccount = request.PhoneNumber
	}

	amount := test.Price
	var discount *models.Discount
	if request.DiscountCode != "" {
		discount, err = uc.Discounts.ResolveForTest(ctx, request.DiscountCode, test)
		if err != nil {
			return nil, err
		}
		amount = discount.FinalPrice
	}

	paymentMethod := models.PaymentMethod(request.PaymentMethod)
	gateway := uc.gatewayFor(paymentMethod)
	deposit, err := gateway.InitiateDeposit(ctx, &requests.InitiateDeposit{
		IdempotencyKey: utils.GenerateIdempotencyKey(),
		Amount:         amount,
		Currency:       uc.InternalConfig.App.Currency,
		PayerAccount:   payerAccount,
		Description:    fmt.Sprintf("Diagnostic test: %s", test.Name),
		Metadata: requests.PaymentMetadata{
			Public:          true,
			DeliveryMethod:  request.DeliveryMethod,
			DeliveryAddress: request.DeliveryAddress,
		},
	})
	if err != nil {
		return nil, err
	}

	pending := &models.PendingPublicOrder{
		OrderKey:   deposit.ProviderReference,
		Provider:   gateway.Provider(),
		ClinicID:   request.ClinicID,
		TestNumber: request.TestNumber,
		Booker: models.PublicBooker{
			FullName:    request.FullName,
			Email:       request.Email,
			PhoneNumber: request.PhoneNumber,
		},
		PaymentMethod:   paymentMethod,
		DeliveryMethod:  request.DeliveryMethod,
		DeliveryAddress: request.DeliveryAddress,
		Discount:        discount,
		ScheduledAt:     &scheduledAt,
		ExpectedAmount:  amount,
		Currency:        uc.InternalConfig.App.Currency,
		CreatedAt:       time.Now(),
	}
	if err := uc.PendingStore.Save(ctx, pending); err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, "public_checkout_staged", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingClinicIDKey, request.ClinicID),
		zap.String(constvars.LoggingProviderKey, gateway.Provider()),
		zap.String(constvars.LoggingProviderRefKey, deposit.ProviderReference),
		zap.Float64(constvars.LoggingAmountKey, amount),
	)
	return &responses.Checkout{
		Provider:          gateway.Provider(),
		ProviderReference: deposit.ProviderReference,
		PaymentStatus:     string(models.PaymentStatusPending),
		TotalAmount:       amount,
		Currency:          uc.InternalConfig.App.Currency,
	}, nil
}

func (uc *checkoutUsecase) gatewayFor(method models.PaymentMethod) contracts.PaymentGatewayService {
	if method == models.PaymentMethodBankTransfer {
		return uc.YellowCard
	}
	return uc.PawaPay
}
