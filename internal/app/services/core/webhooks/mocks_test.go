package webhooks

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Order, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByClinicID(ctx context.Context, clinicID string) ([]models.Order, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByProviderReference(ctx context.Context, provider, providerReference string) (*models.Order, error) {
	args := m.Called(ctx, provider, providerReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderWithAudit(ctx context.Context, order *models.Order, audit *models.OrderAuditRecord) error {
	args := m.Called(ctx, order, audit)
	return args.Error(0)
}

func (m *MockOrderRepository) CountTestsScheduledAt(ctx context.Context, clinicID string, slot time.Time) (int64, error) {
	args := m.Called(ctx, clinicID, slot)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCartGrouper struct {
	mock.Mock
}

func (m *MockCartGrouper) GroupPendingCart(ctx context.Context, patientID string) ([]contracts.OrderGroup, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.OrderGroup), args.Error(1)
}

type MockPendingStore struct {
	mock.Mock
}

func (m *MockPendingStore) Save(ctx context.Context, pending *models.PendingPublicOrder) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingStore) Find(ctx context.Context, orderKey string) (*models.PendingPublicOrder, error) {
	args := m.Called(ctx, orderKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingPublicOrder), args.Error(1)
}

func (m *MockPendingStore) Delete(ctx context.Context, orderKey string) error {
	args := m.Called(ctx, orderKey)
	return args.Error(0)
}

type MockMaterializer struct {
	mock.Mock
}

func (m *MockMaterializer) MaterializeCartGroups(ctx context.Context, patientID string, groups []contracts.OrderGroup, opts contracts.MaterializeOptions) ([]models.Order, error) {
	args := m.Called(ctx, patientID, groups, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockMaterializer) MaterializePublicOrder(ctx context.Context, pending *models.PendingPublicOrder, opts contracts.MaterializeOptions) (*models.Order, error) {
	args := m.Called(ctx, pending, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockWithdrawalUsecase struct {
	mock.Mock
}

func (m *MockWithdrawalUsecase) SubmitWithdrawal(ctx context.Context, clinicID string, request *requests.SubmitWithdrawal) (*models.Withdrawal, error) {
	args := m.Called(ctx, clinicID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalUsecase) HandlePayoutResult(ctx context.Context, payoutID, status, failureReason string) error {
	args := m.Called(ctx, payoutID, status, failureReason)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyPatient(ctx context.Context, patientID, title, message, category string) error {
	args := m.Called(ctx, patientID, title, message, category)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyClinic(ctx context.Context, clinicID, title, message, category string) error {
	args := m.Called(ctx, clinicID, title, message, category)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyOperator(ctx context.Context, title, message, category string) error {
	args := m.Called(ctx, title, message, category)
	return args.Error(0)
}

func (m *MockNotificationService) SendPush(ctx context.Context, token, title, message, category string, data map[string]string) error {
	args := m.Called(ctx, token, title, message, category, data)
	return args.Error(0)
}

type MockOperatorAlertService struct {
	mock.Mock
}

func (m *MockOperatorAlertService) RaiseAlert(ctx context.Context, title, message string, details map[string]interface{}) error {
	args := m.Called(ctx, title, message, details)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipientEmail string) error {
	args := m.Called(ctx, order, recipientEmail)
	return args.Error(0)
}

func (m *MockEmailService) SendPaymentFailed(ctx context.Context, recipientEmail, reason string) error {
	args := m.Called(ctx, recipientEmail, reason)
	return args.Error(0)
}

func (m *MockEmailService) SendTestStatusUpdate(ctx context.Context, order *models.Order, test *models.OrderTest, recipientEmail string) error {
	args := m.Called(ctx, order, test, recipientEmail)
	return args.Error(0)
}

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
	ProviderName string
}

func (m *MockPaymentGateway) Provider() string {
	return m.ProviderName
}

func (m *MockPaymentGateway) InitiateDeposit(ctx context.Context, request *requests.InitiateDeposit) (*responses.InitiateDeposit, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.InitiateDeposit), args.Error(1)
}

func (m *MockPaymentGateway) AcceptCollection(ctx context.Context, providerReference string) error {
	args := m.Called(ctx, providerReference)
	return args.Error(0)
}

func (m *MockPaymentGateway) SubmitPayout(ctx context.Context, request *requests.SubmitPayout) (*responses.SubmitPayout, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.SubmitPayout), args.Error(1)
}
