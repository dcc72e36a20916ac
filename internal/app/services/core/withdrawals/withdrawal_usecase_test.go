package withdrawals

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) (string, error) {
	args := m.Called(ctx, withdrawal)
	return args.String(0), args.Error(1)
}

func (m *MockWithdrawalRepository) FindByPayoutID(ctx context.Context, payoutID string) (*models.Withdrawal, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) FindByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clinic), args.Error(1)
}

func (m *MockClinicRepository) FindByIDs(ctx context.Context, clinicIDs []string) ([]models.Clinic, error) {
	args := m.Called(ctx, clinicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Clinic), args.Error(1)
}

func (m *MockClinicRepository) IncrementBalance(ctx context.Context, clinicID string, delta float64) error {
	args := m.Called(ctx, clinicID, delta)
	return args.Error(0)
}

func (m *MockClinicRepository) DebitBalance(ctx context.Context, clinicID string, amount float64) (bool, error) {
	args := m.Called(ctx, clinicID, amount)
	return args.Bool(0), args.Error(1)
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

type withdrawalFixture struct {
	withdrawals   *MockWithdrawalRepository
	clinics       *MockClinicRepository
	notification  *MockNotificationService
	operatorAlert *MockOperatorAlertService
	pawaPay       *MockPaymentGateway
	usecase       *withdrawalUsecase
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		withdrawals:   &MockWithdrawalRepository{},
		clinics:       &MockClinicRepository{},
		notification:  &MockNotificationService{},
		operatorAlert: &MockOperatorAlertService{},
		pawaPay:       &MockPaymentGateway{ProviderName: constvars.ProviderPawaPay},
	}
	f.usecase = &withdrawalUsecase{
		WithdrawalRepository: f.withdrawals,
		ClinicRepository:     f.clinics,
		Notification:         f.notification,
		OperatorAlert:        f.operatorAlert,
		PawaPay:              f.pawaPay,
		YellowCard:           &MockPaymentGateway{ProviderName: constvars.ProviderYellowCard},
		InternalConfig: &config.InternalConfig{
			App:  config.App{Currency: "ZMW"},
			Fees: config.AppFees{WithdrawalFeeRate: 0.05},
		},
		Log: zap.NewNop(),
	}
	return f
}

func TestSubmitWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Debits Principal Plus Fee Before The Provider Call", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.clinics.On("FindByID", mock.Anything, "clinic-a").Return(&models.Clinic{ID: "clinic-a", Name: "City Lab"}, nil)
		f.clinics.On("DebitBalance", mock.Anything, "clinic-a", 1050.0).Return(true, nil)
		f.pawaPay.On("SubmitPayout", mock.Anything, mock.MatchedBy(func(req *requests.SubmitPayout) bool {
			return req.Amount == 1000 && req.RecipientAccount == "260971234567" && req.IdempotencyKey != ""
		})).Return(&responses.SubmitPayout{ProviderReference: "payout-1"}, nil)
		f.withdrawals.On("Create", mock.Anything, mock.Anything).Return("withdrawal-1", nil)
		f.notification.On("NotifyClinic", mock.Anything, "clinic-a", mock.Anything, mock.Anything, constvars.NotificationCategoryWithdrawal).Return(nil)

		withdrawal, err := f.usecase.SubmitWithdrawal(ctx, "clinic-a", &requests.SubmitWithdrawal{
			Amount:           1000,
			Provider:         constvars.ProviderPawaPay,
			RecipientAccount: "260971234567",
		})
		require.NoError(t, err)

		assert.Equal(t, 1000.0, withdrawal.Amount)
		assert.Equal(t, 50.0, withdrawal.Fee, "five percent fee on the principal")
		assert.Equal(t, "payout-1", withdrawal.PayoutID)
		assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)
		require.Len(t, withdrawal.StatusHistory, 1)
		assert.Equal(t, models.WithdrawalStatusPending, withdrawal.StatusHistory[0].Status)

		f.clinics.AssertExpectations(t)
		f.pawaPay.AssertExpectations(t)
	})

	t.Run("Insufficient Balance Rejects Without A Provider Call", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.clinics.On("FindByID", mock.Anything, "clinic-a").Return(&models.Clinic{ID: "clinic-a"}, nil)
		f.clinics.On("DebitBalance", mock.Anything, "clinic-a", 1050.0).Return(false, nil)

		_, err := f.usecase.SubmitWithdrawal(ctx, "clinic-a", &requests.SubmitWithdrawal{
			Amount:           1000,
			Provider:         constvars.ProviderPawaPay,
			RecipientAccount: "260971234567",
		})
		require.Error(t, err)

		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusForbidden, customErr.StatusCode)
		f.pawaPay.AssertNotCalled(t, "SubmitPayout", mock.Anything, mock.Anything)
	})

	t.Run("Failed Initiation Refunds The Debit", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.clinics.On("FindByID", mock.Anything, "clinic-a").Return(&models.Clinic{ID: "clinic-a", Name: "City Lab"}, nil)
		f.clinics.On("DebitBalance", mock.Anything, "clinic-a", 1050.0).Return(true, nil)
		f.pawaPay.On("SubmitPayout", mock.Anything, mock.Anything).Return(nil, errors.New("provider unavailable"))
		f.clinics.On("IncrementBalance", mock.Anything, "clinic-a", 1050.0).Return(nil)

		_, err := f.usecase.SubmitWithdrawal(ctx, "clinic-a", &requests.SubmitWithdrawal{
			Amount:           1000,
			Provider:         constvars.ProviderPawaPay,
			RecipientAccount: "260971234567",
		})
		require.Error(t, err)
		f.clinics.AssertExpectations(t)
	})

	t.Run("Unknown Clinic", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.clinics.On("FindByID", mock.Anything, "clinic-gone").Return(nil, nil)

		_, err := f.usecase.SubmitWithdrawal(ctx, "clinic-gone", &requests.SubmitWithdrawal{
			Amount:           1000,
			Provider:         constvars.ProviderPawaPay,
			RecipientAccount: "260971234567",
		})
		require.Error(t, err)

		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestHandlePayoutResult(t *testing.T) {
	ctx := context.Background()

	pendingWithdrawal := func() *models.Withdrawal {
		return &models.Withdrawal{
			ID:       "withdrawal-1",
			ClinicID: "clinic-a",
			Amount:   1000,
			Fee:      50,
			Currency: "ZMW",
			PayoutID: "payout-1",
			Status:   models.WithdrawalStatusPending,
			StatusHistory: []models.WithdrawalHistoryEntry{
				{Status: models.WithdrawalStatusPending},
			},
		}
	}

	t.Run("Completed Payout Marks The Ledger", func(t *testing.T) {
		f := newWithdrawalFixture()

		withdrawal := pendingWithdrawal()
		f.withdrawals.On("FindByPayoutID", mock.Anything, "payout-1").Return(withdrawal, nil)
		f.withdrawals.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Withdrawal) bool {
			return updated.Status == models.WithdrawalStatusCompleted && len(updated.StatusHistory) == 2
		})).Return(nil)
		f.notification.On("NotifyClinic", mock.Anything, "clinic-a", "Withdrawal completed", mock.Anything, constvars.NotificationCategoryWithdrawal).Return(nil)

		err := f.usecase.HandlePayoutResult(ctx, "payout-1", string(models.WithdrawalStatusCompleted), "")
		require.NoError(t, err)
		f.withdrawals.AssertExpectations(t)
		f.clinics.AssertNotCalled(t, "IncrementBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed Payout Refunds Principal Plus Fee", func(t *testing.T) {
		f := newWithdrawalFixture()

		withdrawal := pendingWithdrawal()
		f.withdrawals.On("FindByPayoutID", mock.Anything, "payout-1").Return(withdrawal, nil)
		f.withdrawals.On("Update", mock.Anything, mock.MatchedBy(func(updated *models.Withdrawal) bool {
			return updated.Status == models.WithdrawalStatusFailed && updated.FailureReason == "recipient closed"
		})).Return(nil)
		f.clinics.On("IncrementBalance", mock.Anything, "clinic-a", 1050.0).Return(nil)
		f.notification.On("NotifyClinic", mock.Anything, "clinic-a", "Withdrawal failed", mock.Anything, constvars.NotificationCategoryWithdrawal).Return(nil)

		err := f.usecase.HandlePayoutResult(ctx, "payout-1", string(models.WithdrawalStatusFailed), "recipient closed")
		require.NoError(t, err)
		f.clinics.AssertExpectations(t)
	})

	t.Run("Settled Withdrawal Never Refunds Twice", func(t *testing.T) {
		f := newWithdrawalFixture()

		settled := pendingWithdrawal()
		settled.Status = models.WithdrawalStatusFailed
		f.withdrawals.On("FindByPayoutID", mock.Anything, "payout-1").Return(settled, nil)

		err := f.usecase.HandlePayoutResult(ctx, "payout-1", string(models.WithdrawalStatusFailed), "recipient closed")
		require.NoError(t, err)

		f.withdrawals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.clinics.AssertNotCalled(t, "IncrementBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown Payout Raises An Alert", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.withdrawals.On("FindByPayoutID", mock.Anything, "payout-gone").Return(nil, nil)
		f.operatorAlert.On("RaiseAlert", mock.Anything, "Payout callback without withdrawal", mock.Anything, mock.Anything).Return(nil)

		err := f.usecase.HandlePayoutResult(ctx, "payout-gone", string(models.WithdrawalStatusCompleted), "")
		require.NoError(t, err)
		f.operatorAlert.AssertExpectations(t)
	})

	t.Run("Non Terminal Status Is Ignored", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.withdrawals.On("FindByPayoutID", mock.Anything, "payout-1").Return(pendingWithdrawal(), nil)

		err := f.usecase.HandlePayoutResult(ctx, "payout-1", "processing", "")
		require.NoError(t, err)
		f.withdrawals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
