package orders

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type materializerFixture struct {
	orders        *MockOrderRepository
	cartItems     *MockCartItemRepository
	clinics       *MockClinicRepository
	patients      *MockPatientRepository
	labTests      *MockLabTestRepository
	notifications *MockNotificationService
	operatorAlert *MockOperatorAlertService
	email         *MockEmailService
	calendar      *MockCalendarService
	materializer  *orderMaterializer
}

func newMaterializerFixture() *materializerFixture {
	f := &materializerFixture{
		orders:        &MockOrderRepository{},
		cartItems:     &MockCartItemRepository{},
		clinics:       &MockClinicRepository{},
		patients:      &MockPatientRepository{},
		labTests:      &MockLabTestRepository{},
		notifications: &MockNotificationService{},
		operatorAlert: &MockOperatorAlertService{},
		email:         &MockEmailService{},
		calendar:      &MockCalendarService{},
	}
	f.materializer = &orderMaterializer{
		OrderRepository:    f.orders,
		CartItemRepository: f.cartItems,
		ClinicRepository:   f.clinics,
		PatientRepository:  f.patients,
		LabTestRepository:  f.labTests,
		Notification:       f.notifications,
		OperatorAlert:      f.operatorAlert,
		Email:              f.email,
		Calendar:           f.calendar,
		InternalConfig: &config.InternalConfig{
			App:      config.App{Currency: "ZMW"},
			Fees:     config.AppFees{PlatformFeeRate: 0.1},
			Calendar: config.AppCalendar{MaxRetryAttempts: 2},
		},
		Log: zap.NewNop(),
	}
	return f
}

// quietFanOut lets every post-materialization side effect succeed silently.
func (f *materializerFixture) quietFanOut() {
	f.notifications.On("NotifyPatient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifications.On("NotifyClinic", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifications.On("NotifyOperator", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifications.On("SendPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.email.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func materializerGroups() []contracts.OrderGroup {
	return []contracts.OrderGroup{
		{
			ClinicID:    "clinic-a",
			TotalAmount: 1500,
			Tests:       []models.OrderTest{{TestID: "test-1", Price: 700}, {TestID: "test-2", Price: 800}},
			CartItemIDs: []string{"item-1", "item-2"},
		},
		{
			ClinicID:    "clinic-b",
			TotalAmount: 2000,
			Tests:       []models.OrderTest{{TestID: "test-3", Price: 2000}},
			CartItemIDs: []string{"item-3"},
		},
	}
}

func TestMaterializeCartGroups(t *testing.T) {
	ctx := context.Background()
	opts := contracts.MaterializeOptions{
		PaymentMethod:  models.PaymentMethodSubscription,
		DeliveryMethod: models.DeliveryMethodPickup,
	}

	t.Run("Each Group Becomes One Order With Net Clinic Credit", func(t *testing.T) {
		f := newMaterializerFixture()
		f.quietFanOut()

		f.patients.On("FindByID", mock.Anything, "patient-1").
			Return(&models.Patient{ID: "patient-1", FullName: "Amina Phiri", Email: "amina@example.com"}, nil)
		f.orders.On("NextOrderSequence", mock.Anything).Return(int64(41), nil).Once()
		f.orders.On("NextOrderSequence", mock.Anything).Return(int64(42), nil).Once()
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return("order-id", nil).Twice()
		f.cartItems.On("MarkBooked", mock.Anything, []string{"item-1", "item-2"}).Return(nil).Once()
		f.cartItems.On("MarkBooked", mock.Anything, []string{"item-3"}).Return(nil).Once()
		f.clinics.On("IncrementBalance", mock.Anything, "clinic-a", 1350.0).Return(nil).Once()
		f.clinics.On("IncrementBalance", mock.Anything, "clinic-b", 1800.0).Return(nil).Once()

		created, err := f.materializer.MaterializeCartGroups(ctx, "patient-1", materializerGroups(), opts)
		require.NoError(t, err)
		require.Len(t, created, 2)

		assert.Equal(t, "ORD-000041", created[0].OrderCode)
		assert.Equal(t, "ORD-000042", created[1].OrderCode)
		assert.Equal(t, "patient-1", created[0].PatientID)
		assert.Equal(t, models.PaymentStatusPaid, created[0].PaymentStatus)
		for _, line := range created[0].Tests {
			assert.Equal(t, models.TestStatusPending, line.Status)
			require.Len(t, line.StatusHistory, 1)
		}
		f.orders.AssertExpectations(t)
		f.cartItems.AssertExpectations(t)
		f.clinics.AssertExpectations(t)
	})

	t.Run("Fan Out Failures Never Fail The Materialization", func(t *testing.T) {
		f := newMaterializerFixture()
		boom := errors.New("broker down")
		f.notifications.On("NotifyPatient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
		f.notifications.On("NotifyClinic", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
		f.notifications.On("NotifyOperator", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
		f.notifications.On("SendPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
		f.email.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(boom)

		f.patients.On("FindByID", mock.Anything, "patient-1").
			Return(&models.Patient{ID: "patient-1", FullName: "Amina Phiri", Email: "amina@example.com", PushToken: "push-token"}, nil)
		f.orders.On("NextOrderSequence", mock.Anything).Return(int64(7), nil)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return("order-id", nil)
		f.cartItems.On("MarkBooked", mock.Anything, mock.Anything).Return(nil)
		f.clinics.On("IncrementBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		created, err := f.materializer.MaterializeCartGroups(ctx, "patient-1", materializerGroups()[:1], opts)
		require.NoError(t, err)
		require.Len(t, created, 1)
		f.notifications.AssertCalled(t, "SendPush", mock.Anything, "push-token", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Calendar Retries Stop At The Cap And Alert An Operator", func(t *testing.T) {
		f := newMaterializerFixture()
		f.quietFanOut()

		slot := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
		group := contracts.OrderGroup{
			ClinicID:    "clinic-a",
			TotalAmount: 700,
			Tests:       []models.OrderTest{{TestID: "test-1", Name: "Lipid Panel", Price: 700, ScheduledAt: &slot}},
			CartItemIDs: []string{"item-1"},
		}

		f.patients.On("FindByID", mock.Anything, "patient-1").
			Return(&models.Patient{ID: "patient-1", FullName: "Amina Phiri", Email: "amina@example.com"}, nil)
		f.orders.On("NextOrderSequence", mock.Anything).Return(int64(8), nil)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return("order-id", nil)
		f.cartItems.On("MarkBooked", mock.Anything, mock.Anything).Return(nil)
		f.clinics.On("IncrementBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.clinics.On("FindByID", mock.Anything, "clinic-a").
			Return(&models.Clinic{ID: "clinic-a", Name: "Lusaka Central Lab", Timezone: "Africa/Lusaka"}, nil)
		f.calendar.On("CreateEvent", mock.Anything, mock.Anything, "Amina Phiri", "amina@example.com",
			"Lipid Panel", mock.Anything, mock.Anything, mock.Anything, slot, "Africa/Lusaka").
			Return(nil, errors.New("calendar 503")).Twice()
		f.operatorAlert.On("RaiseAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		created, err := f.materializer.MaterializeCartGroups(ctx, "patient-1", []contracts.OrderGroup{group}, opts)
		require.NoError(t, err)
		require.Len(t, created, 1)

		f.calendar.AssertNumberOfCalls(t, "CreateEvent", 2)
		f.operatorAlert.AssertExpectations(t)
	})
}

func TestMaterializePublicOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Public Booking Settles At The Staged Amount", func(t *testing.T) {
		f := newMaterializerFixture()
		f.quietFanOut()

		pending := &models.PendingPublicOrder{
			OrderKey:       "deposit-9",
			Provider:       constvars.ProviderPawaPay,
			ClinicID:       "clinic-a",
			TestNumber:     3,
			Booker:         models.PublicBooker{FullName: "Joseph Banda", Email: "joseph@example.com", PhoneNumber: "+260971112222"},
			PaymentMethod:  models.PaymentMethodMobileMoney,
			DeliveryMethod: models.DeliveryMethodPickup,
			ExpectedAmount: 585,
			Currency:       "ZMW",
		}
		f.labTests.On("FindByClinicAndNumber", mock.Anything, "clinic-a", 3).
			Return(&models.LabTest{ID: "test-3", ClinicID: "clinic-a", TestNumber: 3, Name: "HbA1c", Price: 650}, nil)
		f.orders.On("NextOrderSequence", mock.Anything).Return(int64(9), nil)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return("order-id", nil).Once()
		f.clinics.On("IncrementBalance", mock.Anything, "clinic-a", 526.5).Return(nil).Once()

		order, err := f.materializer.MaterializePublicOrder(ctx, pending, contracts.MaterializeOptions{
			PaymentMethod:     models.PaymentMethodMobileMoney,
			DeliveryMethod:    models.DeliveryMethodPickup,
			Provider:          constvars.ProviderPawaPay,
			ProviderReference: "deposit-9",
			ProviderStatus:    "COMPLETED",
		})
		require.NoError(t, err)

		assert.Equal(t, "ORD-000009", order.OrderCode)
		assert.Empty(t, order.PatientID)
		require.NotNil(t, order.PublicBooker)
		assert.Equal(t, "Joseph Banda", order.PublicBooker.FullName)
		// The line settles at what the booker actually paid, not the list price.
		assert.Equal(t, 585.0, order.Tests[0].Price)
		assert.Equal(t, 585.0, order.TotalAmount)

		f.notifications.AssertNotCalled(t, "NotifyPatient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.clinics.AssertExpectations(t)
	})
}
