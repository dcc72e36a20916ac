package orders

import (
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine(status models.OrderTestStatus) *models.OrderTest {
	return &models.OrderTest{
		TestID: "test-1",
		Name:   "Full Blood Count",
		Status: status,
		StatusHistory: []models.StatusHistoryEntry{
			{Status: models.TestStatusPending, Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		},
	}
}

func customStatusCode(t *testing.T, err error) int {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok, "error should be a CustomError")
	return customErr.StatusCode
}

func TestApplyTestTransition(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	t.Run("Advances Through The Processing Chain", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodMobileMoney}
		test := newTestLine(models.TestStatusPending)

		chain := []models.OrderTestStatus{
			models.TestStatusSampleCollected,
			models.TestStatusProcessing,
			models.TestStatusResultReady,
			models.TestStatusResultSent,
		}
		for _, status := range chain {
			err := ApplyTestTransition(order, test, status, "", now)
			require.NoError(t, err, "advancing to %s should be legal", status)
			assert.Equal(t, status, test.Status)
		}

		assert.Len(t, test.StatusHistory, 5, "each transition should append one ledger entry")
		assert.Equal(t, models.TestStatusResultSent, test.StatusHistory[len(test.StatusHistory)-1].Status,
			"last ledger entry should match the current status")
	})

	t.Run("Rejects Skipping A Stage", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		test := newTestLine(models.TestStatusPending)

		err := ApplyTestTransition(order, test, models.TestStatusResultReady, "", now)
		require.Error(t, err, "pending cannot jump straight to result_ready")
		assert.Equal(t, constvars.StatusConflict, customStatusCode(t, err))
		assert.Equal(t, models.TestStatusPending, test.Status, "line should be untouched on rejection")
		assert.Len(t, test.StatusHistory, 1, "no ledger entry should be appended on rejection")
	})

	t.Run("Rejects Backward Movement", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		test := newTestLine(models.TestStatusProcessing)

		err := ApplyTestTransition(order, test, models.TestStatusSampleCollected, "", now)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, customStatusCode(t, err))
	})

	t.Run("Unknown Status", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		test := newTestLine(models.TestStatusPending)

		err := ApplyTestTransition(order, test, models.OrderTestStatus("archived"), "", now)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customStatusCode(t, err))
	})

	t.Run("Terminal Lines Stay Frozen", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		for _, terminal := range []models.OrderTestStatus{
			models.TestStatusResultSent,
			models.TestStatusRejected,
			models.TestStatusCancelled,
			models.TestStatusFailed,
		} {
			test := newTestLine(terminal)
			err := ApplyTestTransition(order, test, models.TestStatusProcessing, "", now)
			require.Error(t, err, "no transition should leave %s", terminal)
			assert.Equal(t, constvars.StatusConflict, customStatusCode(t, err))
		}
	})

	t.Run("Exit Statuses Require A Reason", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		for _, exit := range []models.OrderTestStatus{
			models.TestStatusRejected,
			models.TestStatusCancelled,
			models.TestStatusFailed,
		} {
			test := newTestLine(models.TestStatusPending)
			err := ApplyTestTransition(order, test, exit, "", now)
			require.Error(t, err, "%s without a reason should fail", exit)
			assert.Equal(t, constvars.StatusBadRequest, customStatusCode(t, err))
		}
	})

	t.Run("Rejected Forbidden On Mobile Money Orders", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodMobileMoney}
		test := newTestLine(models.TestStatusPending)

		err := ApplyTestTransition(order, test, models.TestStatusRejected, "sample hemolyzed", now)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusForbidden, customStatusCode(t, err))
	})

	t.Run("Rejected On Mobile Money Stays A Policy Error On Terminal Lines", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodMobileMoney}
		for _, terminal := range []models.OrderTestStatus{
			models.TestStatusResultSent,
			models.TestStatusCancelled,
			models.TestStatusFailed,
		} {
			test := newTestLine(terminal)
			err := ApplyTestTransition(order, test, models.TestStatusRejected, "sample hemolyzed", now)
			require.Error(t, err)
			assert.Equal(t, constvars.StatusForbidden, customStatusCode(t, err),
				"policy error should win over the %s terminal conflict", terminal)
		}
	})

	t.Run("Rejected Allowed On Other Payment Methods", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodBankTransfer}
		test := newTestLine(models.TestStatusProcessing)

		err := ApplyTestTransition(order, test, models.TestStatusRejected, "sample hemolyzed", now)
		require.NoError(t, err)
		assert.Equal(t, models.TestStatusRejected, test.Status)
		assert.Equal(t, "sample hemolyzed", test.StatusReason, "reason should be recorded")
	})

	t.Run("Cancelled Forbidden Once Result Exists", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodInsurance}
		test := newTestLine(models.TestStatusResultReady)

		err := ApplyTestTransition(order, test, models.TestStatusCancelled, "patient request", now)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, customStatusCode(t, err))
	})

	t.Run("Cancelled Allowed Before Result", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodMobileMoney}
		test := newTestLine(models.TestStatusSampleCollected)

		err := ApplyTestTransition(order, test, models.TestStatusCancelled, "patient request", now)
		require.NoError(t, err)
		assert.Equal(t, "patient request", test.StatusReason)
	})

	t.Run("Failed With Reason From Any Live Stage", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodMobileMoney}
		test := newTestLine(models.TestStatusResultReady)

		err := ApplyTestTransition(order, test, models.TestStatusFailed, "analyzer breakdown", now)
		require.NoError(t, err)
		assert.Equal(t, models.TestStatusFailed, test.Status)
	})

	t.Run("Reason Cleared On Stage Advance", func(t *testing.T) {
		order := &models.Order{PaymentMethod: models.PaymentMethodSubscription}
		test := newTestLine(models.TestStatusPending)
		test.StatusReason = "stale reason"

		err := ApplyTestTransition(order, test, models.TestStatusSampleCollected, "", now)
		require.NoError(t, err)
		assert.Empty(t, test.StatusReason, "advancing a stage should not carry a reason")
	})
}

func TestBackfillToResultSent(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)

	t.Run("From Pending Fills Every Stage", func(t *testing.T) {
		test := newTestLine(models.TestStatusPending)

		BackfillToResultSent(test, now)

		assert.Equal(t, models.TestStatusResultSent, test.Status)
		require.Len(t, test.StatusHistory, 5, "four back-filled entries on top of the initial one")

		filled := test.StatusHistory[1:]
		expected := []models.OrderTestStatus{
			models.TestStatusSampleCollected,
			models.TestStatusProcessing,
			models.TestStatusResultReady,
			models.TestStatusResultSent,
		}
		for i, entry := range filled {
			assert.Equal(t, expected[i], entry.Status)
			assert.Equal(t, now, entry.Timestamp, "back-filled stages share the upload timestamp")
		}
	})

	t.Run("From Mid Chain Fills The Remainder", func(t *testing.T) {
		test := newTestLine(models.TestStatusProcessing)

		BackfillToResultSent(test, now)

		assert.Equal(t, models.TestStatusResultSent, test.Status)
		require.Len(t, test.StatusHistory, 3)
		assert.Equal(t, models.TestStatusResultReady, test.StatusHistory[1].Status)
		assert.Equal(t, models.TestStatusResultSent, test.StatusHistory[2].Status)
	})

	t.Run("Already Result Sent Is A NoOp", func(t *testing.T) {
		test := newTestLine(models.TestStatusResultSent)

		BackfillToResultSent(test, now)

		assert.Equal(t, models.TestStatusResultSent, test.Status)
		assert.Len(t, test.StatusHistory, 1, "no entries should be appended")
	})
}
