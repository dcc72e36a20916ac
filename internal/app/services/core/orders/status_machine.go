package orders

import (
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"fmt"
	"time"
)

// nextStage maps each processing stage to the only stage a clinic may advance
// it to. Skipping stages is reserved for the result-upload path, which
// back-fills the ledger instead.
var nextStage = map[models.OrderTestStatus]models.OrderTestStatus{
	models.TestStatusPending:         models.TestStatusSampleCollected,
	models.TestStatusSampleCollected: models.TestStatusProcessing,
	models.TestStatusProcessing:      models.TestStatusResultReady,
	models.TestStatusResultReady:     models.TestStatusResultSent,
}

// ApplyTestTransition validates and applies one clinic-submitted status change
// to a test line, appending to its history ledger. It mutates the line in
// place only when the transition is legal.
func ApplyTestTransition(order *models.Order, test *models.OrderTest, newStatus models.OrderTestStatus, reason string, now time.Time) error {
	if !models.KnownTestStatuses[newStatus] {
		return exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientStatusUnknown,
			fmt.Sprintf("status %q is not a known test status", newStatus),
		)
	}

	// Policy precedes state: rejecting a mobile-money line is forbidden no
	// matter where the line currently sits.
	if newStatus == models.TestStatusRejected && order.PaymentMethod == models.PaymentMethodMobileMoney {
		return exceptions.BuildNewCustomError(nil, constvars.StatusForbidden,
			constvars.ErrClientRejectMobileMoney,
			"rejected transition forbidden on mobile money orders",
		)
	}

	if test.Status.IsTerminal() {
		return exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
			constvars.ErrClientStatusTerminal,
			fmt.Sprintf("test %s is already %s", test.TestID, test.Status),
		)
	}

	if newStatus.RequiresReason() && reason == "" {
		return exceptions.BuildNewCustomError(nil, constvars.StatusBadRequest,
			constvars.ErrClientStatusReasonRequired,
			fmt.Sprintf("transition to %s requires a reason", newStatus),
		)
	}

	switch newStatus {
	case models.TestStatusRejected:
		// policy already enforced above
	case models.TestStatusCancelled:
		if test.Status == models.TestStatusResultReady || test.Status == models.TestStatusResultSent {
			return exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
				constvars.ErrClientCancelCompletedTest,
				fmt.Sprintf("cannot cancel test %s in status %s", test.TestID, test.Status),
			)
		}
	case models.TestStatusFailed:
		// no extra policy beyond the reason requirement
	default:
		if nextStage[test.Status] != newStatus {
			return exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
				constvars.ErrClientStatusTransition,
				fmt.Sprintf("cannot move test %s from %s to %s", test.TestID, test.Status, newStatus),
			)
		}
	}

	test.Status = newStatus
	if newStatus.RequiresReason() {
		test.StatusReason = reason
	} else {
		test.StatusReason = ""
	}
	test.StatusHistory = append(test.StatusHistory, models.StatusHistoryEntry{
		Status:    newStatus,
		Timestamp: now,
	})
	return nil
}

// BackfillToResultSent advances a test line through every remaining stage up
// to result_sent, stamping each skipped stage with the same timestamp so the
// ledger stays monotonically complete. Caller must have verified the line is
// not terminal.
func BackfillToResultSent(test *models.OrderTest, now time.Time) {
	for !test.Status.IsTerminal() {
		advance, ok := nextStage[test.Status]
		if !ok {
			return
		}
		test.Status = advance
		test.StatusHistory = append(test.StatusHistory, models.StatusHistoryEntry{
			Status:    advance,
			Timestamp: now,
		})
	}
	test.StatusReason = ""
}
