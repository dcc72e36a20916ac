package constvars

// Client-facing messages. These are the only error strings end users see.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process the request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again"

	ErrClientCartEmpty                 = "Your cart is empty"
	ErrClientCartItemNotFound          = "Cart item not found"
	ErrClientClinicNotFound            = "Clinic not found"
	ErrClientPatientNotFound           = "Patient not found"
	ErrClientTestNotFound              = "Test not found"
	ErrClientOrderNotFound             = "Order not found"
	ErrClientOrderTestNotFound         = "Test not found on this order"
	ErrClientClinicOffline             = "This clinic is currently not accepting orders"
	ErrClientDeliveryMethodUnsupported = "This clinic does not support the selected delivery method"
	ErrClientClinicClosedOnDay         = "The clinic is closed on the selected day"
	ErrClientOutsideOpeningHours       = "The selected time is outside the clinic's opening hours"
	ErrClientSlotTaken                 = "The selected time slot is no longer available"

	ErrClientStatusUnknown          = "Unknown test status"
	ErrClientStatusTerminal         = "This test is already in a final status"
	ErrClientStatusTransition       = "This status change is not allowed from the test's current status"
	ErrClientStatusReasonRequired   = "A reason is required for this status"
	ErrClientRejectMobileMoney      = "Tests paid via mobile money cannot be rejected"
	ErrClientCancelCompletedTest    = "A completed test cannot be cancelled"
	ErrClientResultAlreadyUploaded  = "A result has already been uploaded for this test"
	ErrClientResultTerminalStatus   = "A result cannot be uploaded for a test in a terminal status"
	ErrClientBookingNotFound        = "No booking found for this test"
	ErrClientInsufficientBalance    = "Insufficient balance for this withdrawal"
	ErrClientInsufficientCredits    = "You do not have enough subscription credits for this order"
	ErrClientInsuranceNotCovered    = "Your insurance does not cover this order"
	ErrClientPayerPhoneRequired     = "A mobile money phone number is required for this payment method"
	ErrClientInvalidScheduledAt     = "The requested time slot is not a valid timestamp"
	ErrClientDiscountInvalid        = "This discount code is not valid"
	ErrClientPaymentInitiateFailed  = "Could not initiate the payment, please try again"
	ErrClientPaymentProviderTimeout = "The payment provider took too long to respond, please try again"
	ErrClientPendingOrderNotFound   = "This booking could not be found or has expired"
)

// Dev-facing messages logged alongside the wrapped error.
const (
	ErrDevValidationFailed         = "request validation failed"
	ErrDevInvalidInput             = "invalid input"
	ErrDevInvalidRequestPayload    = "invalid request payload"
	ErrDevCannotParseJSON          = "failed to parse JSON body"
	ErrDevCannotMarshalJSON        = "failed to marshal JSON"
	ErrDevMissingRequestID         = "request id missing from context"
	ErrDevServerDeadlineExceeded   = "deadline exceeded while processing request"
	ErrDevURLParamMissing          = "missing URL parameter: %s"
	ErrDevDBFailedToFindDocument   = "mongodb: failed to find document"
	ErrDevDBFailedToInsertDocument = "mongodb: failed to insert document"
	ErrDevDBFailedToUpdateDocument = "mongodb: failed to update document"
	ErrDevDBFailedToDeleteDocument = "mongodb: failed to delete document"
	ErrDevDBFailedToIterateCursor  = "mongodb: failed to iterate cursor"
	ErrDevDBNotObjectID            = "mongodb: string is not a valid object id"
	ErrDevDBTransactionFailed      = "mongodb: transaction failed"
	ErrDevRedisSetData             = "redis: failed to set data"
	ErrDevRedisGetData             = "redis: failed to get data"
	ErrDevRedisDeleteData          = "redis: failed to delete data"
	ErrDevMinioFailedToPutObject   = "minio: failed to put object into bucket %s"
	ErrDevMinioFailedToStatObject  = "minio: failed to stat object in bucket %s"
	ErrDevProviderRequestFailed    = "payment provider %s: request failed"
	ErrDevProviderBadStatus        = "payment provider %s: unexpected response status %d"
	ErrDevAmqpPublishFailed        = "rabbitmq: failed to publish message"
)
