package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequestKey       = "request"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingPatientIDKey     = "patient_id"
	LoggingClinicIDKey      = "clinic_id"
	LoggingOrderIDKey       = "order_id"
	LoggingOrderCodeKey     = "order_code"
	LoggingTestIDKey        = "test_id"
	LoggingProviderKey      = "provider"
	LoggingProviderRefKey   = "provider_reference"
	LoggingPaymentStatusKey = "payment_status"
	LoggingWithdrawalIDKey  = "withdrawal_id"
	LoggingAmountKey        = "amount"
	LoggingExpectedKey      = "expected_amount"
	LoggingConfirmedKey     = "confirmed_amount"
	LoggingAttemptKey       = "attempt"
	LoggingCartItemIDKey    = "cart_item_id"
	LoggingTemplateKey      = "template"
)
