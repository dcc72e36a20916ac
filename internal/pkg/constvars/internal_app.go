package constvars

// Mongo collection names.
const (
	MongoCollectionOrders      = "orders"
	MongoCollectionCartItems   = "cart_items"
	MongoCollectionClinics     = "clinics"
	MongoCollectionPatients    = "patients"
	MongoCollectionLabTests    = "lab_tests"
	MongoCollectionWithdrawals = "withdrawals"
	MongoCollectionDiscounts   = "discounts"
	MongoCollectionCounters    = "counters"
	MongoCollectionResults     = "results"
	MongoCollectionOrderAudits = "order_audits"
)

// Redis key prefixes.
const (
	RedisKeyPendingPublicOrder = "pending_public_order:"
	RedisKeyWebhookLock        = "webhook_lock:"
)

// Notification categories published to the dispatch queues.
const (
	NotificationCategoryOrder      = "order"
	NotificationCategoryPayment    = "payment"
	NotificationCategoryTestStatus = "test_status"
	NotificationCategoryWithdrawal = "withdrawal"
	NotificationCategoryAlert      = "alert"
)

// Payment providers known to the platform.
const (
	ProviderPawaPay    = "pawapay"
	ProviderYellowCard = "yellowcard"
)

// PawaPay deposit/payout statuses as delivered on its webhook.
const (
	PawaPayStatusAccepted  = "ACCEPTED"
	PawaPayStatusEnqueued  = "ENQUEUED"
	PawaPayStatusCompleted = "COMPLETED"
	PawaPayStatusFailed    = "FAILED"
	PawaPayStatusRejected  = "REJECTED"
)

// Yellow Card collection statuses as delivered on its webhook.
const (
	YellowCardStatusCreated         = "created"
	YellowCardStatusPendingApproval = "pending_approval"
	YellowCardStatusProcessing      = "processing"
	YellowCardStatusComplete        = "complete"
	YellowCardStatusFailed          = "failed"
	YellowCardStatusRejected        = "rejected"
	YellowCardStatusExpired         = "expired"
)
