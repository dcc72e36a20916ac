package config

import "time"

type InternalConfig struct {
	App        App
	JWT        AppJWT
	Fees       AppFees
	Booking    AppBooking
	PawaPay    AppPawaPay
	YellowCard AppYellowCard
	Calendar   AppCalendar
	RabbitMQ   AppRabbitMQ
}

type App struct {
	Env             string
	Port            string
	Version         string
	Timezone        string
	EndpointPrefix  string
	Currency        string
	MaxRequests     int
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

type AppJWT struct {
	Secret string
}

// AppFees carries every percentage the orchestration core applies. These are
// configuration, never literals at call sites.
type AppFees struct {
	// PlatformFeeRate is withheld from each order before crediting the clinic.
	PlatformFeeRate float64
	// WithdrawalFeeRate is charged on top of a payout's principal.
	WithdrawalFeeRate float64
	// ReconciliationTolerance absorbs rounding differences when comparing the
	// independently computed expected amount against the provider-confirmed one.
	ReconciliationTolerance float64
}

type AppBooking struct {
	// PendingPublicOrderTTLInMinutes bounds how long an unconfirmed public
	// booking is reconstructable from its staging record.
	PendingPublicOrderTTLInMinutes int
	SlotDurationInMinutes          int
}

type AppPawaPay struct {
	BaseUrl string
	ApiKey  string
	// FeeInclusive: pawaPay confirms the gross amount including its visible
	// fee, so the expected-amount comparison must apply FeeRate first.
	FeeInclusive bool
	FeeRate      float64
	Timeout      time.Duration
}

type AppYellowCard struct {
	BaseUrl   string
	ApiKey    string
	ApiSecret string
	// FeeInclusive: Yellow Card confirms the net collection amount, so the
	// expected amount is compared as computed.
	FeeInclusive bool
	FeeRate      float64
	Timeout      time.Duration
}

type AppCalendar struct {
	BaseUrl string
	ApiKey  string
	Timeout time.Duration
	// MaxRetryAttempts caps the in-request exponential backoff when event
	// creation hits the third-party API's transient failures.
	MaxRetryAttempts int
}

type AppRabbitMQ struct {
	MailerQueue       string
	NotificationQueue string
	PushQueue         string
	OperatorQueue     string
}
