package config

import (
	"clinirun-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "clinirun"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "results"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "smtp_host"),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", ""),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:             utils.GetEnvString("APP_ENV", "development"),
			Port:            utils.GetEnvString("APP_PORT", ":8080"),
			Version:         utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:        utils.GetEnvString("APP_TIMEZONE", "Africa/Lusaka"),
			EndpointPrefix:  utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			Currency:        utils.GetEnvString("APP_CURRENCY", "ZMW"),
			MaxRequests:     utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeout: utils.GetEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  utils.GetEnvDuration("APP_REQUEST_TIMEOUT", 10*time.Second),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Fees: AppFees{
			PlatformFeeRate:         utils.GetEnvFloat("FEES_PLATFORM_RATE", 0.10),
			WithdrawalFeeRate:       utils.GetEnvFloat("FEES_WITHDRAWAL_RATE", 0.02),
			ReconciliationTolerance: utils.GetEnvFloat("FEES_RECONCILIATION_TOLERANCE", 0.01),
		},
		Booking: AppBooking{
			PendingPublicOrderTTLInMinutes: utils.GetEnvInt("BOOKING_PENDING_PUBLIC_ORDER_TTL_IN_MINUTES", 30),
			SlotDurationInMinutes:          utils.GetEnvInt("BOOKING_SLOT_DURATION_IN_MINUTES", 30),
		},
		PawaPay: AppPawaPay{
			BaseUrl:      utils.GetEnvString("PAWAPAY_BASE_URL", "https://api.sandbox.pawapay.cloud"),
			ApiKey:       utils.GetEnvString("PAWAPAY_API_KEY", ""),
			FeeInclusive: utils.GetEnvBool("PAWAPAY_FEE_INCLUSIVE", true),
			FeeRate:      utils.GetEnvFloat("PAWAPAY_FEE_RATE", 0.025),
			Timeout:      utils.GetEnvDuration("PAWAPAY_TIMEOUT", 10*time.Second),
		},
		YellowCard: AppYellowCard{
			BaseUrl:      utils.GetEnvString("YELLOWCARD_BASE_URL", "https://sandbox.api.yellowcard.io"),
			ApiKey:       utils.GetEnvString("YELLOWCARD_API_KEY", ""),
			ApiSecret:    utils.GetEnvString("YELLOWCARD_API_SECRET", ""),
			FeeInclusive: utils.GetEnvBool("YELLOWCARD_FEE_INCLUSIVE", false),
			FeeRate:      utils.GetEnvFloat("YELLOWCARD_FEE_RATE", 0),
			Timeout:      utils.GetEnvDuration("YELLOWCARD_TIMEOUT", 10*time.Second),
		},
		Calendar: AppCalendar{
			BaseUrl:          utils.GetEnvString("CALENDAR_BASE_URL", "http://localhost:7000"),
			ApiKey:           utils.GetEnvString("CALENDAR_API_KEY", ""),
			Timeout:          utils.GetEnvDuration("CALENDAR_TIMEOUT", 10*time.Second),
			MaxRetryAttempts: utils.GetEnvInt("CALENDAR_MAX_RETRY_ATTEMPTS", 3),
		},
		RabbitMQ: AppRabbitMQ{
			MailerQueue:       utils.GetEnvString("APP_RABBITMQ_MAILER_QUEUE", "mailer"),
			NotificationQueue: utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "notifications"),
			PushQueue:         utils.GetEnvString("APP_RABBITMQ_PUSH_QUEUE", "push"),
			OperatorQueue:     utils.GetEnvString("APP_RABBITMQ_OPERATOR_QUEUE", "operator_alerts"),
		},
	}
}
