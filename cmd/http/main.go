package main

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/delivery/http/controllers"
	"clinirun-service/internal/app/delivery/http/middlewares"
	"clinirun-service/internal/app/delivery/http/routers"
	"clinirun-service/internal/app/drivers/database"
	"clinirun-service/internal/app/drivers/logger"
	mailerdriver "clinirun-service/internal/app/drivers/mailer"
	"clinirun-service/internal/app/drivers/messaging"
	"clinirun-service/internal/app/drivers/storage"
	"clinirun-service/internal/app/services/core/carts"
	"clinirun-service/internal/app/services/core/clinics"
	"clinirun-service/internal/app/services/core/orders"
	"clinirun-service/internal/app/services/core/pendingorders"
	"clinirun-service/internal/app/services/core/schedule"
	"clinirun-service/internal/app/services/core/webhooks"
	"clinirun-service/internal/app/services/core/withdrawals"
	"clinirun-service/internal/app/services/shared/calendar"
	"clinirun-service/internal/app/services/shared/mailer"
	"clinirun-service/internal/app/services/shared/notifications"
	"clinirun-service/internal/app/services/shared/paymentgateway"
	redisrepo "clinirun-service/internal/app/services/shared/redis"
	sharedstorage "clinirun-service/internal/app/services/shared/storage"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("failed loading timezone", zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	bootstrapTheApp(bootstrap, minioClient, workerCtx)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("addr", internalConfig.App.Port))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		internalConfig.App.ShutdownTimeout,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	stopWorkers()

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("error closing dependencies", zap.Error(err))
	}

	log.Info("server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap, minioClient *minio.Client, workerCtx context.Context) {
	// Shared infrastructure
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)

	notificationPublisher, err := notifications.NewNotificationService(bootstrap.RabbitMQ, bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		bootstrap.Logger.Fatal("failed creating notification publisher", zap.Error(err))
	}

	emailService, err := mailer.NewMailerService(bootstrap.RabbitMQ, bootstrap.InternalConfig.RabbitMQ.MailerQueue)
	if err != nil {
		bootstrap.Logger.Fatal("failed creating mailer service", zap.Error(err))
	}

	smtpClient := mailerdriver.NewSMTPClient(bootstrap.DriverConfig)
	mailDispatcher, err := mailer.NewMailDispatcher(bootstrap.RabbitMQ, bootstrap.InternalConfig.RabbitMQ.MailerQueue, smtpClient, bootstrap.Logger)
	if err != nil {
		bootstrap.Logger.Fatal("failed creating mail dispatcher", zap.Error(err))
	}
	go func() {
		if err := mailDispatcher.Start(workerCtx); err != nil {
			bootstrap.Logger.Error("mail dispatcher stopped", zap.Error(err))
		}
	}()

	resultStore := sharedstorage.NewMinioResultStore(minioClient, bootstrap.DriverConfig)
	calendarService := calendar.NewCalendarService(bootstrap.InternalConfig)
	pawaPay := paymentgateway.NewPawaPayService(bootstrap.InternalConfig, bootstrap.Logger)
	yellowCard := paymentgateway.NewYellowCardService(bootstrap.InternalConfig, bootstrap.Logger)

	// Repositories
	dbName := bootstrap.DriverConfig.MongoDB.DbName
	cartItemRepository := carts.NewCartItemMongoRepository(bootstrap.MongoDB, dbName)
	clinicRepository := clinics.NewClinicMongoRepository(bootstrap.MongoDB, dbName)
	patientRepository := clinics.NewPatientMongoRepository(bootstrap.MongoDB, dbName)
	labTestRepository := clinics.NewLabTestMongoRepository(bootstrap.MongoDB, dbName)
	orderRepository := orders.NewOrderMongoRepository(bootstrap.MongoDB, dbName)
	withdrawalRepository := withdrawals.NewWithdrawalMongoRepository(bootstrap.MongoDB, dbName)
	slotRepository := schedule.NewSlotOccupancyMongoRepository(bootstrap.MongoDB, dbName)
	discountRepository := carts.NewDiscountMongoRepository(bootstrap.MongoDB, dbName)
	pendingStore := pendingorders.NewPendingPublicOrderStore(redisRepository, bootstrap.InternalConfig)

	// Domain services
	discountService := carts.NewDiscountService(discountRepository, cartItemRepository, bootstrap.Logger)
	cartGrouper := carts.NewCartGrouper(cartItemRepository, labTestRepository, discountService, bootstrap.Logger)
	scheduleValidator := schedule.NewScheduleValidator(clinicRepository, slotRepository, bootstrap.Logger)
	materializer := orders.NewOrderMaterializer(
		orderRepository,
		cartItemRepository,
		clinicRepository,
		patientRepository,
		labTestRepository,
		notificationPublisher,
		notificationPublisher,
		emailService,
		calendarService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	checkoutUsecase := orders.NewCheckoutUsecase(
		cartGrouper,
		scheduleValidator,
		patientRepository,
		labTestRepository,
		discountService,
		materializer,
		pendingStore,
		pawaPay,
		yellowCard,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	orderUsecase := orders.NewOrderUsecase(
		orderRepository,
		patientRepository,
		scheduleValidator,
		resultStore,
		notificationPublisher,
		emailService,
		bootstrap.Logger,
	)
	withdrawalUsecase := withdrawals.NewWithdrawalUsecase(
		withdrawalRepository,
		clinicRepository,
		notificationPublisher,
		notificationPublisher,
		pawaPay,
		yellowCard,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	webhookUsecase := webhooks.NewWebhookUsecase(
		orderRepository,
		cartGrouper,
		pendingStore,
		materializer,
		withdrawalUsecase,
		notificationPublisher,
		notificationPublisher,
		emailService,
		redisRepository,
		pawaPay,
		yellowCard,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Delivery
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	checkoutController := controllers.NewCheckoutController(bootstrap.Logger, checkoutUsecase)
	orderController := controllers.NewOrderController(bootstrap.Logger, orderUsecase)
	withdrawalController := controllers.NewWithdrawalController(bootstrap.Logger, withdrawalUsecase)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, webhookUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		appMiddlewares,
		checkoutController,
		orderController,
		withdrawalController,
		webhookController,
	)
}
