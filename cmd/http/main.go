package main

import (
	"context"
	"klinipay-service/internal/app/config"
	"klinipay-service/internal/app/delivery/http/controllers"
	"klinipay-service/internal/app/delivery/http/middlewares"
	"klinipay-service/internal/app/delivery/http/routers"
	"klinipay-service/internal/app/drivers/database"
	"klinipay-service/internal/app/drivers/logger"
	"klinipay-service/internal/app/drivers/messaging"
	"klinipay-service/internal/app/services/billing"
	"klinipay-service/internal/app/services/collections"
	"klinipay-service/internal/app/services/payments"
	"klinipay-service/internal/app/services/shared/eventqueue"
	"klinipay-service/internal/app/services/shared/locker"
	"klinipay-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		zapLogger.Sugar().Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConn := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQConn,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Sugar().Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Sugar().Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(); err != nil {
		logrus.Printf("Error during resource shutdown: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	eventQueue, err := eventqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger)
	if err != nil {
		bootstrap.Logger.Sugar().Fatalf("Failed to initialize payment event queue: %v", err)
	}

	// Backend clients
	billRegistryClient := billing.NewBillRegistryClient(bootstrap.InternalConfig.Billing.BaseUrl, bootstrap.Logger)
	paymentSessionClient := payments.NewPaymentSessionClient(bootstrap.InternalConfig.Payment.BaseUrl, bootstrap.Logger)

	// Collection workflow
	collectionUsecase := collections.NewCollectionUsecase(
		billRegistryClient,
		paymentSessionClient,
		lockerService,
		eventQueue,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	collectionController := controllers.NewCollectionController(bootstrap.Logger, collectionUsecase)
	bootstrap.WorkflowStop = collectionUsecase.Shutdown

	// Delivery
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, collectionController)
}
