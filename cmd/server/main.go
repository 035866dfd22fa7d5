package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/api"
	"github.com/riquemorozine/containers-api/internal/config"
	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/events"
	"github.com/riquemorozine/containers-api/internal/middleware"
	"github.com/riquemorozine/containers-api/pkg/cache"
	"github.com/riquemorozine/containers-api/pkg/messagequeue"
)

func main() {
	// --- Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// --- Logger ---
	var logger *zap.Logger
	if strings.EqualFold(appConfig.GinMode, "release") {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// --- Firebase Admin SDK (Firestore + Auth) ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		logger.Fatal("failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	logger.Info("Firestore and Firebase Auth clients initialized")

	// --- Repositories and unit-of-work runner ---
	txRunner := db.NewFirestoreTxRunner(firestoreClient)
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	containerRepo := db.NewFirestoreContainerRepository(firestoreClient)
	folderRepo := db.NewFirestoreFolderRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	membershipLookup := db.NewMembershipLookup(firestoreClient)

	// --- Optional guard cache (Redis) ---
	var guardCache cache.Cache
	if appConfig.RedisAddress != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		guardCache = redisCache
		logger.Info("membership guard cache enabled", zap.String("address", appConfig.RedisAddress))
	} else {
		logger.Warn("REDIS_ADDRESS not configured; role guard will hit the store on every request")
	}

	// --- Optional event publisher (RabbitMQ) ---
	eventPublisher := events.NewNopPublisher()
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(appConfig.RabbitMQURL)
		if err != nil {
			logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mq.Close()
		eventPublisher = events.NewPublisher(mq)
		logger.Info("domain event publisher enabled", zap.String("queue", events.QueueName))
	} else {
		logger.Warn("RABBITMQ_URL not configured; domain events will be dropped")
	}

	// --- Services ---
	auditService := core.NewAuditService(auditRepo)
	userService := core.NewUserService(userRepo)
	containerService := core.NewContainerService(
		txRunner, containerRepo, userRepo, folderRepo, auditService, eventPublisher, logger)
	folderService := core.NewFolderService(txRunner, containerRepo, folderRepo, auditService, logger)

	// --- HTTP engine ---
	if strings.EqualFold(appConfig.GinMode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
	} else {
		logger.Warn("CLIENT_URL not configured; CORS middleware skipped")
	}

	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)
	roleGuard := middleware.NewRoleGuard(membershipLookup, guardCache, logger)
	api.SetupRoutes(router, logger, authMW, roleGuard, userService, containerService, folderService)

	// --- Server with graceful shutdown ---
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shut down", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
