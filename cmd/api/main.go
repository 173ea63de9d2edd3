package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"helperhive/internal/adapter/api"
	"helperhive/internal/adapter/api/handler"
	apimiddleware "helperhive/internal/adapter/api/middleware"
	"helperhive/internal/adapter/api/router"
	"helperhive/internal/adapter/repository"
	"helperhive/internal/infrastructure/cache"
	"helperhive/internal/infrastructure/email"
	"helperhive/internal/infrastructure/firebase"
	"helperhive/internal/infrastructure/messaging"
	"helperhive/internal/infrastructure/ratelimit"
	"helperhive/internal/infrastructure/storage"
	"helperhive/internal/infrastructure/websocket"
	"helperhive/internal/usecase"
	"helperhive/pkg/config"
	"helperhive/pkg/logger"
	"helperhive/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Init(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server stopped with error: %v", err)
		os.Exit(1)
	}
}

func credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
		return nil, err
	}
	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
}

func run(ctx context.Context, cfg *config.Config) error {
	opt, err := credentials(cfg)
	if err != nil {
		return err
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return err
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return err
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return err
	}
	defer firestoreClient.Close()

	gcsClient, err := gcs.NewClient(ctx, opt)
	if err != nil {
		return err
	}
	blobStore := storage.NewCloudStorageClient(ctx, gcsClient, cfg.StorageBucket)
	defer blobStore.Close()

	healthChecks := map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			return repository.Ping(ctx, firestoreClient)
		},
	}

	var conversationCache usecase.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		conversationCache = redisCache
		healthChecks["redis"] = redisCache.Ping
	} else {
		logger.Warn("REDIS_URL not set, using in-process cache")
		conversationCache = cache.NewMemoryCache()
	}

	var publisher usecase.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err := messaging.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	var mailer usecase.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = email.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromAddress, cfg.MailFromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, password reset emails are disabled")
	}

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	serviceRepo := repository.NewFirestoreServiceRepository(firestoreClient)
	bookingRepo := repository.NewFirestoreBookingRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	ticketRepo := repository.NewFirestoreTicketRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)
	clock := utils.SystemClock{}

	limiter := ratelimit.NewRateLimiter(ratelimit.DefaultPolicies(cfg.APIRateLimit))
	limiter.StartCleanupRoutine(30*time.Minute, ctx.Done())

	wsManager := websocket.NewManager()

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager, publisher, clock)
	useCases := handler.UseCases{
		Auth:    usecase.NewAuthUseCase(userRepo, firebaseAuthClient, mailer, clock),
		User:    usecase.NewUserUseCase(userRepo, blobStore, conversationCache, clock),
		Service: usecase.NewServiceUseCase(serviceRepo, userRepo, clock),
		Booking: usecase.NewBookingUseCase(bookingRepo, serviceRepo, userRepo, notificationUseCase, clock),
		Review:  usecase.NewReviewUseCase(reviewRepo, clock),
		Chat: usecase.NewChatUseCase(messageRepo, userRepo, conversationCache, limiter, utils.NewMonotonicClock(nil), usecase.ChatConfig{
			MaxBodyLength:  cfg.MessageBodyMaxLength,
			CounterpartTTL: cfg.ConversationCacheTTL,
		}),
		Ticket:       usecase.NewTicketUseCase(ticketRepo, userRepo, clock),
		Notification: notificationUseCase,
		Moderation:   usecase.NewModerationUseCase(userRepo, serviceRepo, ticketRepo, notificationUseCase, clock),
	}

	handler.Setup(useCases)
	handler.SetupHealthHandler(healthChecks)

	wsManager.SetHooks(handler.NewLiveHooks(useCases))
	wsManager.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger())
	e.Use(apimiddleware.Metrics)
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	} else {
		e.Use(echomiddleware.CORS())
	}

	mw := router.NewMiddlewares(
		apimiddleware.NewAuthMiddleware(firebaseAuthClient),
		apimiddleware.NewAdminMiddleware(userRepo),
		limiter,
	)
	router.Setup(e, mw, handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	wsManager.Wait()
	return err
}

func requestLogger() echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.L().Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.L().Info("request", fields...)
			return nil
		},
	})
}
