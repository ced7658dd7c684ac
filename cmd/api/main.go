package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/middleware"
	"servicehub/internal/modules/admin"
	"servicehub/internal/modules/auth"
	"servicehub/internal/modules/booking"
	"servicehub/internal/modules/chat"
	"servicehub/internal/modules/notification"
	"servicehub/internal/modules/provider"
	"servicehub/internal/modules/realtime"
	"servicehub/internal/modules/review"
	"servicehub/internal/modules/settings"
	"servicehub/internal/modules/upload"
	jwtsvc "servicehub/internal/pkg/jwt"
	"servicehub/internal/platform/logger"
	"servicehub/internal/platform/push"
	"servicehub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Fatal("loading config", zap.Error(err))
	}

	log, err := logger.New(cfg)
	if err != nil {
		logger.NewDefault().Fatal("building logger", zap.Error(err))
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("running migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var sender push.Sender = push.Noop{}
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := push.NewFCM(context.Background(), cfg.FirebaseCredentialsFile, log)
		if err != nil {
			log.Warn("push delivery disabled", zap.Error(err))
		} else {
			sender = fcm
		}
	}

	hub := realtime.NewHub(log)
	defer hub.Close()

	settingsCache := settings.NewCache(settingsRepo)
	settingsService := settings.NewService(settingsRepo, settingsCache)

	dispatcher := notification.NewDispatcher(notifRepo, settingsCache, hub, sender, log)
	notifService := notification.NewService(notifRepo, settingsCache, dispatcher, log)

	hub.OnConnect(func(userID int64) {
		ctx := context.Background()
		if err := userRepo.SetPresence(ctx, userID, true); err != nil {
			log.Warn("presence update failed", zap.Error(err), zap.Int64("user_id", userID))
		}
		dispatcher.DispatchPending(ctx, userID)
	})
	hub.OnDisconnect(func(userID int64) {
		if err := userRepo.SetPresence(context.Background(), userID, false); err != nil {
			log.Warn("presence update failed", zap.Error(err), zap.Int64("user_id", userID))
		}
	})

	authService := auth.NewService(userRepo, jwtService, settingsCache, log)
	bookingService := booking.NewService(bookingRepo, providerRepo, userRepo, notifService, log)
	chatService := chat.NewService(messageRepo, userRepo, notifService, hub, log)
	providerService := provider.NewService(providerRepo, userRepo)
	reviewService := review.NewService(reviewRepo, bookingRepo, userRepo, notifService, log)
	adminService := admin.NewService(userRepo, notifService, log)
	uploadService := upload.NewService(uploadRepo, cfg.UploadDir, cfg.StaticBase)

	authHandler := auth.NewHandler(authService)
	bookingHandler := booking.NewHandler(bookingService)
	chatHandler := chat.NewHandler(chatService)
	providerHandler := provider.NewHandler(providerService)
	reviewHandler := review.NewHandler(reviewService)
	adminHandler := admin.NewHandler(adminService)
	notifHandler := notification.NewHandler(notifService)
	settingsHandler := settings.NewHandler(settingsService)
	uploadHandler := upload.NewHandler(uploadService)
	realtimeHandler := realtime.NewHandler(hub, jwtService, userRepo, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.Static(cfg.StaticBase, cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		realtimeHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(jwtService, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
			settingsHandler.RegisterRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			providerHandler.RegisterPublicRoutes(protected)
			reviewHandler.RegisterRoutes(protected)

			owner := protected.Group("/")
			owner.Use(middleware.ProviderOnly())
			providerHandler.RegisterOwnerRoutes(owner)

			customers := protected.Group("/")
			customers.Use(middleware.CustomerOnly())
			reviewHandler.RegisterCustomerRoutes(customers)

			admins := protected.Group("/admin")
			admins.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(admins)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
