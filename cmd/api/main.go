package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trilha-futuro/internal/config"
	"trilha-futuro/internal/db"
	"trilha-futuro/internal/email"
	apihttp "trilha-futuro/internal/http"
	"trilha-futuro/internal/logging"
	"trilha-futuro/internal/monitoring"
	"trilha-futuro/internal/repository"
	"trilha-futuro/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg)
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	quizRepo := repository.NewPgQuizResultRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)
	conversationRepo := repository.NewPgConversationRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPass,
			From:        cfg.SMTPFrom,
			FromName:    cfg.SMTPFromName,
			ImplicitTLS: cfg.SMTPUseTLS,
		})
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	authLimiter := service.NewMemoryRateLimiter(time.Minute, cfg.AuthRatePerMinute)
	chatLimiter := service.NewMemoryRateLimiter(time.Minute, cfg.ChatRatePerMinute)
	var sessions service.SessionStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiters and sessions", zap.Error(err))
		} else {
			authLimiter = service.NewRedisRateLimiter(redisClient, logger, "rl:auth:", time.Minute, cfg.AuthRatePerMinute)
			chatLimiter = service.NewRedisRateLimiter(redisClient, logger, "rl:chat:", time.Minute, cfg.ChatRatePerMinute)
			sessions = service.NewRedisSessionStore(redisClient)
		}
		cancel()
	}

	jwtSvc, err := service.NewJWTService(service.JWTOptions{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.JWTAccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWTRefreshTTLMinutes) * time.Minute,
	}, sessions)
	if err != nil {
		logger.Fatal("jwt init", zap.Error(err))
	}

	metrics := monitoring.New()
	userSvc := service.NewUserService(logger, userRepo, emailSender)
	quizSvc := service.NewQuizService(quizRepo, metrics, logger)
	chatSvc := service.NewChatService(conversationRepo, metrics, logger)
	feedbackSvc := service.NewFeedbackService(feedbackRepo)
	statsSvc := service.NewStatsService(userRepo, quizRepo, feedbackRepo, conversationRepo, logger)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:             logger,
		JWT:                jwtSvc,
		Metrics:            metrics,
		User:               apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Quiz:               apihttp.NewQuizHandler(logger, quizSvc),
		Chat:               apihttp.NewChatHandler(logger, chatSvc),
		Feedback:           apihttp.NewFeedbackHandler(logger, feedbackSvc),
		Stats:              apihttp.NewStatsHandler(logger, statsSvc, userSvc),
		Health:             apihttp.NewHealthHandler(logger, pool),
		AuthLimiter:        authLimiter,
		ChatLimiter:        chatLimiter,
		GlobalRatePerHour:  cfg.GlobalRatePerHour,
		GlobalRatePerDay:   cfg.GlobalRatePerDay,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
