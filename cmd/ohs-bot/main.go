package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ohs-consultant/internal/api"
	"ohs-consultant/internal/api/handlers"
	"ohs-consultant/internal/bot"
	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/ratelimit"
	"ohs-consultant/internal/repository"
	"ohs-consultant/internal/service"
	"ohs-consultant/pkg/auth"
	"ohs-consultant/pkg/config"
	"ohs-consultant/pkg/logger"
	"ohs-consultant/pkg/middleware"
	"ohs-consultant/pkg/postgres"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// @title OHS Consultant Admin API
// @version 1.0
// @description Панель администратора консультанта по охране труда

// @host localhost:8000
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Development); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}
	appLogger.Info("Starting OHS consultant",
		zap.String("ai_provider", cfg.App.AIProvider),
		zap.String("faq_source", cfg.Knowledge.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to prepare schema", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	messageRepo := repository.NewMessageRepository(db, appLogger)
	queryRepo := repository.NewQueryRepository(db, appLogger)
	settingRepo := repository.NewSettingRepository(db, appLogger)
	auditRepo := repository.NewAuditRepository(db, appLogger)
	faqRepo := repository.NewFAQRepository(db, appLogger)

	// Rate limiter
	limiter := ratelimit.New(logger.Component("ratelimit"))
	go limiter.RunSweeper(ctx, cfg.RateLimit.SweepInterval, cfg.RateLimit.SweepDays)

	// Knowledge base
	var source knowledge.Source = knowledge.NewFileSource(cfg.Knowledge.FilePath)
	if cfg.Knowledge.Source == "database" {
		source = knowledge.NewRepositorySource(faqRepo)
	}
	kbLogger := logger.Component("knowledge")
	kb := knowledge.New(ctx, source, knowledge.NewHTTPChecker(cfg.Knowledge.URLCheckTimeout, kbLogger), kbLogger)

	// AI provider
	provider, err := service.NewAIProvider(cfg, logger.Component("ai"))
	if err != nil {
		appLogger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	defer provider.Close()

	// Initialize services
	auditService := service.NewAuditService(auditRepo, appLogger)
	consultation := service.NewConsultationService(service.ConsultationDeps{
		Users:      userRepo,
		Messages:   messageRepo,
		Queries:    queryRepo,
		Audit:      auditService,
		Knowledge:  kb,
		Limiter:    limiter,
		Provider:   provider,
		MaxHistory: cfg.App.MaxHistoryLength,
		// queries feed the admin statistics only
		RecordQueries: cfg.App.EnableStatistics,
	}, logger.Component("consultation"))
	statsService := service.NewStatsService(userRepo, queryRepo, kb, limiter, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	authService, err := service.NewAuthService(cfg.Server.AdminUsername, cfg.Server.AdminSecret, jwtManager, auditService, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize admin auth", zap.Error(err))
	}

	// Admin HTTP panel
	httpLogger := logger.Component("http")
	throttle := middleware.NewThrottle(cfg.Server.RatePerMinute, cfg.Server.RateBurst, time.Minute)
	defer throttle.Close()

	app := api.SetupRouter(api.Handlers{
		Auth: handlers.NewAuthHandler(authService, httpLogger),
		Admin: handlers.NewAdminHandler(handlers.AdminDeps{
			Stats:     statsService,
			Users:     userRepo,
			Settings:  settingRepo,
			Audit:     auditService,
			Knowledge: kb,
			Limiter:   limiter,
		}, httpLogger),
		Health: handlers.NewHealthHandler(db, kb),
	}, jwtManager, throttle, httpLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Admin server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Error("Admin server failed", zap.Error(err))
			stop()
		}
	}()

	// Telegram bot
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		appLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	botAPI.Debug = cfg.App.Debug
	appLogger.Info("Authorized on Telegram", zap.String("bot", botAPI.Self.UserName))

	telegramBot := bot.New(bot.Deps{
		Sender:     botAPI,
		Consultant: consultation,
		Limiter:    limiter,
		Knowledge:  kb,
		Users:      userRepo,
		Audit:      auditService,
		IsAdmin:    cfg.Server.IsAdmin,
	}, logger.Component("bot"))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.PollTimeout
	updates := botAPI.GetUpdatesChan(u)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		telegramBot.Run(ctx, updates)
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	botAPI.StopReceivingUpdates()
	wg.Wait()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Admin server shutdown error", zap.Error(err))
	}
}
