package main

import (
	"log"
	"net/http"

	_ "creditledger/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"creditledger/internal/assistant"
	"creditledger/internal/auth"
	"creditledger/internal/cache"
	"creditledger/internal/config"
	"creditledger/internal/db"
	"creditledger/internal/handler"
	"creditledger/internal/model"
	"creditledger/internal/repository"
	"creditledger/internal/router"
	"creditledger/internal/service"
	"creditledger/internal/tariff"
)

// @title Credit Ledger API
// @version 1.0
// @description Credit ledger for an AI content platform: balances, idempotent payment crediting, orders and an AI assistant proxy.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PaymentTransaction{},
		&model.Order{},
		&model.ChatHistory{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	tariffs, err := tariff.Parse(cfg.TariffTable)
	if err != nil {
		log.Fatalf("tariff config: %v", err)
	}
	log.Printf("tariff packages: %v", tariffs.Prices())

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	provider := newProvider(cfg)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	ledgerService := service.NewLedgerService(userRepo, paymentRepo, txManager, tariffs, cacheClient)
	orderService := service.NewOrderService(orderRepo, ledgerService, txManager, cacheClient)
	assistantService := service.NewAssistantService(provider, ledgerService, orderRepo)
	chatService := service.NewChatService(provider, ledgerService, chatRepo)
	imageService := service.NewImageService(newImageGenerator(cfg), ledgerService, orderRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	creditsHandler := handler.NewCreditsHandler(ledgerService)
	paymentHandler := handler.NewPaymentHandler(ledgerService)
	webhookHandler := handler.NewWebhookHandler(ledgerService)
	orderHandler := handler.NewOrderHandler(orderService)
	profileHandler := handler.NewProfileHandler(orderService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	chatHandler := handler.NewChatHandler(chatService)
	imageHandler := handler.NewImageHandler(imageService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		creditsHandler,
		paymentHandler,
		webhookHandler,
		orderHandler,
		profileHandler,
		assistantHandler,
		chatHandler,
		imageHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// newProvider builds the configured AI provider, falling back to the
// loopback echo provider when no key is set so local development never
// needs real credentials.
func newProvider(cfg *config.Config) assistant.Provider {
	var (
		p   assistant.Provider
		err error
	)
	switch cfg.AIProvider {
	case "deepseek":
		p, err = assistant.NewOpenAI(assistant.OpenAIConfig{
			Name:           "deepseek",
			APIKey:         cfg.DeepSeekAPIKey,
			BaseURL:        "https://api.deepseek.com/v1",
			Model:          "deepseek-chat",
			RequestTimeout: cfg.ProviderTimeout,
		})
	case "yandexgpt", "yandex":
		p, err = assistant.NewYandex(assistant.YandexConfig{
			APIKey:         cfg.YandexAPIKey,
			FolderID:       cfg.YandexFolderID,
			RequestTimeout: cfg.ProviderTimeout,
		})
	case "gemini":
		p, err = assistant.NewGemini(assistant.GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			RequestTimeout: cfg.ProviderTimeout,
		})
	default:
		p, err = assistant.NewOpenAI(assistant.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			RequestTimeout: cfg.ProviderTimeout,
		})
	}
	if err != nil {
		log.Printf("assistant provider %q unavailable (%v), using loopback", cfg.AIProvider, err)
		return assistant.NewLoopback()
	}
	log.Printf("assistant provider: %s", p.Name())
	return p
}

// newImageGenerator builds the image provider. Images always render via
// the OpenAI API regardless of the configured chat provider; without a
// key the loopback stands in.
func newImageGenerator(cfg *config.Config) assistant.ImageGenerator {
	p, err := assistant.NewOpenAI(assistant.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		RequestTimeout: cfg.ProviderTimeout,
	})
	if err != nil {
		log.Printf("image generator unavailable (%v), using loopback", err)
		return assistant.NewLoopback()
	}
	return p
}
