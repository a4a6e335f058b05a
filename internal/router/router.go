package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"creditledger/internal/config"
	"creditledger/internal/handler"
)

// Register wires routes and middleware.
//
// Payment admission endpoints stay public: the verify call comes from the
// checkout page and the webhook from the gateway, neither carries a JWT.
// Idempotency, not authentication, protects them from replays.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	creditsHandler *handler.CreditsHandler,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	orderHandler *handler.OrderHandler,
	profileHandler *handler.ProfileHandler,
	assistantHandler *handler.AssistantHandler,
	chatHandler *handler.ChatHandler,
	imageHandler *handler.ImageHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/credits", creditsHandler.GetCredits)
	api.POST("/payments/verify", paymentHandler.VerifyPayment)
	api.POST("/payments/webhook", webhookHandler.HandleNotification)
	api.GET("/payments/status", paymentHandler.PaymentStatus)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.POST("/credits", creditsHandler.AdjustCredits)
	secured.GET("/payments", paymentHandler.ListPayments)
	secured.POST("/orders", orderHandler.CreateOrder)
	secured.GET("/orders", orderHandler.ListOrders)
	secured.GET("/profile", profileHandler.GetProfile)
	secured.POST("/assistant", assistantHandler.Generate)
	secured.POST("/chat", chatHandler.SendMessage)
	secured.GET("/chat/history", chatHandler.GetHistory)
	secured.DELETE("/chat/history", chatHandler.DeleteChat)
	secured.POST("/images", imageHandler.GenerateImage)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
