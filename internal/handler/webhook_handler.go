package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"creditledger/internal/errors"
	"creditledger/internal/service"
)

// WebhookHandler receives payment-gateway notifications. The gateway
// retries until it sees 200, so every terminal outcome answers 200 with
// a status discriminator; only store failures answer 5xx to trigger a
// retry, which is safe because admission is idempotent.
type WebhookHandler struct {
	ledger service.LedgerService
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(ledger service.LedgerService) *WebhookHandler {
	return &WebhookHandler{ledger: ledger}
}

// GatewayNotification is the gateway's webhook payload shape.
type GatewayNotification struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value string `json:"value"`
		} `json:"amount"`
		Metadata struct {
			Email string `json:"email"`
		} `json:"metadata"`
	} `json:"object"`
}

// WebhookResponse reports the notification outcome.
type WebhookResponse struct {
	Status      string `json:"status"`
	TokensAdded int64  `json:"tokens_added,omitempty"`
	NewBalance  int64  `json:"new_balance,omitempty"`
}

// HandleNotification godoc
// @Summary Process a payment gateway webhook
// @Tags payments
// @Accept json
// @Produce json
// @Param request body GatewayNotification true "Gateway notification"
// @Success 200 {object} WebhookResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /payments/webhook [post]
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
	var n GatewayNotification
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusOK, WebhookResponse{Status: "invalid"})
	}

	if n.Event != "payment.succeeded" {
		return c.JSON(http.StatusOK, WebhookResponse{Status: "ignored"})
	}

	email := n.Object.Metadata.Email
	if n.Object.Status != "succeeded" || email == "" || n.Object.ID == "" {
		return c.JSON(http.StatusOK, WebhookResponse{Status: "invalid"})
	}

	amount, err := decimal.NewFromString(n.Object.Amount.Value)
	if err != nil {
		return c.JSON(http.StatusOK, WebhookResponse{Status: "invalid"})
	}

	result, err := h.ledger.ApplyExternalPayment(c.Request().Context(), n.Object.ID, email, amount)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnknownPackage) {
			return c.JSON(http.StatusOK, WebhookResponse{Status: "unknown_package"})
		}
		// Store failure: let the gateway retry; idempotency absorbs it.
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if result.AlreadyProcessed {
		return c.JSON(http.StatusOK, WebhookResponse{Status: "already_processed"})
	}

	return c.JSON(http.StatusOK, WebhookResponse{
		Status:      "success",
		TokensAdded: result.TokensAdded,
		NewBalance:  result.NewBalance,
	})
}
