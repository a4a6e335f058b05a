package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/service"
)

// PaymentHandler handles payment verification and history endpoints.
type PaymentHandler struct {
	ledger service.LedgerService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(ledger service.LedgerService) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// VerifyPaymentRequest represents a client-side payment verification call.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Amount        string `json:"amount" validate:"required"`
}

// VerifyPaymentResponse represents the result of admitting a payment.
type VerifyPaymentResponse struct {
	Status      string `json:"status"`
	TokensAdded int64  `json:"tokens_added,omitempty"`
	NewBalance  int64  `json:"new_balance,omitempty"`
}

// PaymentListResponse represents a payment history response.
type PaymentListResponse struct {
	Transactions []model.PaymentTransaction `json:"transactions"`
}

// VerifyPayment godoc
// @Summary Verify a payment and credit tokens
// @Tags payments
// @Accept json
// @Produce json
// @Param request body VerifyPaymentRequest true "Payment data"
// @Success 200 {object} VerifyPaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid amount",
			Code:  "INVALID_AMOUNT",
		})
	}

	result, err := h.ledger.ApplyExternalPayment(c.Request().Context(), req.TransactionID, req.Email, amount)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// A replay is a terminal no-op, reported as success.
	if result.AlreadyProcessed {
		return c.JSON(http.StatusOK, VerifyPaymentResponse{Status: "already_processed"})
	}

	return c.JSON(http.StatusOK, VerifyPaymentResponse{
		Status:      "success",
		TokensAdded: result.TokensAdded,
		NewBalance:  result.NewBalance,
	})
}

// PaymentStatus godoc
// @Summary Look up an accepted payment by transaction id
// @Tags payments
// @Produce json
// @Param transaction_id query string true "External transaction id"
// @Success 200 {object} model.PaymentTransaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/status [get]
func (h *PaymentHandler) PaymentStatus(c echo.Context) error {
	transactionID := c.QueryParam("transaction_id")
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "transaction_id required",
			Code:  "INVALID_INPUT",
		})
	}

	payment, err := h.ledger.GetPayment(c.Request().Context(), transactionID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, payment)
}

// ListPayments godoc
// @Summary List recent payments for a user
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param email query string true "User email"
// @Success 200 {object} PaymentListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email required",
			Code:  "INVALID_INPUT",
		})
	}

	payments, err := h.ledger.ListPayments(c.Request().Context(), email, 10)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, PaymentListResponse{Transactions: payments})
}
