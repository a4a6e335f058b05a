package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/service"
)

// CreditsHandler handles credit balance endpoints.
type CreditsHandler struct {
	ledger service.LedgerService
}

// NewCreditsHandler creates a new credits handler.
func NewCreditsHandler(ledger service.LedgerService) *CreditsHandler {
	return &CreditsHandler{ledger: ledger}
}

// CreditsResponse represents a credit balance response.
type CreditsResponse struct {
	Credits int64 `json:"credits"`
}

// AdjustCreditsRequest represents a balance adjustment request. Amount is
// signed: positive credits, negative debits. Zero is rejected.
type AdjustCreditsRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Amount int64  `json:"amount" validate:"required"`
}

// GetCredits godoc
// @Summary Get credit balance by email
// @Tags credits
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} CreditsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /credits [get]
func (h *CreditsHandler) GetCredits(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email required",
			Code:  "INVALID_INPUT",
		})
	}

	// An unknown email is a fresh zero-balance user, not a 404.
	credits, err := h.ledger.GetBalance(c.Request().Context(), email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CreditsResponse{Credits: credits})
}

// AdjustCredits godoc
// @Summary Apply a signed credit adjustment
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdjustCreditsRequest true "Adjustment data"
// @Success 200 {object} CreditsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /credits [post]
func (h *CreditsHandler) AdjustCredits(c echo.Context) error {
	var req AdjustCreditsRequest
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

	newBalance, err := h.ledger.AdjustBalance(c.Request().Context(), req.Email, req.Amount)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CreditsResponse{Credits: newBalance})
}
