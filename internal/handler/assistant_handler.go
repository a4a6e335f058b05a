package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/service"
)

// AssistantHandler handles AI assistant endpoints.
type AssistantHandler struct {
	assistantService service.AssistantService
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// GenerateRequest represents an AI generation request.
type GenerateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ServiceID   int    `json:"service_id" validate:"required"`
	ServiceName string `json:"service_name"`
	InputText   string `json:"input_text" validate:"required"`
}

// GenerateResponse represents an AI generation result.
type GenerateResponse struct {
	OrderID     string `json:"order_id"`
	Result      string `json:"result"`
	ServiceName string `json:"service_name"`
}

// Generate godoc
// @Summary Run an AI generation, debiting credits first
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateRequest true "Generation request"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /assistant [post]
func (h *AssistantHandler) Generate(c echo.Context) error {
	var req GenerateRequest
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

	order, err := h.assistantService.Generate(c.Request().Context(), req.Email, req.ServiceID, req.ServiceName, req.InputText)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, GenerateResponse{
		OrderID:     order.ID.String(),
		Result:      order.AIResult,
		ServiceName: order.ServiceName,
	})
}
