package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/service"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	orderService service.OrderService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(orderService service.OrderService) *ProfileHandler {
	return &ProfileHandler{orderService: orderService}
}

// GetProfile godoc
// @Summary Get user profile with recent orders
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param email query string true "User email"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email required",
			Code:  "INVALID_INPUT",
		})
	}

	profile, err := h.orderService.GetProfile(c.Request().Context(), email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}
