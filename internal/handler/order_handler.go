package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents a new paid order.
type CreateOrderRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ServiceID   int    `json:"service_id" validate:"required"`
	ServiceName string `json:"service_name"`
	Plan        string `json:"plan"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	InputText   string `json:"input_text"`
}

// CreateOrderResponse represents an accepted order.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// OrderListResponse represents an order history response.
type OrderListResponse struct {
	Orders []model.Order `json:"orders"`
}

// CreateOrder godoc
// @Summary Create a paid order, debiting credits
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 200 {object} CreateOrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
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

	order, err := h.orderService.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		Email:       req.Email,
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		Plan:        req.Plan,
		Price:       req.Price,
		InputText:   req.InputText,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CreateOrderResponse{
		OrderID: order.ID.String(),
		UserID:  order.UserID.String(),
		Status:  string(order.Status),
	})
}

// ListOrders godoc
// @Summary List order history for a user
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param email query string true "User email"
// @Success 200 {object} OrderListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email required",
			Code:  "INVALID_INPUT",
		})
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), email, 100)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, OrderListResponse{Orders: orders})
}
