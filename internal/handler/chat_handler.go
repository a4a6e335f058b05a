package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/service"
)

// ChatHandler handles conversational chat endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest represents one chat message.
type ChatRequest struct {
	Email   string `json:"email" validate:"required,email"`
	ChatID  string `json:"chat_id"`
	Message string `json:"message" validate:"required"`
}

// ChatResponse represents the assistant's reply.
type ChatResponse struct {
	ChatID   string              `json:"chat_id"`
	Reply    string              `json:"reply"`
	Messages []model.ChatMessage `json:"messages"`
}

// ChatListResponse represents a chat listing.
type ChatListResponse struct {
	Chats []model.ChatHistory `json:"chats"`
}

// SendMessage godoc
// @Summary Send a chat message, debiting credits
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Chat message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req ChatRequest
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

	chat, reply, err := h.chatService.SendMessage(c.Request().Context(), req.Email, req.ChatID, req.Message)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	turns, err := chat.Turns()
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ChatResponse{
		ChatID:   chat.ChatID,
		Reply:    reply,
		Messages: turns,
	})
}

// GetHistory godoc
// @Summary List chats, or fetch one chat with its messages
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param email query string true "User email"
// @Param chat_id query string false "Chat id; omit to list all chats"
// @Success 200 {object} ChatListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chat/history [get]
func (h *ChatHandler) GetHistory(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email required",
			Code:  "INVALID_INPUT",
		})
	}

	if chatID := c.QueryParam("chat_id"); chatID != "" {
		chat, err := h.chatService.GetChat(c.Request().Context(), email, chatID)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return c.JSON(http.StatusOK, chat)
	}

	chats, err := h.chatService.ListChats(c.Request().Context(), email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ChatListResponse{Chats: chats})
}

// DeleteChat godoc
// @Summary Delete one chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param email query string true "User email"
// @Param chat_id query string true "Chat id"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Router /chat/history [delete]
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	email := c.QueryParam("email")
	chatID := c.QueryParam("chat_id")
	if email == "" || chatID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email and chat_id required",
			Code:  "INVALID_INPUT",
		})
	}

	if err := h.chatService.DeleteChat(c.Request().Context(), email, chatID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
