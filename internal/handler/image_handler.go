package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creditledger/internal/errors"
	"creditledger/internal/service"
)

// ImageHandler handles image generation endpoints.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// GenerateImageRequest represents an image generation request.
type GenerateImageRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Prompt string `json:"prompt" validate:"required"`
}

// GenerateImage godoc
// @Summary Render an image, debiting credits first
// @Tags images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateImageRequest true "Image prompt"
// @Success 200 {object} service.ImageResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /images [post]
func (h *ImageHandler) GenerateImage(c echo.Context) error {
	var req GenerateImageRequest
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

	result, err := h.imageService.Generate(c.Request().Context(), req.Email, req.Prompt)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, result)
}
