package service

import (
	"context"
	"fmt"

	"creditledger/internal/assistant"
	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
)

const (
	// Credit cost of one image render; higher than text because the
	// upstream call is priced per image, not per token.
	imageRequestCost = 2
	// Service id under which image orders appear in history.
	imageServiceID   = 21
	imageServiceName = "Image generation"
)

// ImageResult is one rendered image.
type ImageResult struct {
	OrderID       string `json:"order_id"`
	ImageURL      string `json:"image_url"`
	RevisedPrompt string `json:"revised_prompt"`
}

// ImageService proxies image generation. Like the assistant, it debits
// the ledger before the provider is invoked and records the completed
// order with the hosted URL as its result.
type ImageService interface {
	Generate(ctx context.Context, email, prompt string) (*ImageResult, error)
}

type imageService struct {
	generator assistant.ImageGenerator
	ledger    LedgerService
	orderRepo repository.OrderRepository
}

// NewImageService creates a new image service.
func NewImageService(generator assistant.ImageGenerator, ledger LedgerService, orderRepo repository.OrderRepository) ImageService {
	return &imageService{
		generator: generator,
		ledger:    ledger,
		orderRepo: orderRepo,
	}
}

// Generate debits the render cost, asks the generator for an image and
// records the completed order.
func (s *imageService) Generate(ctx context.Context, email, prompt string) (*ImageResult, error) {
	if email == "" || prompt == "" {
		return nil, fmt.Errorf("%w: email and prompt required", apperrors.ErrInvalidInput)
	}

	user, err := s.ledger.EnsureAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	// Debit first. InsufficientCredits here means no image is rendered.
	if _, err := s.ledger.AdjustBalance(ctx, email, -imageRequestCost); err != nil {
		return nil, err
	}

	url, revised, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generator %s: %w", s.generator.Name(), err)
	}

	order := &model.Order{
		UserID:      user.ID,
		ServiceID:   imageServiceID,
		ServiceName: imageServiceName,
		Plan:        "basic",
		Price:       imageRequestCost,
		InputText:   prompt,
		AIResult:    url,
		Status:      model.OrderStatusCompleted,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record image order: %w", err)
	}

	return &ImageResult{
		OrderID:       order.ID.String(),
		ImageURL:      url,
		RevisedPrompt: revised,
	}, nil
}
