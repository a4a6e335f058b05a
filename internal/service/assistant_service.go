package service

import (
	"context"
	"fmt"

	"creditledger/internal/assistant"
	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
)

// Base credit cost of one assistant request.
const assistantRequestCost = 1

// AssistantService proxies AI generation requests. It enforces the
// consumption contract: the ledger debit happens before the provider is
// invoked, and a rejected debit means no paid action is performed.
type AssistantService interface {
	Generate(ctx context.Context, email string, serviceID int, serviceName, inputText string) (*model.Order, error)
}

type assistantService struct {
	provider  assistant.Provider
	ledger    LedgerService
	orderRepo repository.OrderRepository
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(provider assistant.Provider, ledger LedgerService, orderRepo repository.OrderRepository) AssistantService {
	return &assistantService{
		provider:  provider,
		ledger:    ledger,
		orderRepo: orderRepo,
	}
}

// Generate debits the request cost, calls the configured provider and
// records the completed order with the AI result.
func (s *assistantService) Generate(ctx context.Context, email string, serviceID int, serviceName, inputText string) (*model.Order, error) {
	if email == "" || serviceID == 0 || inputText == "" {
		return nil, fmt.Errorf("%w: email, service_id and input_text required", apperrors.ErrInvalidInput)
	}

	user, err := s.ledger.EnsureAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	// Debit first. InsufficientCredits here means the provider call never
	// happens.
	if _, err := s.ledger.AdjustBalance(ctx, email, -assistantRequestCost); err != nil {
		return nil, err
	}

	result, err := s.provider.Complete(ctx, assistant.PromptFor(serviceID), inputText)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}

	order := &model.Order{
		UserID:      user.ID,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		Plan:        "basic",
		Price:       assistantRequestCost,
		InputText:   inputText,
		AIResult:    result,
		Status:      model.OrderStatusCompleted,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record assistant order: %w", err)
	}

	return order, nil
}
