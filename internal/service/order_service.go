package service

import (
	"context"
	"fmt"

	"creditledger/internal/cache"
	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
)

// Profile bundles a user with their recent order history.
type Profile struct {
	User        *model.User   `json:"user"`
	Orders      []model.Order `json:"orders"`
	TotalOrders int           `json:"total_orders"`
}

// CreateOrderInput carries the fields for a new paid order.
type CreateOrderInput struct {
	Email       string
	ServiceID   int
	ServiceName string
	Plan        string
	Price       int64
	InputText   string
}

// OrderService handles AI-service orders. Every paid order debits the
// ledger before the order row is written; a rejected debit aborts the
// order entirely.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	ListOrders(ctx context.Context, email string, limit int) ([]model.Order, error)
	GetProfile(ctx context.Context, email string) (*Profile, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	ledger    LedgerService
	txManager repository.TxManager
	cache     *cache.Client
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, ledger LedgerService, txManager repository.TxManager, cache *cache.Client) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		ledger:    ledger,
		txManager: txManager,
		cache:     cache,
	}
}

// CreateOrder ensures the account, then debits the credit cost and
// records the order as paid inside one transaction: a failed insert
// rolls the debit back, a rejected debit writes nothing.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if in.Email == "" || in.ServiceID == 0 || in.Price <= 0 {
		return nil, fmt.Errorf("%w: email, service_id and price required", apperrors.ErrInvalidInput)
	}
	if in.Plan == "" {
		in.Plan = "basic"
	}

	user, err := s.ledger.EnsureAccount(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	order := &model.Order{
		UserID:      user.ID,
		ServiceID:   in.ServiceID,
		ServiceName: in.ServiceName,
		Plan:        in.Plan,
		Price:       in.Price,
		InputText:   in.InputText,
		Status:      model.OrderStatusPaid,
	}
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, _ repository.PaymentRepository, orders repository.OrderRepository) error {
		if _, err := users.AdjustCredits(ctx, in.Email, -in.Price); err != nil {
			return err
		}
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	_ = s.cache.Delete(ctx, balanceCacheKey(in.Email))
	return order, nil
}

// ListOrders lists a user's order history, newest first. Test rows never
// appear here.
func (s *orderService) ListOrders(ctx context.Context, email string, limit int) ([]model.Order, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 100
	}
	return s.orderRepo.ListByEmail(ctx, email, limit)
}

// GetProfile returns the user and their recent orders. First access
// creates the account, so a fresh visitor gets an empty profile rather
// than a 404.
func (s *orderService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	user, err := s.ledger.EnsureAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByUserID(ctx, user.ID, 50)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:        user,
		Orders:      orders,
		TotalOrders: len(orders),
	}, nil
}
