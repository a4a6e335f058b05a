package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

// MockLedgerService is a mock implementation of LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) AdjustBalance(ctx context.Context, email string, delta int64) (int64, error) {
	args := m.Called(ctx, email, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) ApplyExternalPayment(ctx context.Context, transactionID, email string, amount decimal.Decimal) (*PaymentResult, error) {
	args := m.Called(ctx, transactionID, email, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentResult), args.Error(1)
}

func (m *MockLedgerService) EnsureAccount(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, email string, limit int) ([]model.PaymentTransaction, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentTransaction), args.Error(1)
}

func (m *MockLedgerService) GetPayment(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.Order, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func TestOrderService_CreateOrder(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", Credits: 60}

	t.Run("debits then records the order as paid in one transaction", func(t *testing.T) {
		ledger := new(MockLedgerService)
		users := new(MockUserRepository)
		orders := new(MockOrderRepository)
		tx := &fakeTxManager{users: users, orders: orders}

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		users.On("AdjustCredits", mock.Anything, "alice@example.com", int64(-10)).Return(int64(50), nil)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.UserID == user.ID &&
				o.ServiceID == 3 &&
				o.Price == 10 &&
				o.Status == model.OrderStatusPaid
		})).Return(nil)

		svc := NewOrderService(orders, ledger, tx, nil)
		order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Email:       "alice@example.com",
			ServiceID:   3,
			ServiceName: "Product descriptions",
			Price:       10,
			InputText:   "wireless headphones",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		assert.Equal(t, "basic", order.Plan)
		ledger.AssertExpectations(t)
		users.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("rejected debit aborts the order", func(t *testing.T) {
		ledger := new(MockLedgerService)
		users := new(MockUserRepository)
		orders := new(MockOrderRepository)
		tx := &fakeTxManager{users: users, orders: orders}

		ledger.On("EnsureAccount", mock.Anything, "bob@example.com").Return(user, nil)
		users.On("AdjustCredits", mock.Anything, "bob@example.com", int64(-10)).
			Return(int64(0), apperrors.ErrInsufficientCredits)

		svc := NewOrderService(orders, ledger, tx, nil)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Email:     "bob@example.com",
			ServiceID: 3,
			Price:     10,
			InputText: "anything",
		})

		assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("failed insert surfaces the error", func(t *testing.T) {
		ledger := new(MockLedgerService)
		users := new(MockUserRepository)
		orders := new(MockOrderRepository)
		tx := &fakeTxManager{users: users, orders: orders}
		insertErr := errors.New("disk full")

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		users.On("AdjustCredits", mock.Anything, "alice@example.com", int64(-10)).Return(int64(50), nil)
		orders.On("Create", mock.Anything, mock.Anything).Return(insertErr)

		svc := NewOrderService(orders, ledger, tx, nil)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Email:     "alice@example.com",
			ServiceID: 3,
			Price:     10,
			InputText: "anything",
		})

		assert.ErrorIs(t, err, insertErr)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockLedgerService), &fakeTxManager{}, nil)
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{Email: "alice@example.com"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestOrderService_GetProfile(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", Credits: 42}

	ledger := new(MockLedgerService)
	orders := new(MockOrderRepository)

	ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
	orders.On("ListByUserID", mock.Anything, user.ID, 50).
		Return([]model.Order{{ServiceID: 1}, {ServiceID: 2}}, nil)

	svc := NewOrderService(orders, ledger, nil, nil)
	profile, err := svc.GetProfile(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, user, profile.User)
	assert.Equal(t, 2, profile.TotalOrders)
	ledger.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestOrderService_ListOrders(t *testing.T) {
	ledger := new(MockLedgerService)
	orders := new(MockOrderRepository)

	orders.On("ListByEmail", mock.Anything, "alice@example.com", 100).
		Return([]model.Order{{ServiceID: 1}}, nil)

	svc := NewOrderService(orders, ledger, nil, nil)
	list, err := svc.ListOrders(context.Background(), "alice@example.com", 0)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	orders.AssertExpectations(t)
}
