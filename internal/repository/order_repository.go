package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creditledger/internal/model"
)

// OrderRepository defines order persistence operations. Every listing
// excludes status='test' rows; they exist only for smoke checks.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.Order, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update updates an existing order.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// FindByID finds an order by ID.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUserID lists a user's orders, newest first, excluding test rows.
func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, model.OrderStatusTest).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByEmail lists orders for the user with the given email, newest
// first, excluding test rows.
func (r *orderRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = orders.user_id").
		Where("users.email = ? AND orders.status <> ?", email, model.OrderStatusTest).
		Order("orders.created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
