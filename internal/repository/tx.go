package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside one database transaction, handing it
// transaction-bound repositories. Payment admission needs the ledger
// insert and the balance credit to commit or roll back together; order
// creation needs the same for the debit and the order row.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, payments PaymentRepository, orders OrderRepository) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the shared DB handle.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction executes fn within a database transaction.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, users UserRepository, payments PaymentRepository, orders OrderRepository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &userRepository{db: tx}, &paymentRepository{db: tx}, &orderRepository{db: tx})
	})
}
