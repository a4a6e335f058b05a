package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

// PaymentRepository defines payment-ledger persistence operations.
// The ledger is append-only; there is no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.PaymentTransaction) error
	FindByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]model.PaymentTransaction, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a payment record. A duplicate transaction_id trips the
// unique index and is reported as ErrPaymentAlreadyProcessed; that
// constraint is the single source of truth for deduplication.
func (r *paymentRepository) Create(ctx context.Context, payment *model.PaymentTransaction) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrPaymentAlreadyProcessed
	}
	return err
}

// FindByTransactionID finds a payment by its external transaction id.
func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	var payment model.PaymentTransaction
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByEmail lists a user's payments, newest first.
func (r *paymentRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.PaymentTransaction, error) {
	var payments []model.PaymentTransaction
	if err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
