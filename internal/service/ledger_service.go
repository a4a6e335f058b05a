package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"creditledger/internal/cache"
	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
	"creditledger/internal/tariff"
)

const (
	balanceCacheTTL = 1 * time.Minute
	storeTimeout    = 5 * time.Second
)

// PaymentResult is the outcome of admitting an external payment.
// AlreadyProcessed marks a replayed notification; it is a terminal
// success variant, not an error, and nothing was mutated.
type PaymentResult struct {
	TokensAdded      int64 `json:"tokens_added"`
	NewBalance       int64 `json:"new_balance"`
	AlreadyProcessed bool  `json:"-"`
}

// LedgerService is the single authority for reading and mutating credit
// balances and for admitting external payments exactly once.
//
// AdjustBalance is the only primitive through which balances change;
// debits for AI usage and credits for payments both route through it.
// A bare AdjustBalance is not safe to retry blindly: the caller cannot
// know whether the prior attempt committed. ApplyExternalPayment is
// retry-safe by construction via the transaction_id uniqueness gate.
type LedgerService interface {
	GetBalance(ctx context.Context, email string) (int64, error)
	AdjustBalance(ctx context.Context, email string, delta int64) (int64, error)
	ApplyExternalPayment(ctx context.Context, transactionID, email string, amount decimal.Decimal) (*PaymentResult, error)
	EnsureAccount(ctx context.Context, email string) (*model.User, error)
	ListPayments(ctx context.Context, email string, limit int) ([]model.PaymentTransaction, error)
	GetPayment(ctx context.Context, transactionID string) (*model.PaymentTransaction, error)
}

type ledgerService struct {
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
	txManager   repository.TxManager
	tariffs     tariff.Table
	cache       *cache.Client
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TxManager,
	tariffs tariff.Table,
	cache *cache.Client,
) LedgerService {
	return &ledgerService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		tariffs:     tariffs,
		cache:       cache,
	}
}

func balanceCacheKey(email string) string {
	return "credits:" + email
}

// GetBalance returns the current credit balance for email. A missing
// account is a fresh zero-balance user, not an error.
func (s *ledgerService) GetBalance(ctx context.Context, email string) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}

	if data, _ := s.cache.Get(ctx, balanceCacheKey(email)); data != nil {
		if credits, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return credits, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, storeErr(err)
	}

	_ = s.cache.Set(ctx, balanceCacheKey(email), []byte(strconv.FormatInt(user.Credits, 10)), balanceCacheTTL)
	return user.Credits, nil
}

// AdjustBalance applies a signed delta to an existing account and returns
// the post-update balance. The sufficiency check and the mutation are one
// conditional UPDATE in the repository; directors are exempt from the
// check and may go negative.
func (s *ledgerService) AdjustBalance(ctx context.Context, email string, delta int64) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}
	if delta == 0 {
		return 0, fmt.Errorf("%w: amount must be non-zero", apperrors.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	newBalance, err := s.userRepo.AdjustCredits(ctx, email, delta)
	if err != nil {
		return 0, storeErr(err)
	}

	_ = s.cache.Delete(ctx, balanceCacheKey(email))
	return newBalance, nil
}

// ApplyExternalPayment credits the tokens for a paid package exactly once
// per external transaction id. The ledger insert lands before the balance
// credit inside one transaction: a concurrent duplicate loses on the
// unique index and rolls back without touching the balance.
func (s *ledgerService) ApplyExternalPayment(ctx context.Context, transactionID, email string, amount decimal.Decimal) (*PaymentResult, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction_id required", apperrors.ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}

	tokens, ok := s.tariffs.Tokens(amount)
	if !ok {
		return nil, fmt.Errorf("%w: no package for amount %s", apperrors.ErrUnknownPackage, amount.String())
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result := &PaymentResult{TokensAdded: tokens}
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, payments repository.PaymentRepository, _ repository.OrderRepository) error {
		if err := payments.Create(ctx, &model.PaymentTransaction{
			TransactionID: transactionID,
			UserEmail:     email,
			Amount:        amount,
			TokensAdded:   tokens,
		}); err != nil {
			return err
		}

		if _, err := users.EnsureByEmail(ctx, email); err != nil {
			return err
		}

		newBalance, err := users.AdjustCredits(ctx, email, tokens)
		if err != nil {
			return err
		}
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentAlreadyProcessed) {
			return &PaymentResult{AlreadyProcessed: true}, nil
		}
		return nil, storeErr(err)
	}

	_ = s.cache.Delete(ctx, balanceCacheKey(email))
	return result, nil
}

// EnsureAccount returns the account for email, creating it with zero
// balance on first contact. Every path that can meet a first-time user
// goes through here.
func (s *ledgerService) EnsureAccount(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.EnsureByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// ListPayments lists a user's accepted payments, newest first.
func (s *ledgerService) ListPayments(ctx context.Context, email string, limit int) ([]model.PaymentTransaction, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	payments, err := s.paymentRepo.ListByEmail(ctx, email, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return payments, nil
}

// GetPayment looks up an accepted payment by its external transaction id.
// Checkout pages poll this to confirm a purchase landed.
func (s *ledgerService) GetPayment(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction_id required", apperrors.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	payment, err := s.paymentRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrPaymentNotFound, transactionID)
		}
		return nil, storeErr(err)
	}
	return payment, nil
}

// storeErr classifies timeouts and cancellations as transient so callers
// can tell "retry later" from a terminal rejection.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return err
}
