package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
	"creditledger/internal/tariff"
)

// newSQLiteLedger wires the real repositories and transaction manager over
// an in-memory database so the guarded UPDATE, the unique-index dedup and
// the insert-then-credit transaction run for real.
func newSQLiteLedger(t *testing.T) (LedgerService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pool connection would otherwise open its own ":memory:"
	// database, so pin the pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.PaymentTransaction{}, &model.Order{}))

	users := repository.NewUserRepository(db)
	payments := repository.NewPaymentRepository(db)
	tx := repository.NewTxManager(db)
	return NewLedgerService(users, payments, tx, tariff.Default(), nil), db
}

func TestLedger_PaymentThenSpend(t *testing.T) {
	svc, _ := newSQLiteLedger(t)
	ctx := context.Background()

	// First contact: the payment creates the account and credits it.
	result, err := svc.ApplyExternalPayment(ctx, "tx-100", "a@x.com", decimal.NewFromInt(399))
	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, int64(60), result.TokensAdded)
	assert.Equal(t, int64(60), result.NewBalance)

	balance, err := svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)

	// Spend within the balance.
	balance, err = svc.AdjustBalance(ctx, "a@x.com", -50)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	// Overspend is rejected and the balance is untouched.
	_, err = svc.AdjustBalance(ctx, "a@x.com", -20)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

	balance, err = svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestLedger_PaymentReplay(t *testing.T) {
	svc, _ := newSQLiteLedger(t)
	ctx := context.Background()

	first, err := svc.ApplyExternalPayment(ctx, "tx-dup", "a@x.com", decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.NewBalance)

	// The gateway retries with the same transaction id. Terminal success,
	// nothing credited twice.
	replay, err := svc.ApplyExternalPayment(ctx, "tx-dup", "a@x.com", decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.True(t, replay.AlreadyProcessed)

	balance, err := svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	// The ledger holds exactly one row for the transaction.
	payments, err := svc.ListPayments(ctx, "a@x.com", 10)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestLedger_ConcurrentReplay(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	// Many workers race the same transaction id. Exactly one wins the
	// unique index and credits; the rest see a terminal replay.
	const workers = 50
	var (
		credited int64
		failures int64
		wg       sync.WaitGroup
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			result, err := svc.ApplyExternalPayment(ctx, "tx-race", "a@x.com", decimal.NewFromInt(99))
			switch {
			case err != nil:
				atomic.AddInt64(&failures, 1)
			case !result.AlreadyProcessed:
				atomic.AddInt64(&credited, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), failures)
	assert.Equal(t, int64(1), credited)

	balance, err := svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	var count int64
	require.NoError(t, db.Model(&model.PaymentTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLedger_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.User{
		Email:   "a@x.com",
		Name:    "a",
		Credits: 10,
		Role:    model.RoleCustomer,
	}).Error)

	// 20 workers each try to take 3 from a balance of 10. At most three
	// can succeed; the guarded UPDATE must reject the rest.
	const workers = 20
	var (
		succeeded int64
		rejected  int64
		wg        sync.WaitGroup
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AdjustBalance(ctx, "a@x.com", -3)
			if err == nil {
				atomic.AddInt64(&succeeded, 1)
				return
			}
			if errors.Is(err, apperrors.ErrInsufficientCredits) {
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), succeeded)
	assert.Equal(t, int64(workers-3), rejected)

	balance, err := svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)
}

func TestLedger_UnknownPackageLeavesNoTrace(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	_, err := svc.ApplyExternalPayment(ctx, "tx-odd", "a@x.com", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, apperrors.ErrUnknownPackage)

	var count int64
	require.NoError(t, db.Model(&model.PaymentTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLedger_DirectorMayGoNegative(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.User{
		Email:   "director@x.com",
		Name:    "Director",
		Credits: 0,
		Role:    model.RoleDirector,
	}).Error)

	balance, err := svc.AdjustBalance(ctx, "director@x.com", -3)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), balance)
}

func TestLedger_AdjustUnknownAccount(t *testing.T) {
	svc, _ := newSQLiteLedger(t)

	_, err := svc.AdjustBalance(context.Background(), "nobody@x.com", -1)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestLedger_GetBalanceUnknownIsZero(t *testing.T) {
	svc, db := newSQLiteLedger(t)

	balance, err := svc.GetBalance(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	// Reading never creates an account.
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestOrder_DebitAndInsertAreAtomic(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	orders := repository.NewOrderRepository(db)
	tx := repository.NewTxManager(db)
	orderSvc := NewOrderService(orders, svc, tx, nil)

	require.NoError(t, db.Create(&model.User{
		Email:   "a@x.com",
		Name:    "a",
		Credits: 10,
		Role:    model.RoleCustomer,
	}).Error)

	// Affordable order: debit and order row land together.
	order, err := orderSvc.CreateOrder(ctx, CreateOrderInput{
		Email:     "a@x.com",
		ServiceID: 3,
		Price:     10,
		InputText: "wireless headphones",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)

	balance, err := svc.GetBalance(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	// Unaffordable order: the rejected debit aborts the transaction and
	// no order row appears.
	_, err = orderSvc.CreateOrder(ctx, CreateOrderInput{
		Email:     "a@x.com",
		ServiceID: 3,
		Price:     10,
		InputText: "anything",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLedger_EnsureAccountIsIdempotent(t *testing.T) {
	svc, db := newSQLiteLedger(t)
	ctx := context.Background()

	first, err := svc.EnsureAccount(ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new", first.Name)
	assert.Equal(t, int64(0), first.Credits)

	again, err := svc.EnsureAccount(ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
