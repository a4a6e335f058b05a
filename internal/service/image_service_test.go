package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

// fakeImageGenerator records whether it was invoked.
type fakeImageGenerator struct {
	called  bool
	url     string
	revised string
	err     error
}

func (g *fakeImageGenerator) Name() string { return "fake" }

func (g *fakeImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, string, error) {
	g.called = true
	return g.url, g.revised, g.err
}

func TestImageService_Generate(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", Credits: 5}

	t.Run("debits two credits and records the completed order", func(t *testing.T) {
		ledger := new(MockLedgerService)
		orders := new(MockOrderRepository)
		generator := &fakeImageGenerator{url: "https://img.example/1.png", revised: "a red fox, oil painting"}

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-2)).Return(int64(3), nil)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.UserID == user.ID &&
				o.ServiceID == imageServiceID &&
				o.Price == 2 &&
				o.AIResult == "https://img.example/1.png" &&
				o.Status == model.OrderStatusCompleted
		})).Return(nil)

		svc := NewImageService(generator, ledger, orders)
		result, err := svc.Generate(context.Background(), "alice@example.com", "a red fox")

		assert.NoError(t, err)
		assert.Equal(t, "https://img.example/1.png", result.ImageURL)
		assert.Equal(t, "a red fox, oil painting", result.RevisedPrompt)
		ledger.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("rejected debit means no image is rendered", func(t *testing.T) {
		ledger := new(MockLedgerService)
		orders := new(MockOrderRepository)
		generator := &fakeImageGenerator{url: "https://img.example/1.png"}

		ledger.On("EnsureAccount", mock.Anything, "bob@example.com").Return(user, nil)
		ledger.On("AdjustBalance", mock.Anything, "bob@example.com", int64(-2)).
			Return(int64(0), apperrors.ErrInsufficientCredits)

		svc := NewImageService(generator, ledger, orders)
		_, err := svc.Generate(context.Background(), "bob@example.com", "a red fox")

		assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)
		assert.False(t, generator.called)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("generator failure surfaces after the debit", func(t *testing.T) {
		ledger := new(MockLedgerService)
		orders := new(MockOrderRepository)
		generator := &fakeImageGenerator{err: assert.AnError}

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-2)).Return(int64(3), nil)

		svc := NewImageService(generator, ledger, orders)
		_, err := svc.Generate(context.Background(), "alice@example.com", "a red fox")

		assert.Error(t, err)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing prompt rejected", func(t *testing.T) {
		svc := NewImageService(&fakeImageGenerator{}, new(MockLedgerService), new(MockOrderRepository))
		_, err := svc.Generate(context.Background(), "alice@example.com", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
