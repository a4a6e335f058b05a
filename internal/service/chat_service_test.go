package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

// MockChatRepository is a mock implementation of repository.ChatRepository.
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Save(ctx context.Context, chat *model.ChatHistory) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) FindByChatID(ctx context.Context, email, chatID string) (*model.ChatHistory, error) {
	args := m.Called(ctx, email, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatHistory), args.Error(1)
}

func (m *MockChatRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.ChatHistory, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatHistory), args.Error(1)
}

func (m *MockChatRepository) Delete(ctx context.Context, email, chatID string) error {
	args := m.Called(ctx, email, chatID)
	return args.Error(0)
}

func TestChatService_SendMessage(t *testing.T) {
	user := &model.User{Email: "alice@example.com", Credits: 5}

	t.Run("first message opens a chat and titles it", func(t *testing.T) {
		ledger := new(MockLedgerService)
		chats := new(MockChatRepository)
		provider := &fakeProvider{reply: "hello back"}

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		chats.On("FindByChatID", mock.Anything, "alice@example.com", "default").
			Return(nil, gorm.ErrRecordNotFound)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-1)).Return(int64(4), nil)
		chats.On("Save", mock.Anything, mock.MatchedBy(func(c *model.ChatHistory) bool {
			turns, err := c.Turns()
			return err == nil &&
				c.ChatID == "default" &&
				c.ChatTitle == "hello there" &&
				len(turns) == 2 &&
				turns[0].Role == model.ChatRoleUser &&
				turns[1].Role == model.ChatRoleAssistant &&
				turns[1].Content == "hello back"
		})).Return(nil)

		svc := NewChatService(provider, ledger, chats)
		chat, reply, err := svc.SendMessage(context.Background(), "alice@example.com", "", "hello there")

		assert.NoError(t, err)
		assert.Equal(t, "hello back", reply)
		assert.Equal(t, "default", chat.ChatID)
		ledger.AssertExpectations(t)
		chats.AssertExpectations(t)
	})

	t.Run("rejected debit calls no provider and saves nothing", func(t *testing.T) {
		ledger := new(MockLedgerService)
		chats := new(MockChatRepository)
		provider := &fakeProvider{reply: "should not happen"}

		ledger.On("EnsureAccount", mock.Anything, "bob@example.com").Return(user, nil)
		chats.On("FindByChatID", mock.Anything, "bob@example.com", "c-1").
			Return(nil, gorm.ErrRecordNotFound)
		ledger.On("AdjustBalance", mock.Anything, "bob@example.com", int64(-1)).
			Return(int64(0), apperrors.ErrInsufficientCredits)

		svc := NewChatService(provider, ledger, chats)
		_, _, err := svc.SendMessage(context.Background(), "bob@example.com", "c-1", "hi")

		assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)
		assert.False(t, provider.called)
		chats.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("follow-up appends to the stored conversation", func(t *testing.T) {
		ledger := new(MockLedgerService)
		chats := new(MockChatRepository)
		provider := &fakeProvider{reply: "second reply"}

		existing := &model.ChatHistory{UserEmail: "alice@example.com", ChatID: "c-1", ChatTitle: "opening"}
		assert.NoError(t, existing.SetTurns([]model.ChatMessage{
			{Role: model.ChatRoleUser, Content: "opening"},
			{Role: model.ChatRoleAssistant, Content: "first reply"},
		}))

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		chats.On("FindByChatID", mock.Anything, "alice@example.com", "c-1").Return(existing, nil)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-1)).Return(int64(3), nil)
		chats.On("Save", mock.Anything, mock.MatchedBy(func(c *model.ChatHistory) bool {
			turns, err := c.Turns()
			return err == nil && len(turns) == 4 && turns[3].Content == "second reply"
		})).Return(nil)

		svc := NewChatService(provider, ledger, chats)
		_, reply, err := svc.SendMessage(context.Background(), "alice@example.com", "c-1", "and then?")

		assert.NoError(t, err)
		assert.Equal(t, "second reply", reply)
		chats.AssertExpectations(t)
	})

	t.Run("provider failure surfaces after the debit", func(t *testing.T) {
		ledger := new(MockLedgerService)
		chats := new(MockChatRepository)
		provider := &fakeProvider{err: assert.AnError}

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		chats.On("FindByChatID", mock.Anything, "alice@example.com", "c-1").
			Return(nil, gorm.ErrRecordNotFound)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-1)).Return(int64(4), nil)

		svc := NewChatService(provider, ledger, chats)
		_, _, err := svc.SendMessage(context.Background(), "alice@example.com", "c-1", "hi")

		assert.Error(t, err)
		chats.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing message rejected", func(t *testing.T) {
		svc := NewChatService(&fakeProvider{}, new(MockLedgerService), new(MockChatRepository))
		_, _, err := svc.SendMessage(context.Background(), "alice@example.com", "c-1", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("long opening message is truncated for the title", func(t *testing.T) {
		ledger := new(MockLedgerService)
		chats := new(MockChatRepository)
		provider := &fakeProvider{reply: "ok"}
		long := strings.Repeat("x", 80)

		ledger.On("EnsureAccount", mock.Anything, "alice@example.com").Return(user, nil)
		chats.On("FindByChatID", mock.Anything, "alice@example.com", "c-1").
			Return(nil, gorm.ErrRecordNotFound)
		ledger.On("AdjustBalance", mock.Anything, "alice@example.com", int64(-1)).Return(int64(4), nil)
		chats.On("Save", mock.Anything, mock.MatchedBy(func(c *model.ChatHistory) bool {
			return c.ChatTitle == strings.Repeat("x", 50)+"..."
		})).Return(nil)

		svc := NewChatService(provider, ledger, chats)
		_, _, err := svc.SendMessage(context.Background(), "alice@example.com", "c-1", long)

		assert.NoError(t, err)
		chats.AssertExpectations(t)
	})
}

func TestChatService_GetChat(t *testing.T) {
	t.Run("unknown chat maps to not found", func(t *testing.T) {
		chats := new(MockChatRepository)
		chats.On("FindByChatID", mock.Anything, "alice@example.com", "gone").
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewChatService(&fakeProvider{}, new(MockLedgerService), chats)
		_, err := svc.GetChat(context.Background(), "alice@example.com", "gone")

		assert.ErrorIs(t, err, apperrors.ErrChatNotFound)
	})

	t.Run("missing chat id rejected", func(t *testing.T) {
		svc := NewChatService(&fakeProvider{}, new(MockLedgerService), new(MockChatRepository))
		_, err := svc.GetChat(context.Background(), "alice@example.com", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestChatService_ListChats(t *testing.T) {
	chats := new(MockChatRepository)
	chats.On("ListByEmail", mock.Anything, "alice@example.com", 50).
		Return([]model.ChatHistory{{ChatID: "c-2"}, {ChatID: "c-1"}}, nil)

	svc := NewChatService(&fakeProvider{}, new(MockLedgerService), chats)
	list, err := svc.ListChats(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	chats.AssertExpectations(t)
}

func TestChatService_DeleteChat(t *testing.T) {
	chats := new(MockChatRepository)
	chats.On("Delete", mock.Anything, "alice@example.com", "c-1").Return(nil)

	svc := NewChatService(&fakeProvider{}, new(MockLedgerService), chats)

	assert.NoError(t, svc.DeleteChat(context.Background(), "alice@example.com", "c-1"))
	assert.ErrorIs(t, svc.DeleteChat(context.Background(), "", "c-1"), apperrors.ErrInvalidInput)
	chats.AssertExpectations(t)
}
