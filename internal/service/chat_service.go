package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"creditledger/internal/assistant"
	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
	"creditledger/internal/repository"
)

const (
	// Credit cost of one chat message.
	chatMessageCost = 1
	// Chats with no explicit id share one rolling conversation.
	defaultChatID = "default"

	chatTitleLimit = 50
	chatListLimit  = 50
)

// ChatService runs the free-form conversational surface. Each message
// debits the ledger before the provider is invoked; the whole
// conversation is stored as one row keyed by chat id.
type ChatService interface {
	SendMessage(ctx context.Context, email, chatID, message string) (*model.ChatHistory, string, error)
	GetChat(ctx context.Context, email, chatID string) (*model.ChatHistory, error)
	ListChats(ctx context.Context, email string) ([]model.ChatHistory, error)
	DeleteChat(ctx context.Context, email, chatID string) error
}

type chatService struct {
	provider assistant.Provider
	ledger   LedgerService
	chatRepo repository.ChatRepository
}

// NewChatService creates a new chat service.
func NewChatService(provider assistant.Provider, ledger LedgerService, chatRepo repository.ChatRepository) ChatService {
	return &chatService{
		provider: provider,
		ledger:   ledger,
		chatRepo: chatRepo,
	}
}

// SendMessage appends the user turn, debits the message cost, asks the
// provider for a reply with the conversation as context, and saves the
// updated chat. A rejected debit leaves the stored chat untouched.
func (s *chatService) SendMessage(ctx context.Context, email, chatID, message string) (*model.ChatHistory, string, error) {
	if email == "" || message == "" {
		return nil, "", fmt.Errorf("%w: email and message required", apperrors.ErrInvalidInput)
	}
	if chatID == "" {
		chatID = defaultChatID
	}

	if _, err := s.ledger.EnsureAccount(ctx, email); err != nil {
		return nil, "", err
	}

	chat, err := s.chatRepo.FindByChatID(ctx, email, chatID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", storeErr(err)
		}
		chat = &model.ChatHistory{UserEmail: email, ChatID: chatID}
	}

	turns, err := chat.Turns()
	if err != nil {
		return nil, "", fmt.Errorf("decode chat %s: %w", chatID, err)
	}
	turns = append(turns, model.ChatMessage{Role: model.ChatRoleUser, Content: message})

	// Debit first. A rejection means no provider call and no saved turn.
	if _, err := s.ledger.AdjustBalance(ctx, email, -chatMessageCost); err != nil {
		return nil, "", err
	}

	reply, err := s.provider.Complete(ctx, assistant.DialoguePrompt, transcript(turns))
	if err != nil {
		return nil, "", fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}
	turns = append(turns, model.ChatMessage{Role: model.ChatRoleAssistant, Content: reply})

	chat.ChatTitle = titleFrom(turns[0].Content)
	if err := chat.SetTurns(turns); err != nil {
		return nil, "", fmt.Errorf("encode chat %s: %w", chatID, err)
	}
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, "", storeErr(err)
	}

	return chat, reply, nil
}

// GetChat returns one full conversation.
func (s *chatService) GetChat(ctx context.Context, email, chatID string) (*model.ChatHistory, error) {
	if email == "" || chatID == "" {
		return nil, fmt.Errorf("%w: email and chat_id required", apperrors.ErrInvalidInput)
	}

	chat, err := s.chatRepo.FindByChatID(ctx, email, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrChatNotFound, chatID)
		}
		return nil, storeErr(err)
	}
	return chat, nil
}

// ListChats lists a user's conversations, most recently touched first.
func (s *chatService) ListChats(ctx context.Context, email string) ([]model.ChatHistory, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email required", apperrors.ErrInvalidInput)
	}
	chats, err := s.chatRepo.ListByEmail(ctx, email, chatListLimit)
	if err != nil {
		return nil, storeErr(err)
	}
	return chats, nil
}

// DeleteChat removes one conversation. Unknown ids are a no-op.
func (s *chatService) DeleteChat(ctx context.Context, email, chatID string) error {
	if email == "" || chatID == "" {
		return fmt.Errorf("%w: email and chat_id required", apperrors.ErrInvalidInput)
	}
	if err := s.chatRepo.Delete(ctx, email, chatID); err != nil {
		return storeErr(err)
	}
	return nil
}

// transcript flattens the conversation for a single-prompt provider,
// newest turn last.
func transcript(turns []model.ChatMessage) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
	}
	return b.String()
}

// titleFrom derives the chat title from the opening message.
func titleFrom(first string) string {
	runes := []rune(first)
	if len(runes) <= chatTitleLimit {
		return first
	}
	return string(runes[:chatTitleLimit]) + "..."
}
