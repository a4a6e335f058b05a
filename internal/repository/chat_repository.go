package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creditledger/internal/model"
)

// ChatRepository defines chat-history persistence operations. A chat is
// saved whole: Save upserts on chat_id, replacing the message array.
type ChatRepository interface {
	Save(ctx context.Context, chat *model.ChatHistory) error
	FindByChatID(ctx context.Context, email, chatID string) (*model.ChatHistory, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]model.ChatHistory, error)
	Delete(ctx context.Context, email, chatID string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Save inserts a chat or, when the chat_id already exists, replaces its
// title, messages and service fields.
func (r *chatRepository) Save(ctx context.Context, chat *model.ChatHistory) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"chat_title", "service_id", "service_name", "messages", "updated_at",
			}),
		}).
		Create(chat).Error
}

// FindByChatID finds one chat owned by email.
func (r *chatRepository) FindByChatID(ctx context.Context, email, chatID string) (*model.ChatHistory, error) {
	var chat model.ChatHistory
	if err := r.db.WithContext(ctx).
		Where("user_email = ? AND chat_id = ?", email, chatID).
		First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListByEmail lists a user's chats, most recently touched first. The
// message arrays are omitted; listings only need the chat metadata.
func (r *chatRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.ChatHistory, error) {
	var chats []model.ChatHistory
	if err := r.db.WithContext(ctx).
		Select("id", "chat_id", "chat_title", "service_name", "updated_at").
		Where("user_email = ?", email).
		Order("updated_at DESC").
		Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

// Delete removes one chat owned by email. Deleting an unknown chat is a
// no-op.
func (r *chatRepository) Delete(ctx context.Context, email, chatID string) error {
	return r.db.WithContext(ctx).
		Where("user_email = ? AND chat_id = ?", email, chatID).
		Delete(&model.ChatHistory{}).Error
}
