package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one turn inside a stored conversation. Turns live as a
// JSON array on the ChatHistory row, not as their own table: a chat is
// always loaded and saved whole.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatHistory is one saved conversation, keyed by a client-generated
// chat id. Saving the same chat id replaces the message array.
type ChatHistory struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserEmail   string          `json:"user_email" gorm:"size:255;not null;index"`
	ChatID      string          `json:"chat_id" gorm:"uniqueIndex;size:255;not null"`
	ChatTitle   string          `json:"chat_title" gorm:"size:255"`
	ServiceID   int             `json:"service_id"`
	ServiceName string          `json:"service_name" gorm:"size:255"`
	Messages    json.RawMessage `json:"messages" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *ChatHistory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Turns decodes the stored message array.
func (c *ChatHistory) Turns() ([]ChatMessage, error) {
	if len(c.Messages) == 0 {
		return nil, nil
	}
	var turns []ChatMessage
	if err := json.Unmarshal(c.Messages, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// SetTurns encodes the message array onto the row.
func (c *ChatHistory) SetTurns(turns []ChatMessage) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	c.Messages = data
	return nil
}
