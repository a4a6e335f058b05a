package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentTransaction records one accepted external payment. The unique
// index on TransactionID is the sole authority for "already applied":
// a replayed notification fails the insert and must not touch balances.
// Rows are append-only and never deleted.
type PaymentTransaction struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	TransactionID string          `json:"transaction_id" gorm:"uniqueIndex;size:255;not null"`
	UserEmail     string          `json:"user_email" gorm:"size:255;not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	TokensAdded   int64           `json:"tokens_added" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
