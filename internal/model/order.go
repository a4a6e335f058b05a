package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the status of an AI-service order.
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusTest marks internal smoke-test rows. They are excluded
	// from every listing and aggregate.
	OrderStatusTest OrderStatus = "test"
)

// Order represents one AI-service invocation bought with credits.
type Order struct {
	ID          uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:char(36);not null;index"`
	ServiceID   int         `json:"service_id" gorm:"not null;index"`
	ServiceName string      `json:"service_name" gorm:"size:255"`
	Plan        string      `json:"plan" gorm:"size:50;default:'basic'"`
	Price       int64       `json:"price" gorm:"not null"`
	InputText   string      `json:"input_text" gorm:"type:text"`
	AIResult    string      `json:"ai_result" gorm:"type:text"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'paid';index"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
