package models

import "time"

// Order statuses
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderFailed    = "failed"
)

type Order struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	ProductID             uint      `gorm:"index;not null" json:"product_id"`
	Product               Product   `json:"-"`
	StripeSessionID       string    `gorm:"uniqueIndex;not null" json:"stripe_session_id"`
	StripePaymentIntentID *string   `json:"stripe_payment_intent_id"`
	CustomerEmail         string    `gorm:"not null" json:"customer_email"`
	CustomerName          *string   `json:"customer_name"`
	Amount                int64     `gorm:"not null" json:"amount"`
	Status                string    `gorm:"default:'pending'" json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
