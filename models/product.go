package models

import "time"

// Product prices are stored as integer cents; conversion to dollars
// happens at the response boundary.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   *string   `json:"description"`
	Price         int64     `gorm:"not null" json:"price"`
	ImageURL      *string   `json:"image_url"`
	Active        bool      `gorm:"not null" json:"active"`
	InStock       bool      `gorm:"not null" json:"in_stock"`
	StripePriceID *string   `json:"stripe_price_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
