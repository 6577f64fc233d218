package models

import "time"

type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         *string   `json:"name"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
	Active       bool      `gorm:"not null" json:"active"`
}

type NewsletterDraft struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"not null" json:"subject"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsletterSend is an append-only record of one completed broadcast.
// The unique index on DraftID caps a saved draft at one send; ad-hoc
// sends carry a null DraftID, which the index leaves unconstrained.
type NewsletterSend struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	DraftID        *uint            `gorm:"uniqueIndex" json:"draft_id"`
	Draft          *NewsletterDraft `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Subject        string           `gorm:"not null" json:"subject"`
	RecipientCount int              `gorm:"not null" json:"recipient_count"`
	SentAt         time.Time        `gorm:"autoCreateTime" json:"sent_at"`
}
