package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent stores each verified payment-provider event with its raw
// payload. The unique index on EventID makes replayed deliveries no-ops.
type WebhookEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventID     string         `gorm:"uniqueIndex;not null" json:"event_id"`
	EventType   string         `gorm:"index;not null" json:"event_type"`
	Payload     datatypes.JSON `json:"payload"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
