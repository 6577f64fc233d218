package models

import "time"

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

var ValidAppointmentStatuses = []string{
	AppointmentPending,
	AppointmentConfirmed,
	AppointmentCompleted,
	AppointmentCancelled,
}

// IsValidAppointmentStatus reports whether s is one of the allowed statuses.
func IsValidAppointmentStatus(s string) bool {
	for _, status := range ValidAppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Phone       string    `gorm:"not null" json:"phone"`
	ServiceType string    `gorm:"not null" json:"service_type"`
	Date        string    `gorm:"not null" json:"date"`
	Time        string    `gorm:"not null" json:"time"`
	Address     string    `gorm:"not null" json:"address"`
	Message     *string   `json:"message"`
	Status      string    `gorm:"default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
