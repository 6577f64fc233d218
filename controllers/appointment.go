package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"valentino-backend/models"
	"valentino-backend/services"
	"valentino-backend/utils"
)

// CreateAppointmentInput defines the expected JSON structure for a booking request
type CreateAppointmentInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	ServiceType string  `json:"service_type"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Address     string  `json:"address"`
	Message     *string `json:"message"`
}

// UpdateAppointmentInput carries the new status for an existing appointment
type UpdateAppointmentInput struct {
	Status string `json:"status" binding:"required"`
}

type AppointmentController struct {
	DB     *gorm.DB
	Mailer services.Mailer
}

func NewAppointmentController(db *gorm.DB, mailer services.Mailer) *AppointmentController {
	return &AppointmentController{DB: db, Mailer: mailer}
}

// Create handles a public booking request
func (ctl *AppointmentController) Create(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	required := []struct{ name, value string }{
		{"name", input.Name},
		{"email", input.Email},
		{"phone", input.Phone},
		{"service_type", input.ServiceType},
		{"date", input.Date},
		{"time", input.Time},
		{"address", input.Address},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	appointment := models.Appointment{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		ServiceType: input.ServiceType,
		Date:        input.Date,
		Time:        input.Time,
		Address:     input.Address,
		Message:     input.Message,
		Status:      models.AppointmentPending,
	}

	if err := ctl.DB.Create(&appointment).Error; err != nil {
		log.Printf("Error creating appointment: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// Email failures are logged but never fail the booking.
	if err := ctl.Mailer.SendClientConfirmation(&appointment); err != nil {
		log.Printf("Email sending failed, but appointment was saved: %v", err)
	}
	if err := ctl.Mailer.SendOwnerNotification(&appointment); err != nil {
		log.Printf("Email sending failed, but appointment was saved: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment created successfully",
		"appointment": appointment,
	})
}

// List returns all appointments, newest first. Admin only.
func (ctl *AppointmentController) List(c *gin.Context) {
	var appointments []models.Appointment
	if err := ctl.DB.Order("created_at DESC").Find(&appointments).Error; err != nil {
		log.Printf("Error fetching appointments: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// UpdateStatus moves an appointment through its lifecycle. Admin only.
func (ctl *AppointmentController) UpdateStatus(c *gin.Context) {
	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Status is required")
		return
	}

	if !models.IsValidAppointmentStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest,
			"Status must be one of: "+strings.Join(models.ValidAppointmentStatuses, ", "))
		return
	}

	result := ctl.DB.Model(&models.Appointment{}).
		Where("id = ?", c.Param("id")).
		Update("status", input.Status)
	if result.Error != nil {
		log.Printf("Error updating appointment: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated successfully"})
}

// Delete removes an appointment. Admin only.
func (ctl *AppointmentController) Delete(c *gin.Context) {
	result := ctl.DB.Where("id = ?", c.Param("id")).Delete(&models.Appointment{})
	if result.Error != nil {
		log.Printf("Error deleting appointment: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
