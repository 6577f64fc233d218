package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"valentino-backend/models"
	"valentino-backend/services"
	"valentino-backend/utils"
)

type SubscribeInput struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type UnsubscribeInput struct {
	Email string `json:"email"`
}

// DraftInput is shared by draft create and update
type DraftInput struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SendNewsletterInput triggers a broadcast. DraftID is optional; ad-hoc
// sends leave it null.
type SendNewsletterInput struct {
	DraftID *uint  `json:"draftId"`
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type NewsletterController struct {
	DB      *gorm.DB
	Mailer  services.Mailer
	BaseURL string
}

func NewNewsletterController(db *gorm.DB, mailer services.Mailer) *NewsletterController {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &NewsletterController{DB: db, Mailer: mailer, BaseURL: baseURL}
}

// Subscribe adds an email to the list, reactivating it if it was
// previously unsubscribed. Public.
func (ctl *NewsletterController) Subscribe(c *gin.Context) {
	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil || !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Valid email is required")
		return
	}

	var existing models.NewsletterSubscriber
	err := ctl.DB.Where("email = ?", input.Email).First(&existing).Error
	switch {
	case err == nil && existing.Active:
		c.JSON(http.StatusOK, gin.H{
			"message":           "You are already subscribed to our newsletter!",
			"alreadySubscribed": true,
		})

	case err == nil:
		updates := map[string]interface{}{"active": true, "subscribed_at": time.Now()}
		if err := ctl.DB.Model(&existing).Updates(updates).Error; err != nil {
			log.Printf("Error reactivating subscription: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reactivate subscription")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Welcome back! Your subscription has been reactivated.",
			"reactivated": true,
		})

	case errors.Is(err, gorm.ErrRecordNotFound):
		subscriber := models.NewsletterSubscriber{Email: input.Email, Name: input.Name, Active: true}
		if err := ctl.DB.Create(&subscriber).Error; err != nil {
			// Concurrent subscribe of the same email lands on the unique index.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusOK, gin.H{
					"message":           "You are already subscribed to our newsletter!",
					"alreadySubscribed": true,
				})
				return
			}
			log.Printf("Error inserting subscriber: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to subscribe to newsletter")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Successfully subscribed to newsletter!",
			"subscribed": true,
		})

	default:
		log.Printf("Error checking existing subscriber: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to process subscription")
	}
}

// Unsubscribe deactivates a subscription. Public, JSON variant.
func (ctl *NewsletterController) Unsubscribe(c *gin.Context) {
	var input UnsubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Email is required")
		return
	}

	result := ctl.DB.Model(&models.NewsletterSubscriber{}).
		Where("email = ?", input.Email).
		Update("active", false)
	if result.Error != nil {
		log.Printf("Error unsubscribing: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Email not found in our records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully unsubscribed from newsletter"})
}

// UnsubscribeLink serves the link clicked from newsletter footers and
// renders a small confirmation page. Public.
func (ctl *NewsletterController) UnsubscribeLink(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		renderUnsubscribePage(c, http.StatusBadRequest, "Unsubscribe",
			"<p>Email parameter is required.</p>")
		return
	}

	result := ctl.DB.Model(&models.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("active", false)
	if result.Error != nil {
		log.Printf("Error unsubscribing: %v", result.Error)
		renderUnsubscribePage(c, http.StatusInternalServerError, "Error",
			"<p>Failed to unsubscribe. Please try again later.</p>")
		return
	}
	if result.RowsAffected == 0 {
		renderUnsubscribePage(c, http.StatusNotFound, "Not Found",
			"<p>Email not found in our records.</p>")
		return
	}

	renderUnsubscribePage(c, http.StatusOK,
		`<span style="color: #10b981;">Successfully Unsubscribed</span>`,
		`<p>You have been unsubscribed from our newsletter.</p>
		<p style="color: #6b7280; font-size: 0.875rem;">You can resubscribe at any time.</p>`)
}

func renderUnsubscribePage(c *gin.Context, status int, title, body string) {
	page := fmt.Sprintf(`<html>
	<body style="font-family: Arial, sans-serif; padding: 2rem; text-align: center;">
		<h2>%s</h2>
		%s
	</body>
</html>`, title, body)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// ListSubscribers returns the active list, newest first. Admin only.
func (ctl *NewsletterController) ListSubscribers(c *gin.Context) {
	var subscribers []models.NewsletterSubscriber
	if err := ctl.DB.Where("active = ?", true).Order("subscribed_at DESC").Find(&subscribers).Error; err != nil {
		log.Printf("Error fetching subscribers: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}
	c.JSON(http.StatusOK, subscribers)
}

// ListDrafts returns all drafts, most recently edited first. Admin only.
func (ctl *NewsletterController) ListDrafts(c *gin.Context) {
	var drafts []models.NewsletterDraft
	if err := ctl.DB.Order("updated_at DESC").Find(&drafts).Error; err != nil {
		log.Printf("Error fetching drafts: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch drafts")
		return
	}
	c.JSON(http.StatusOK, drafts)
}

// GetDraft returns one draft by id. Admin only.
func (ctl *NewsletterController) GetDraft(c *gin.Context) {
	var draft models.NewsletterDraft
	if err := ctl.DB.First(&draft, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Draft not found")
		} else {
			log.Printf("Error fetching draft: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch draft")
		}
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreateDraft saves a new draft. Admin only.
func (ctl *NewsletterController) CreateDraft(c *gin.Context) {
	var input DraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Subject and content are required")
		return
	}

	draft := models.NewsletterDraft{Subject: input.Subject, Content: input.Content}
	if err := ctl.DB.Create(&draft).Error; err != nil {
		log.Printf("Error creating draft: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create draft")
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// UpdateDraft edits a draft and refreshes its updated_at. Admin only.
func (ctl *NewsletterController) UpdateDraft(c *gin.Context) {
	var input DraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Subject and content are required")
		return
	}

	result := ctl.DB.Model(&models.NewsletterDraft{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{"subject": input.Subject, "content": input.Content})
	if result.Error != nil {
		log.Printf("Error updating draft: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update draft")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Draft not found")
		return
	}

	var draft models.NewsletterDraft
	if err := ctl.DB.First(&draft, "id = ?", c.Param("id")).Error; err != nil {
		log.Printf("Error fetching updated draft: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// DeleteDraft removes a draft. Admin only.
func (ctl *NewsletterController) DeleteDraft(c *gin.Context) {
	result := ctl.DB.Where("id = ?", c.Param("id")).Delete(&models.NewsletterDraft{})
	if result.Error != nil {
		log.Printf("Error deleting draft: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete draft")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Draft not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted successfully"})
}

// Send broadcasts to every active subscriber and appends one send-history
// row. A saved draft may be sent at most once; the unique index on
// draft_id backstops the pre-check under concurrent sends. Admin only.
func (ctl *NewsletterController) Send(c *gin.Context) {
	var input SendNewsletterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Subject and content are required")
		return
	}

	var subscribers []models.NewsletterSubscriber
	if err := ctl.DB.Where("active = ?", true).Find(&subscribers).Error; err != nil {
		log.Printf("Error fetching subscribers: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}
	if len(subscribers) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No active subscribers found")
		return
	}

	if input.DraftID != nil {
		var count int64
		if err := ctl.DB.Model(&models.NewsletterSend{}).
			Where("draft_id = ?", *input.DraftID).
			Count(&count).Error; err != nil {
			log.Printf("Error checking send history: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check send history")
			return
		}
		if count > 0 {
			utils.RespondWithError(c, http.StatusConflict,
				"This draft has already been sent. Create a new draft to send again.")
			return
		}
	}

	sent, failed := 0, 0
	for _, subscriber := range subscribers {
		body := ctl.withUnsubscribeFooter(input.Content, subscriber.Email)
		if err := ctl.Mailer.SendBulk(subscriber.Email, input.Subject, body); err != nil {
			log.Printf("Error sending to %s: %v", subscriber.Email, err)
			failed++
			continue
		}
		sent++
	}
	if !ctl.Mailer.Enabled() {
		log.Printf("[MOCK] Would send newsletter %q to %d subscribers", input.Subject, len(subscribers))
	}

	send := models.NewsletterSend{
		DraftID:        input.DraftID,
		Subject:        input.Subject,
		RecipientCount: sent,
	}
	if err := ctl.DB.Create(&send).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict,
				"This draft has already been sent. Create a new draft to send again.")
			return
		}
		log.Printf("Error logging send history: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record send history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Newsletter sent successfully",
		"sent":    sent,
		"failed":  failed,
		"total":   len(subscribers),
	})
}

func (ctl *NewsletterController) withUnsubscribeFooter(content, email string) string {
	return fmt.Sprintf(`%s
		<hr style="margin: 20px 0; border: none; border-top: 1px solid #ddd;">
		<p style="font-size: 12px; color: #666;">
			<a href="%s/api/newsletter/unsubscribe?email=%s">Unsubscribe from this newsletter</a>
		</p>`, content, ctl.BaseURL, url.QueryEscape(email))
}

// SendHistory lists past broadcasts, newest first. Admin only.
func (ctl *NewsletterController) SendHistory(c *gin.Context) {
	var sends []models.NewsletterSend
	if err := ctl.DB.Order("sent_at DESC").Find(&sends).Error; err != nil {
		log.Printf("Error fetching send history: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch send history")
		return
	}
	c.JSON(http.StatusOK, sends)
}
