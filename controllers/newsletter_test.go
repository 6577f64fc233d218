package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"valentino-backend/models"
)

func newNewsletterRouter(db *gorm.DB, mailer *recordingMailer) *gin.Engine {
	r := gin.New()
	ctl := &NewsletterController{DB: db, Mailer: mailer, BaseURL: "http://localhost:3000"}
	r.POST("/api/newsletter/subscribe", ctl.Subscribe)
	r.GET("/api/newsletter/unsubscribe", ctl.UnsubscribeLink)
	r.POST("/api/newsletter/unsubscribe", ctl.Unsubscribe)
	r.GET("/api/newsletter/subscribers", ctl.ListSubscribers)
	r.GET("/api/newsletter/drafts", ctl.ListDrafts)
	r.GET("/api/newsletter/drafts/:id", ctl.GetDraft)
	r.POST("/api/newsletter/drafts", ctl.CreateDraft)
	r.PUT("/api/newsletter/drafts/:id", ctl.UpdateDraft)
	r.DELETE("/api/newsletter/drafts/:id", ctl.DeleteDraft)
	r.POST("/api/newsletter/send", ctl.Send)
	r.GET("/api/newsletter/sends", ctl.SendHistory)
	return r
}

func TestSubscribeLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "sub@example.com", "name": "Sub"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["subscribed"])

	// Subscribing again is an idempotent no-op.
	w = doJSON(t, r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "sub@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["alreadySubscribed"])

	var original models.NewsletterSubscriber
	require.NoError(t, db.Where("email = ?", "sub@example.com").First(&original).Error)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&original).UpdateColumn("subscribed_at", past).Error)

	w = doJSON(t, r, http.MethodPost, "/api/newsletter/unsubscribe", gin.H{"email": "sub@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": "sub@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["reactivated"])

	// Same row, refreshed timestamp, no duplicate.
	var reactivated models.NewsletterSubscriber
	require.NoError(t, db.Where("email = ?", "sub@example.com").First(&reactivated).Error)
	assert.Equal(t, original.ID, reactivated.ID)
	assert.True(t, reactivated.Active)
	assert.True(t, reactivated.SubscribedAt.After(past))

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSubscriber{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubscribeRejectsMalformedEmail(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	for _, email := range []string{"", "plain", "missing@domain", "two words@x.com"} {
		w := doJSON(t, r, http.MethodPost, "/api/newsletter/subscribe", gin.H{"email": email})
		assert.Equal(t, http.StatusBadRequest, w.Code, "email %q", email)
	}
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/unsubscribe", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnsubscribeLinkRendersConfirmation(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "link@example.com", Active: true}).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/newsletter/unsubscribe", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/newsletter/unsubscribe?email=link@example.com", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Successfully Unsubscribed")

	var sub models.NewsletterSubscriber
	require.NoError(t, db.Where("email = ?", "link@example.com").First(&sub).Error)
	assert.False(t, sub.Active)
}

func TestListSubscribersActiveOnly(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "on@example.com", Active: true}).Error)
	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "off@example.com", Active: false}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/newsletter/subscribers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.NewsletterSubscriber
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "on@example.com", listed[0].Email)
}

func TestDraftCRUD(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/drafts", gin.H{"subject": "Hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/newsletter/drafts", gin.H{"subject": "Hello", "content": "<p>Hi</p>"})
	require.Equal(t, http.StatusCreated, w.Code)

	var draft models.NewsletterDraft
	require.NoError(t, db.First(&draft).Error)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&draft).UpdateColumn("updated_at", past).Error)

	w = doJSON(t, r, http.MethodPut, "/api/newsletter/drafts/1", gin.H{"subject": "Hello v2", "content": "<p>Hi again</p>"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&draft, draft.ID).Error)
	assert.Equal(t, "Hello v2", draft.Subject)
	assert.True(t, draft.UpdatedAt.After(past))

	w = doJSON(t, r, http.MethodPut, "/api/newsletter/drafts/999", gin.H{"subject": "X", "content": "Y"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/newsletter/drafts/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/newsletter/drafts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/newsletter/drafts/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendRequiresActiveSubscribers(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/send", gin.H{"subject": "S", "content": "C"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No active subscribers")
}

func TestSendDraftAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	r := newNewsletterRouter(db, mailer)

	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "a@example.com", Active: true}).Error)
	draft := models.NewsletterDraft{Subject: "Weekly", Content: "<p>News</p>"}
	require.NoError(t, db.Create(&draft).Error)

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/send", gin.H{
		"draftId": draft.ID, "subject": draft.Subject, "content": draft.Content,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["sent"])
	assert.EqualValues(t, 0, body["failed"])

	// Second send of the same draft is a conflict and leaves one row.
	w = doJSON(t, r, http.MethodPost, "/api/newsletter/send", gin.H{
		"draftId": draft.ID, "subject": draft.Subject, "content": draft.Content,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already been sent")

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSend{}).Where("draft_id = ?", draft.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSendAdHocRepeatable(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "a@example.com", Active: true}).Error)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/newsletter/send", gin.H{"subject": "Ad hoc", "content": "C"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSend{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSendCountsFailuresPerRecipient(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{failBulkFor: map[string]bool{"bad@example.com": true}}
	r := newNewsletterRouter(db, mailer)

	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "good@example.com", Active: true}).Error)
	require.NoError(t, db.Create(&models.NewsletterSubscriber{Email: "bad@example.com", Active: true}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/newsletter/send", gin.H{"subject": "S", "content": "C"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["sent"])
	assert.EqualValues(t, 1, body["failed"])
	assert.EqualValues(t, 2, body["total"])

	// recipient_count reflects successes only.
	var send models.NewsletterSend
	require.NoError(t, db.First(&send).Error)
	assert.Equal(t, 1, send.RecipientCount)
	assert.Nil(t, send.DraftID)
}

func TestSendHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	r := newNewsletterRouter(db, &recordingMailer{})

	older := models.NewsletterSend{Subject: "First", RecipientCount: 1, SentAt: time.Now().Add(-time.Hour)}
	newer := models.NewsletterSend{Subject: "Second", RecipientCount: 2, SentAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	w := doJSON(t, r, http.MethodGet, "/api/newsletter/sends", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sends []models.NewsletterSend
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sends))
	require.Len(t, sends, 2)
	assert.Equal(t, "Second", sends[0].Subject)
}
