package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"valentino-backend/models"
	"valentino-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Appointment{},
		&models.NewsletterSubscriber{},
		&models.NewsletterDraft{},
		&models.NewsletterSend{},
		&models.Product{},
		&models.Order{},
		&models.WebhookEvent{},
	))
	return db
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// recordingMailer captures outgoing mail and can be told to fail.
type recordingMailer struct {
	confirmations []string
	notifications int
	bulk          []string
	failAll       bool
	failBulkFor   map[string]bool
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) SendClientConfirmation(a *models.Appointment) error {
	if m.failAll {
		return fmt.Errorf("smtp unavailable")
	}
	m.confirmations = append(m.confirmations, a.Email)
	return nil
}

func (m *recordingMailer) SendOwnerNotification(a *models.Appointment) error {
	if m.failAll {
		return fmt.Errorf("smtp unavailable")
	}
	m.notifications++
	return nil
}

func (m *recordingMailer) SendBulk(email, subject, htmlBody string) error {
	if m.failAll || m.failBulkFor[email] {
		return fmt.Errorf("smtp unavailable")
	}
	m.bulk = append(m.bulk, email)
	return nil
}

// stubPayments implements the payment capability for tests.
type stubPayments struct {
	enabled      bool
	failCheckout bool
	sessions     int
	event        *services.PaymentEvent
	verifyErr    error
}

func (p *stubPayments) Enabled() bool { return p.enabled }

func (p *stubPayments) CreateCheckoutSession(product *models.Product, customerEmail, customerName string) (*services.CheckoutSession, error) {
	if p.failCheckout {
		return nil, fmt.Errorf("provider down")
	}
	p.sessions++
	id := fmt.Sprintf("cs_test_stub_%d", p.sessions)
	return &services.CheckoutSession{
		SessionID:   id,
		RedirectURL: "http://localhost:3000/store/success?session_id=" + id,
	}, nil
}

func (p *stubPayments) VerifyWebhook(payload []byte, signature string) (*services.PaymentEvent, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.event, nil
}
