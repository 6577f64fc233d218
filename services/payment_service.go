// services/payment_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"valentino-backend/models"
)

// Payment event types the store understands.
const (
	EventCheckoutCompleted  = "checkout.session.completed"
	EventAsyncPaymentFailed = "checkout.session.async_payment_failed"
)

// CheckoutSession identifies one checkout attempt with the provider.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// PaymentEvent is a provider webhook event after signature verification.
type PaymentEvent struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	Raw             []byte
}

// PaymentProvider is the checkout capability. When disabled, checkout
// synthesizes a local session and the webhook is a no-op.
type PaymentProvider interface {
	Enabled() bool
	CreateCheckoutSession(product *models.Product, customerEmail, customerName string) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

// NewPaymentProviderFromEnv selects the Stripe provider when
// STRIPE_SECRET_KEY is configured, otherwise the mock provider.
func NewPaymentProviderFromEnv() PaymentProvider {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Println("Stripe not configured, checkout runs in mock mode")
		return &MockProvider{baseURL: baseURL}
	}

	stripe.Key = key
	return &StripeProvider{
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		baseURL:       baseURL,
	}
}

// StripeProvider creates real Checkout Sessions and verifies webhook
// signatures.
type StripeProvider struct {
	webhookSecret string
	baseURL       string
}

func (p *StripeProvider) Enabled() bool { return true }

func (p *StripeProvider) CreateCheckoutSession(product *models.Product, customerEmail, customerName string) (*CheckoutSession, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(product.Name),
	}
	if product.Description != nil {
		productData.Description = stripe.String(*product.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String("usd"),
				UnitAmount:  stripe.Int64(product.Price),
				ProductData: productData,
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:    stripe.String(p.baseURL + "/store/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.baseURL + "/store/cancel"),
		CustomerEmail: stripe.String(customerEmail),
	}
	params.AddMetadata("product_id", strconv.FormatUint(uint64(product.ID), 10))
	params.AddMetadata("customer_name", customerName)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{SessionID: s.ID, RedirectURL: s.URL}, nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification: %w", err)
	}

	pe := &PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
		Raw:  event.Data.Raw,
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err == nil {
		pe.SessionID = sess.ID
		if sess.PaymentIntent != nil {
			pe.PaymentIntentID = sess.PaymentIntent.ID
		}
	}
	return pe, nil
}

// MockProvider synthesizes checkout sessions for local development.
type MockProvider struct {
	baseURL string
}

func (p *MockProvider) Enabled() bool { return false }

func (p *MockProvider) CreateCheckoutSession(product *models.Product, customerEmail, customerName string) (*CheckoutSession, error) {
	sessionID := "cs_test_" + uuid.NewString()
	log.Printf("[MOCK] Would create checkout for product %d (%s), customer %s", product.ID, product.Name, customerEmail)
	return &CheckoutSession{
		SessionID:   sessionID,
		RedirectURL: fmt.Sprintf("%s/store/success?session_id=%s", p.baseURL, sessionID),
	}, nil
}

func (p *MockProvider) VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	return nil, fmt.Errorf("payment provider disabled")
}
