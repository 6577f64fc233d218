// services/email_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"valentino-backend/models"
)

// Mailer is the email-sending capability the controllers depend on.
type Mailer interface {
	SendClientConfirmation(appointment *models.Appointment) error
	SendOwnerNotification(appointment *models.Appointment) error
	SendBulk(email, subject, htmlBody string) error
	Enabled() bool
}

// NewMailerFromEnv selects the SMTP mailer when SMTP_HOST is configured,
// otherwise a disabled mailer that reports synthetic success.
func NewMailerFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP not configured, email sending disabled")
		return &NoopMailer{}
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}

	user := os.Getenv("SMTP_USER")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}
	owner := os.Getenv("OWNER_EMAIL")
	if owner == "" {
		owner = user
	}

	return &SMTPMailer{
		dialer:     gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS")),
		from:       from,
		ownerEmail: owner,
	}
}

// SMTPMailer delivers mail through a configured SMTP transport.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	ownerEmail string
}

func (m *SMTPMailer) Enabled() bool { return true }

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendClientConfirmation(a *models.Appointment) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2d5016;">Thank you for your appointment request!</h2>
			<p>Dear %s,</p>
			<p>We have received your appointment request for tree services. Here are the details:</p>
			<div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
				<p><strong>Service Type:</strong> %s</p>
				<p><strong>Date:</strong> %s</p>
				<p><strong>Time:</strong> %s</p>
				<p><strong>Address:</strong> %s</p>%s
			</div>
			<p>We will review your request and confirm the appointment shortly.</p>
			<p>Best regards,<br>Valentino Tree Team</p>
		</div>`,
		a.Name, a.ServiceType, a.Date, a.Time, a.Address, messageBlock(a))

	if err := m.send(a.Email, "Appointment Confirmation - Valentino Tree", body); err != nil {
		return fmt.Errorf("client confirmation to %s: %w", a.Email, err)
	}
	log.Printf("Client confirmation email sent to %s", a.Email)
	return nil
}

func (m *SMTPMailer) SendOwnerNotification(a *models.Appointment) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2d5016;">New Appointment Request</h2>
			<p>You have received a new appointment request:</p>
			<div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
				<p><strong>Name:</strong> %s</p>
				<p><strong>Email:</strong> %s</p>
				<p><strong>Phone:</strong> %s</p>
				<p><strong>Service Type:</strong> %s</p>
				<p><strong>Date:</strong> %s</p>
				<p><strong>Time:</strong> %s</p>
				<p><strong>Address:</strong> %s</p>%s
			</div>
			<p>Please log into the admin dashboard to confirm or manage this appointment.</p>
		</div>`,
		a.Name, a.Email, a.Phone, a.ServiceType, a.Date, a.Time, a.Address, messageBlock(a))

	if err := m.send(m.ownerEmail, "New Appointment Request - Valentino Tree", body); err != nil {
		return fmt.Errorf("owner notification to %s: %w", m.ownerEmail, err)
	}
	log.Printf("Owner notification email sent to %s", m.ownerEmail)
	return nil
}

func (m *SMTPMailer) SendBulk(email, subject, htmlBody string) error {
	return m.send(email, subject, htmlBody)
}

func messageBlock(a *models.Appointment) string {
	if a.Message == nil || *a.Message == "" {
		return ""
	}
	return fmt.Sprintf("\n\t\t\t\t<p><strong>Message:</strong> %s</p>", *a.Message)
}

// NoopMailer stands in when SMTP is not configured. Every call reports
// success so the calling flow behaves as if mail went out.
type NoopMailer struct{}

func (NoopMailer) Enabled() bool { return false }

func (NoopMailer) SendClientConfirmation(a *models.Appointment) error {
	log.Printf("[MOCK] Would send client confirmation to %s", a.Email)
	return nil
}

func (NoopMailer) SendOwnerNotification(a *models.Appointment) error {
	log.Printf("[MOCK] Would send owner notification for appointment %d", a.ID)
	return nil
}

func (NoopMailer) SendBulk(email, subject, htmlBody string) error {
	return nil
}
