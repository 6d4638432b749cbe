package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/example/clayworks/internal/config"
)

// Mailer sends transactional email over SMTP. Every send is best-effort:
// callers that need fire-and-forget semantics use SendAsync, and a dispatch
// failure is only ever logged.
type Mailer struct {
	cfg *config.Config
}

// NewMailer constructs a Mailer.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers a single message synchronously.
func (m *Mailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		log.Println("[Mail] SMTP not configured, skipping send")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	return dialer.DialAndSend(msg)
}

// SendAsync dispatches the message on a goroutine and logs failures.
func (m *Mailer) SendAsync(to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Printf("[Mail] failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// NotifyAdmin sends a copy of operational events to the studio inbox.
func (m *Mailer) NotifyAdmin(subject, body string) {
	if m.cfg.AdminNotifyEmail == "" {
		return
	}
	m.SendAsync(m.cfg.AdminNotifyEmail, subject, body)
}

// OtpEmail renders the one-time code message.
func OtpEmail(code, action string) (subject, body string) {
	subject = "Your Clayworks verification code"
	body = fmt.Sprintf(
		"<p>Your one-time code for %s is <b>%s</b>.</p><p>It expires in 10 minutes.</p>",
		action, code,
	)
	return subject, body
}

// OrderConfirmationEmail renders the post-checkout message.
func OrderConfirmationEmail(name, productName string, amount float64) (subject, body string) {
	subject = "Your Clayworks order is confirmed"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order of <b>%s</b>. Total: %.2f.</p><p>We'll let you know once it ships.</p>",
		name, productName, amount,
	)
	return subject, body
}

// OrderCancellationEmail renders the cancellation message. Wording differs
// depending on who initiated the cancellation.
func OrderCancellationEmail(name, orderID string, byAdmin bool) (subject, body string) {
	subject = "Your Clayworks order was cancelled"
	if byAdmin {
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Order %s was cancelled by the studio. If you were charged, the amount will be refunded.</p>",
			name, orderID,
		)
	} else {
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your cancellation of order %s has been processed.</p>",
			name, orderID,
		)
	}
	return subject, body
}

// WorkshopRegistrationEmail renders the seat-confirmation message.
func WorkshopRegistrationEmail(name, title string, seats int) (subject, body string) {
	subject = "Workshop registration confirmed"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>You're booked for <b>%s</b> (%d seat(s)). See you at the studio!</p>",
		name, title, seats,
	)
	return subject, body
}

// WorkshopCancellationEmail renders the seat-release message.
func WorkshopCancellationEmail(name, title string) (subject, body string) {
	subject = "Workshop registration cancelled"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>Your registration for <b>%s</b> has been cancelled and your seats released.</p>",
		name, title,
	)
	return subject, body
}
