package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []EmailMessage
}

func (m *captureMailer) Send(msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestPurchaseReceiptEmail_EscapesHTML(t *testing.T) {
	msg := PurchaseReceiptEmail("buyer@example.com", "<Bob>", "Go & Rust", 1234.5, "http://lms.test/courses/1")

	assert.Equal(t, "buyer@example.com", msg.ToEmail)
	assert.Equal(t, "Purchase confirmed: Go & Rust", msg.Subject)
	assert.Contains(t, msg.TextContent, "$1,234.50")
	assert.Contains(t, msg.HTMLContent, "&lt;Bob&gt;")
	assert.Contains(t, msg.HTMLContent, "Go &amp; Rust")
	assert.NotContains(t, msg.HTMLContent, "<Bob>")
}

func TestWelcomeEmail(t *testing.T) {
	msg := WelcomeEmail("new@example.com", "Ada")

	assert.Equal(t, "Ada", msg.ToName)
	assert.Contains(t, msg.TextContent, "Hi Ada")
	assert.Contains(t, msg.HTMLContent, "Welcome aboard")
}

func TestSendEmailAsync_UsesCurrentMailer(t *testing.T) {
	mailer := &captureMailer{}
	previous := Mailer
	Mailer = mailer
	t.Cleanup(func() { Mailer = previous })

	SendEmailAsync(WelcomeEmail("a@example.com", "A"))

	assert.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestConsoleEmailService_NeverFails(t *testing.T) {
	assert.NoError(t, NewConsoleEmailService().Send(WelcomeEmail("a@example.com", "A")))
}
