package utils

import (
	"fmt"
	"html"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is a single html email with a plain text fallback
type EmailMessage struct {
	ToEmail     string
	ToName      string
	Subject     string
	TextContent string
	HTMLContent string
}

// EmailService is any service that can send emails
type EmailService interface {
	Send(msg EmailMessage) error
}

// Mailer is the service used for transactional mail
var Mailer EmailService = NewConsoleEmailService()

type sendgridService struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgridEmailService sends mail through the SendGrid v3 API
func NewSendgridEmailService(apiKey, senderName, senderEmail string) EmailService {
	return &sendgridService{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(senderName, senderEmail),
	}
}

func (svc *sendgridService) Send(msg EmailMessage) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	m := sgmail.NewSingleEmail(svc.from, msg.Subject, to, msg.TextContent, msg.HTMLContent)

	res, err := svc.client.Send(m)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type consoleService struct{}

// NewConsoleEmailService logs mail instead of sending it
func NewConsoleEmailService() EmailService {
	return consoleService{}
}

func (consoleService) Send(msg EmailMessage) error {
	log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("text", msg.TextContent).
		Msg("[EMAIL]")
	return nil
}

// SendEmailAsync sends in the background and logs failures
func SendEmailAsync(msg EmailMessage) {
	mailer := Mailer
	go func() {
		if err := mailer.Send(msg); err != nil {
			log.Error().Err(err).Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("[EMAIL] failed to send")
		}
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0369A1; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1E293B; line-height: 1.6; }
			.info-box { background: #E0F2FE; padding: 15px; border-radius: 4px; border-left: 4px solid #0369A1; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// WelcomeEmail is sent after signup
func WelcomeEmail(email, name string) EmailMessage {
	return EmailMessage{
		ToEmail:     email,
		ToName:      name,
		Subject:     "Welcome aboard",
		TextContent: fmt.Sprintf("Hi %s, your account is ready. Browse the catalog and start learning.", name),
		HTMLContent: getEmailTemplate("Welcome aboard", fmt.Sprintf(
			`<p>Hi %s,</p><p>Your account is ready. Browse the catalog and start learning.</p>`, html.EscapeString(name))),
	}
}

// PurchaseReceiptEmail confirms a completed course purchase
func PurchaseReceiptEmail(email, name, courseTitle string, price float64, courseURL string) EmailMessage {
	amount := FormatPrice(price)
	return EmailMessage{
		ToEmail:     email,
		ToName:      name,
		Subject:     "Purchase confirmed: " + courseTitle,
		TextContent: fmt.Sprintf("Hi %s, you now have full access to %s (%s). Start here: %s", name, courseTitle, amount, courseURL),
		HTMLContent: getEmailTemplate("Purchase confirmed", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>You now have full access to <strong>%s</strong>.</p>
			<div class="info-box">Amount paid: <strong>%s</strong></div>
			<p><a href="%s">Start learning</a></p>
		`, html.EscapeString(name), html.EscapeString(courseTitle), amount, html.EscapeString(courseURL))),
	}
}
