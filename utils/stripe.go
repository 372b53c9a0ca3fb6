package utils

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// CheckoutParams describes a single-item payment checkout
type CheckoutParams struct {
	CustomerID  string
	ProductName string
	Description string
	UnitAmount  int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutResult is the hosted checkout session the buyer is redirected to
type CheckoutResult struct {
	SessionID string
	URL       string
}

// WebhookEvent is a verified payment event
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	Metadata  map[string]string
	Raw       []byte
}

// PaymentGateway is the payment processor used by checkout and the webhook
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResult, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// Payments is the gateway used by the handlers. It is replaced in tests.
var Payments PaymentGateway

// StripeGateway implements PaymentGateway with the Stripe API
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

var _ PaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(apiKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (s *StripeGateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", errors.Wrap(err, "stripe create customer")
	}
	return customer.ID, nil
}

func (s *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutResult, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(p.ProductName),
	}
	// Stripe rejects empty descriptions
	if p.Description != "" {
		productData.Description = stripe.String(p.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(p.Currency),
					ProductData: productData,
					UnitAmount:  stripe.Int64(p.UnitAmount),
				},
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "stripe create checkout session")
	}
	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (s *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}

	out := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
		Raw:  payload,
	}

	if out.Type == EventCheckoutSessionCompleted && event.Data != nil {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, errors.Wrap(err, "decode checkout session")
		}
		out.SessionID = session.ID
		out.Metadata = session.Metadata
	}

	return out, nil
}
