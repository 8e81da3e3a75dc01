package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/machimap/machimap/internal/app/models"
	"github.com/machimap/machimap/internal/pkg/config"
)

var _ Provider = (*StripeProvider)(nil)

// StripeProvider talks to the real Stripe API.
type StripeProvider struct {
	webhookSecret string
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	stripe.Key = cfg.SecretKey
	return &StripeProvider{webhookSecret: cfg.WebhookSecret}
}

func (p *StripeProvider) Name() string { return "stripe" }

// CreatePaymentIntent creates a Stripe payment intent with automatic
// payment methods enabled.
func (p *StripeProvider) CreatePaymentIntent(amount int64, currency string, metadata map[string]string) (models.PaymentIntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return models.PaymentIntentResult{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return models.PaymentIntentResult{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the signing
// secret and flattens the event into a processor-agnostic form. An invalid
// signature is an error; callers must not act on the payload.
func (p *StripeProvider) VerifyWebhook(payload []byte, sigHeader string) (models.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return models.PaymentEvent{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := models.PaymentEvent{Type: string(event.Type)}

	if event.Type == models.PaymentEventSucceeded {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return models.PaymentEvent{}, fmt.Errorf("failed to parse payment intent payload: %w", err)
		}
		out.PaymentIntentID = pi.ID
		out.Amount = pi.Amount
		out.Currency = string(pi.Currency)
		out.MapID = pi.Metadata["mapId"]
		out.UserID = pi.Metadata["userId"]
	}

	return out, nil
}
