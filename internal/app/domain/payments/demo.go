package payments

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Provider = (*DemoProvider)(nil)

// DemoProvider issues placeholder intents so the purchase flow can be
// exercised without Stripe keys. It has no signing secret, so it rejects
// every webhook; demo intents never settle.
type DemoProvider struct{}

func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

func (p *DemoProvider) Name() string { return "demo" }

func (p *DemoProvider) CreatePaymentIntent(amount int64, currency string, metadata map[string]string) (models.PaymentIntentResult, error) {
	id := uuid.NewString()
	return models.PaymentIntentResult{
		IntentID:     "demo_pi_" + id,
		ClientSecret: "demo_secret_" + id,
	}, nil
}

func (p *DemoProvider) VerifyWebhook(payload []byte, sigHeader string) (models.PaymentEvent, error) {
	return models.PaymentEvent{}, fmt.Errorf("demo payment provider cannot verify webhooks: %w", models.ErrBadRequest)
}
