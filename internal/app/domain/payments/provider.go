package payments

import (
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
	"github.com/machimap/machimap/internal/pkg/config"
)

// Provider abstracts the payment processor behind intent creation and
// webhook verification.
type Provider interface {
	CreatePaymentIntent(amount int64, currency string, metadata map[string]string) (models.PaymentIntentResult, error)
	VerifyWebhook(payload []byte, sigHeader string) (models.PaymentEvent, error)
	// Name identifies the variant in logs and health output.
	Name() string
}

// NewProvider picks the variant once at startup: stripe when a secret key is
// configured, demo otherwise.
func NewProvider(cfg config.StripeConfig, logger *zap.Logger) Provider {
	if cfg.SecretKey == "" {
		logger.Info("Payments running in demo mode, no Stripe key configured")
		return NewDemoProvider()
	}
	return NewStripeProvider(cfg)
}
