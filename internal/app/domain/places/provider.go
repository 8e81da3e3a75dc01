package places

import (
	"context"

	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
	"github.com/machimap/machimap/internal/pkg/config"
)

// MaxResults caps every search response, live or demo.
const MaxResults = 5

// Provider resolves a free-text query into place candidates.
type Provider interface {
	Search(ctx context.Context, query string) ([]models.PlaceResult, error)
	// Name identifies the variant in logs and health output.
	Name() string
}

// NewProvider picks the variant once at startup: live when an API key is
// configured, demo otherwise. There is no silent per-request switching.
func NewProvider(cfg config.PlacesConfig, logger *zap.Logger) Provider {
	if cfg.APIKey == "" {
		logger.Info("Place search running in demo mode, no API key configured")
		return NewDemoProvider()
	}
	return NewLiveProvider(cfg.APIKey, logger)
}
