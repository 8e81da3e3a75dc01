package places

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service defines place candidate search for the editor.
type Service interface {
	Search(ctx context.Context, query string) ([]models.PlaceResult, error)
	ProviderName() string
}

type ServiceImpl struct {
	logger   *zap.Logger
	provider Provider
	cache    *cache.Cache
}

// NewService creates a new instance of ServiceImpl.
func NewService(provider Provider, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
		cache:    cache.New(cacheTTL, cacheCleanup),
	}
}

// Search resolves a query through the configured provider, serving repeats
// of the same normalized query from cache. Empty or whitespace queries
// return an empty set without touching the provider.
func (s *ServiceImpl) Search(ctx context.Context, query string) ([]models.PlaceResult, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.provider", s.provider.Name()),
	))
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []models.PlaceResult{}, nil
	}

	if cached, found := s.cache.Get(normalized); found {
		span.SetStatus(codes.Ok, "Cache hit")
		return cached.([]models.PlaceResult), nil
	}

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.Error("Place search failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place search failed")
		return nil, err
	}
	if results == nil {
		results = []models.PlaceResult{}
	}

	s.cache.Set(normalized, results, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Search complete")
	return results, nil
}

// ProviderName reports which variant is serving searches.
func (s *ServiceImpl) ProviderName() string {
	return s.provider.Name()
}
