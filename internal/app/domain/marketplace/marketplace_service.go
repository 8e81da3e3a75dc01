package marketplace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the public marketplace browse surface.
type Service interface {
	BrowseMaps(ctx context.Context, filter SearchFilter) ([]models.MapSummary, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repository Repository
}

// NewService creates a new instance of ServiceImpl.
func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
	}
}

// BrowseMaps lists public maps matching the filter, newest first.
func (s *ServiceImpl) BrowseMaps(ctx context.Context, filter SearchFilter) ([]models.MapSummary, error) {
	ctx, span := otel.Tracer("MarketplaceService").Start(ctx, "BrowseMaps", trace.WithAttributes(
		attribute.String("filter.category", filter.Category),
		attribute.String("filter.query", filter.Query),
	))
	defer span.End()

	results, err := s.repository.SearchMaps(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to browse maps", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to browse maps")
		return nil, err
	}

	// FilterMaps owns the final match semantics over the page: the SQL
	// pattern matches the raw query, the in-memory pass matches the
	// trimmed one.
	results = FilterMaps(results, filter.Category, filter.Query)
	if results == nil {
		results = []models.MapSummary{}
	}

	span.SetStatus(codes.Ok, "Maps listed")
	return results, nil
}
