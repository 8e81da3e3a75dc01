package maps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// LikeReader supplies like state for map projections. Implemented by the
// likes repository.
type LikeReader interface {
	CountLikes(ctx context.Context, mapID uuid.UUID) (int, error)
	IsLiked(ctx context.Context, mapID, userID uuid.UUID) (bool, error)
}

// Service defines map editing for one owner session plus read access.
// Ownership is enforced here, at the store boundary, not in any client.
type Service interface {
	CreateMap(ctx context.Context, userID uuid.UUID, req models.CreateMapRequest) (*models.Map, error)
	GetMap(ctx context.Context, mapID, viewerID uuid.UUID) (*models.MapWithSpots, error)
	GetUserMaps(ctx context.Context, userID uuid.UUID) ([]*models.Map, error)
	UpdateMap(ctx context.Context, mapID, userID uuid.UUID, req models.UpdateMapRequest) (*models.Map, error)
	UpdateSaleSettings(ctx context.Context, mapID, userID uuid.UUID, req models.SaleSettingsRequest) (*models.Map, error)
	DeleteMap(ctx context.Context, mapID, userID uuid.UUID) error

	AddSpot(ctx context.Context, mapID, userID uuid.UUID, place models.PlaceResult) (*models.Spot, error)
	UpdateSpot(ctx context.Context, mapID, userID, spotID uuid.UUID, req models.UpdateSpotRequest) (*models.Spot, error)
	RemoveSpot(ctx context.Context, mapID, userID, spotID uuid.UUID) error
	ReplaceSpots(ctx context.Context, mapID, userID uuid.UUID, spots []models.Spot) ([]models.Spot, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repository Repository
	likes      LikeReader
}

// NewService creates a new instance of ServiceImpl.
func NewService(repo Repository, likes LikeReader, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		likes:      likes,
	}
}

const maxTags = 10

// CreateMap creates a new empty map owned by userID.
func (s *ServiceImpl) CreateMap(ctx context.Context, userID uuid.UUID, req models.CreateMapRequest) (*models.Map, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "CreateMap", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("map.title", req.Title),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateMap"), zap.String("userID", userID.String()))

	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrValidation)
	}
	category := req.Category
	if category == "" {
		category = "other"
	}
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q: %w", category, models.ErrValidation)
	}

	now := time.Now()
	m := models.Map{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Category:    category,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateMap(ctx, m); err != nil {
		l.Error("Failed to create map", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create map")
		return nil, err
	}

	l.Info("Map created", zap.String("mapID", m.ID.String()))
	span.SetStatus(codes.Ok, "Map created")
	return &m, nil
}

// GetMap loads a map with its spots and like state. Private maps are only
// visible to their owner. A view by anyone other than the owner bumps the
// approximate view counter.
func (s *ServiceImpl) GetMap(ctx context.Context, mapID, viewerID uuid.UUID) (*models.MapWithSpots, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "GetMap", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
	))
	defer span.End()

	m, err := s.repository.GetMap(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	isOwner := viewerID != uuid.Nil && m.UserID == viewerID
	if !m.IsPublic && !isOwner {
		return nil, fmt.Errorf("map %s is private: %w", mapID, models.ErrForbidden)
	}

	if !isOwner {
		if err := s.repository.IncrementViewCount(ctx, mapID); err != nil {
			// View telemetry is approximate; a failed bump never fails the read.
			s.logger.Warn("Failed to increment view count", zap.String("mapID", mapID.String()), zap.Error(err))
		} else {
			m.ViewCount++
		}
	}

	spots, err := s.repository.GetSpots(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := &models.MapWithSpots{Map: m, Spots: spots}

	// Like data is decorative on a map read; a failed lookup serves 0/false
	// but leaves a trace in the logs.
	if count, err := s.likes.CountLikes(ctx, mapID); err != nil {
		s.logger.Warn("Failed to count likes", zap.String("mapID", mapID.String()), zap.Error(err))
	} else {
		out.LikeCount = count
	}
	if viewerID != uuid.Nil {
		if liked, err := s.likes.IsLiked(ctx, mapID, viewerID); err != nil {
			s.logger.Warn("Failed to check like status", zap.String("mapID", mapID.String()), zap.Error(err))
		} else {
			out.Liked = liked
		}
	}

	span.SetStatus(codes.Ok, "Map loaded")
	return out, nil
}

// GetUserMaps lists the maps owned by userID.
func (s *ServiceImpl) GetUserMaps(ctx context.Context, userID uuid.UUID) ([]*models.Map, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "GetUserMaps")
	defer span.End()

	maps, err := s.repository.GetUserMaps(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return maps, nil
}

// UpdateMap merges partial field updates into an owned map.
func (s *ServiceImpl) UpdateMap(ctx context.Context, mapID, userID uuid.UUID, req models.UpdateMapRequest) (*models.Map, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "UpdateMap", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
	))
	defer span.End()

	m, err := s.loadOwned(ctx, mapID, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", models.ErrValidation)
		}
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, fmt.Errorf("unknown category %q: %w", *req.Category, models.ErrValidation)
		}
		m.Category = *req.Category
	}
	m.UpdatedAt = time.Now()

	if err := s.repository.UpdateMap(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update map")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Map updated")
	return &m, nil
}

// UpdateSaleSettings updates the marketplace sale settings of an owned map.
func (s *ServiceImpl) UpdateSaleSettings(ctx context.Context, mapID, userID uuid.UUID, req models.SaleSettingsRequest) (*models.Map, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "UpdateSaleSettings", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
		attribute.Bool("map.for_sale", req.ForSale),
	))
	defer span.End()

	m, err := s.loadOwned(ctx, mapID, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !models.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", req.Category, models.ErrValidation)
	}
	tags := dedupeTags(req.Tags)
	if len(tags) > maxTags {
		return nil, fmt.Errorf("at most %d tags allowed: %w", maxTags, models.ErrValidation)
	}

	m.ForSale = req.ForSale
	m.Category = req.Category
	m.Tags = tags
	if req.ForSale {
		price := int64(500) // default listing price in JPY
		if req.Price != nil {
			price = *req.Price
		}
		if price <= 0 {
			return nil, fmt.Errorf("price must be positive: %w", models.ErrValidation)
		}
		m.Price = &price
	} else {
		m.Price = nil
	}
	m.UpdatedAt = time.Now()

	if err := s.repository.UpdateMap(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update sale settings")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Sale settings updated")
	return &m, nil
}

// DeleteMap deletes an owned map.
func (s *ServiceImpl) DeleteMap(ctx context.Context, mapID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("MapService").Start(ctx, "DeleteMap", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
	))
	defer span.End()

	if _, err := s.loadOwned(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.repository.DeleteMap(ctx, mapID); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Map deleted")
	return nil
}

// AddSpot appends a spot built from a place-search candidate to an owned
// map's collection and persists the append.
func (s *ServiceImpl) AddSpot(ctx context.Context, mapID, userID uuid.UUID, place models.PlaceResult) (*models.Spot, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "AddSpot", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
		attribute.String("spot.name", place.Name),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "AddSpot"), zap.String("mapID", mapID.String()))

	if _, err := s.loadOwned(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := validatePlace(place); err != nil {
		return nil, err
	}

	spots, err := s.repository.GetSpots(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	collection := NewSpotCollection(mapID, spots)
	spot := collection.Add(place)

	if err := s.repository.AddSpot(ctx, spot); err != nil {
		l.Error("Failed to persist spot", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist spot")
		return nil, err
	}

	if err := s.touch(ctx, mapID); err != nil {
		l.Warn("Failed to touch map timestamp", zap.Error(err))
	}

	l.Info("Spot added", zap.String("spotID", spot.ID.String()), zap.Int("sortOrder", spot.SortOrder))
	span.SetStatus(codes.Ok, "Spot added")
	return &spot, nil
}

// UpdateSpot merges partial field updates into one spot of an owned map.
// An unknown spot id yields ErrNotFound at the HTTP surface even though the
// collection itself treats it as a no-op.
func (s *ServiceImpl) UpdateSpot(ctx context.Context, mapID, userID, spotID uuid.UUID, req models.UpdateSpotRequest) (*models.Spot, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "UpdateSpot", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	if _, err := s.loadOwned(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if req.Name != nil && *req.Name == "" {
		return nil, fmt.Errorf("spot name cannot be empty: %w", models.ErrValidation)
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	spots, err := s.repository.GetSpots(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	collection := NewSpotCollection(mapID, spots)
	spot, found := collection.Update(spotID, req)
	if !found {
		return nil, fmt.Errorf("spot %s: %w", spotID, models.ErrNotFound)
	}

	if err := s.repository.UpdateSpot(ctx, spot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update spot")
		return nil, err
	}

	if err := s.touch(ctx, mapID); err != nil {
		s.logger.Warn("Failed to touch map timestamp", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "Spot updated")
	return &spot, nil
}

// RemoveSpot filters a spot out of an owned map's collection. Removing an
// unknown spot id is a no-op; remaining sort orders keep their values.
func (s *ServiceImpl) RemoveSpot(ctx context.Context, mapID, userID, spotID uuid.UUID) error {
	ctx, span := otel.Tracer("MapService").Start(ctx, "RemoveSpot", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	if _, err := s.loadOwned(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return err
	}

	spots, err := s.repository.GetSpots(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	collection := NewSpotCollection(mapID, spots)
	if !collection.Remove(spotID) {
		span.SetStatus(codes.Ok, "Spot absent, no-op")
		return nil
	}

	if err := s.repository.ReplaceSpots(ctx, mapID, collection.Spots()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist spot removal")
		return err
	}

	if err := s.touch(ctx, mapID); err != nil {
		s.logger.Warn("Failed to touch map timestamp", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "Spot removed")
	return nil
}

// ReplaceSpots swaps the whole collection of an owned map, normalizing ids
// and sort orders for entries the client sent without them.
func (s *ServiceImpl) ReplaceSpots(ctx context.Context, mapID, userID uuid.UUID, spots []models.Spot) ([]models.Spot, error) {
	ctx, span := otel.Tracer("MapService").Start(ctx, "ReplaceSpots", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
		attribute.Int("spots.count", len(spots)),
	))
	defer span.End()

	if _, err := s.loadOwned(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := time.Now()
	normalized := make([]models.Spot, len(spots))
	for i, spot := range spots {
		if spot.Name == "" {
			return nil, fmt.Errorf("spot name cannot be empty: %w", models.ErrValidation)
		}
		if err := validateCoordinates(&spot.Latitude, &spot.Longitude); err != nil {
			return nil, err
		}
		if spot.ID == uuid.Nil {
			spot.ID = uuid.New()
			spot.CreatedAt = now
		}
		if spot.SortOrder == 0 {
			spot.SortOrder = i + 1
		}
		spot.MapID = mapID
		spot.UpdatedAt = now
		normalized[i] = spot
	}

	if err := s.repository.ReplaceSpots(ctx, mapID, normalized); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to replace spots")
		return nil, err
	}

	if err := s.touch(ctx, mapID); err != nil {
		s.logger.Warn("Failed to touch map timestamp", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "Spots replaced")
	return normalized, nil
}

// loadOwned fetches a map and enforces that userID owns it.
func (s *ServiceImpl) loadOwned(ctx context.Context, mapID, userID uuid.UUID) (models.Map, error) {
	m, err := s.repository.GetMap(ctx, mapID)
	if err != nil {
		return models.Map{}, err
	}
	if m.UserID != userID {
		return models.Map{}, fmt.Errorf("map %s is owned by another user: %w", mapID, models.ErrForbidden)
	}
	return m, nil
}

func (s *ServiceImpl) touch(ctx context.Context, mapID uuid.UUID) error {
	m, err := s.repository.GetMap(ctx, mapID)
	if err != nil {
		return err
	}
	m.UpdatedAt = time.Now()
	return s.repository.UpdateMap(ctx, m)
}

func validatePlace(place models.PlaceResult) error {
	if place.Name == "" {
		return fmt.Errorf("spot name cannot be empty: %w", models.ErrValidation)
	}
	return validateCoordinates(&place.Latitude, &place.Longitude)
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return fmt.Errorf("latitude %f out of range: %w", *lat, models.ErrValidation)
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return fmt.Errorf("longitude %f out of range: %w", *lng, models.ErrValidation)
	}
	return nil
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
