package likes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// MapReader resolves the liked map. Implemented by the maps repository.
type MapReader interface {
	GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error)
}

// LikeStatus is the response of a toggle or status read. The count always
// reflects the stored rows after the operation, so readers and togglers see
// the same number.
type LikeStatus struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// Service defines like toggling and status reads.
type Service interface {
	Toggle(ctx context.Context, mapID, userID uuid.UUID) (LikeStatus, error)
	Status(ctx context.Context, mapID, userID uuid.UUID) (LikeStatus, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repository Repository
	maps       MapReader
}

// NewService creates a new instance of ServiceImpl.
func NewService(repo Repository, maps MapReader, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		maps:       maps,
	}
}

// Toggle flips the like state of userID on mapID and returns the resulting
// state with a fresh row count.
func (s *ServiceImpl) Toggle(ctx context.Context, mapID, userID uuid.UUID) (LikeStatus, error) {
	ctx, span := otel.Tracer("LikeService").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("map.id", mapID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Toggle"), zap.String("mapID", mapID.String()))

	if _, err := s.visibleMap(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return LikeStatus{}, err
	}

	liked, err := s.repository.IsLiked(ctx, mapID, userID)
	if err != nil {
		span.RecordError(err)
		return LikeStatus{}, err
	}

	if liked {
		err = s.repository.RemoveLike(ctx, mapID, userID)
	} else {
		err = s.repository.AddLike(ctx, mapID, userID)
	}
	if err != nil {
		l.Error("Failed to toggle like", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle like")
		return LikeStatus{}, err
	}

	count, err := s.repository.CountLikes(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return LikeStatus{}, err
	}

	span.SetStatus(codes.Ok, "Like toggled")
	return LikeStatus{Liked: !liked, LikeCount: count}, nil
}

// Status reads the current like state without changing it. An anonymous
// viewer gets liked=false with the public count.
func (s *ServiceImpl) Status(ctx context.Context, mapID, userID uuid.UUID) (LikeStatus, error) {
	ctx, span := otel.Tracer("LikeService").Start(ctx, "Status")
	defer span.End()

	if _, err := s.visibleMap(ctx, mapID, userID); err != nil {
		span.RecordError(err)
		return LikeStatus{}, err
	}

	count, err := s.repository.CountLikes(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return LikeStatus{}, err
	}

	status := LikeStatus{LikeCount: count}
	if userID != uuid.Nil {
		liked, err := s.repository.IsLiked(ctx, mapID, userID)
		if err != nil {
			span.RecordError(err)
			return LikeStatus{}, err
		}
		status.Liked = liked
	}
	return status, nil
}

func (s *ServiceImpl) visibleMap(ctx context.Context, mapID, userID uuid.UUID) (models.Map, error) {
	m, err := s.maps.GetMap(ctx, mapID)
	if err != nil {
		return models.Map{}, err
	}
	if !m.IsPublic && m.UserID != userID {
		return models.Map{}, fmt.Errorf("map %s is private: %w", mapID, models.ErrForbidden)
	}
	return m, nil
}
