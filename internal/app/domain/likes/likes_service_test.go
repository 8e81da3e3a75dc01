package likes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) AddLike(ctx context.Context, mapID, userID uuid.UUID) error {
	args := m.Called(ctx, mapID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) RemoveLike(ctx context.Context, mapID, userID uuid.UUID) error {
	args := m.Called(ctx, mapID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) IsLiked(ctx context.Context, mapID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, mapID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) CountLikes(ctx context.Context, mapID uuid.UUID) (int, error) {
	args := m.Called(ctx, mapID)
	return args.Int(0), args.Error(1)
}

type MockMapReader struct {
	mock.Mock
}

func (m *MockMapReader) GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error) {
	args := m.Called(ctx, mapID)
	return args.Get(0).(models.Map), args.Error(1)
}

func publicMap() models.Map {
	return models.Map{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Title:    "Tokyo Coffee Crawl",
		IsPublic: true,
		Category: "cafe",
	}
}

func TestToggleLikesAnUnlikedMap(t *testing.T) {
	m := publicMap()
	userID := uuid.New()

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("IsLiked", mock.Anything, m.ID, userID).Return(false, nil)
	repo.On("AddLike", mock.Anything, m.ID, userID).Return(nil)
	repo.On("CountLikes", mock.Anything, m.ID).Return(4, nil)

	svc := NewService(repo, maps, zap.NewNop())

	status, err := svc.Toggle(context.Background(), m.ID, userID)

	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, 4, status.LikeCount)
	repo.AssertNotCalled(t, "RemoveLike", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleUnlikesALikedMap(t *testing.T) {
	m := publicMap()
	userID := uuid.New()

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("IsLiked", mock.Anything, m.ID, userID).Return(true, nil)
	repo.On("RemoveLike", mock.Anything, m.ID, userID).Return(nil)
	repo.On("CountLikes", mock.Anything, m.ID).Return(3, nil)

	svc := NewService(repo, maps, zap.NewNop())

	status, err := svc.Toggle(context.Background(), m.ID, userID)

	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, 3, status.LikeCount)
	repo.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything)
}

func TestTogglePrivateMapByStrangerIsForbidden(t *testing.T) {
	m := publicMap()
	m.IsPublic = false

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, m.ID).Return(m, nil)

	svc := NewService(repo, maps, zap.NewNop())

	_, err := svc.Toggle(context.Background(), m.ID, uuid.New())

	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleOwnPrivateMapIsAllowed(t *testing.T) {
	m := publicMap()
	m.IsPublic = false

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("IsLiked", mock.Anything, m.ID, m.UserID).Return(false, nil)
	repo.On("AddLike", mock.Anything, m.ID, m.UserID).Return(nil)
	repo.On("CountLikes", mock.Anything, m.ID).Return(1, nil)

	svc := NewService(repo, maps, zap.NewNop())

	status, err := svc.Toggle(context.Background(), m.ID, m.UserID)

	require.NoError(t, err)
	assert.True(t, status.Liked)
}

func TestStatusAnonymousViewerGetsCountOnly(t *testing.T) {
	m := publicMap()

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("CountLikes", mock.Anything, m.ID).Return(7, nil)

	svc := NewService(repo, maps, zap.NewNop())

	status, err := svc.Status(context.Background(), m.ID, uuid.Nil)

	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, 7, status.LikeCount)
	repo.AssertNotCalled(t, "IsLiked", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusUnknownMapIsNotFound(t *testing.T) {
	mapID := uuid.New()

	repo := new(MockLikeRepository)
	maps := new(MockMapReader)
	maps.On("GetMap", mock.Anything, mapID).Return(models.Map{}, models.ErrNotFound)

	svc := NewService(repo, maps, zap.NewNop())

	_, err := svc.Status(context.Background(), mapID, uuid.Nil)

	assert.ErrorIs(t, err, models.ErrNotFound)
}
