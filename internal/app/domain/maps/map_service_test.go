package maps

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/machimap/machimap/internal/app/models"
)

type MockMapRepository struct {
	mock.Mock
}

func (m *MockMapRepository) CreateMap(ctx context.Context, mp models.Map) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockMapRepository) GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error) {
	args := m.Called(ctx, mapID)
	return args.Get(0).(models.Map), args.Error(1)
}

func (m *MockMapRepository) GetUserMaps(ctx context.Context, userID uuid.UUID) ([]*models.Map, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Map), args.Error(1)
}

func (m *MockMapRepository) UpdateMap(ctx context.Context, mp models.Map) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockMapRepository) DeleteMap(ctx context.Context, mapID uuid.UUID) error {
	args := m.Called(ctx, mapID)
	return args.Error(0)
}

func (m *MockMapRepository) IncrementViewCount(ctx context.Context, mapID uuid.UUID) error {
	args := m.Called(ctx, mapID)
	return args.Error(0)
}

func (m *MockMapRepository) GetSpots(ctx context.Context, mapID uuid.UUID) ([]models.Spot, error) {
	args := m.Called(ctx, mapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Spot), args.Error(1)
}

func (m *MockMapRepository) AddSpot(ctx context.Context, spot models.Spot) error {
	args := m.Called(ctx, spot)
	return args.Error(0)
}

func (m *MockMapRepository) UpdateSpot(ctx context.Context, spot models.Spot) error {
	args := m.Called(ctx, spot)
	return args.Error(0)
}

func (m *MockMapRepository) DeleteSpot(ctx context.Context, mapID, spotID uuid.UUID) error {
	args := m.Called(ctx, mapID, spotID)
	return args.Error(0)
}

func (m *MockMapRepository) ReplaceSpots(ctx context.Context, mapID uuid.UUID, spots []models.Spot) error {
	args := m.Called(ctx, mapID, spots)
	return args.Error(0)
}

type MockLikeReader struct {
	mock.Mock
}

func (m *MockLikeReader) CountLikes(ctx context.Context, mapID uuid.UUID) (int, error) {
	args := m.Called(ctx, mapID)
	return args.Int(0), args.Error(1)
}

func (m *MockLikeReader) IsLiked(ctx context.Context, mapID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, mapID, userID)
	return args.Bool(0), args.Error(1)
}

func newTestService(repo *MockMapRepository, likes *MockLikeReader) *ServiceImpl {
	return NewService(repo, likes, zap.NewNop())
}

func ownedMap(ownerID uuid.UUID) models.Map {
	return models.Map{
		ID:       uuid.New(),
		UserID:   ownerID,
		Title:    "Coffee crawl",
		IsPublic: true,
		Category: "cafe",
	}
}

func TestCreateMapRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(new(MockMapRepository), new(MockLikeReader))

	_, err := svc.CreateMap(context.Background(), uuid.New(), models.CreateMapRequest{
		Title:    "test",
		Category: "spaceport",
	})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateMapDefaultsCategory(t *testing.T) {
	repo := new(MockMapRepository)
	repo.On("CreateMap", mock.Anything, mock.MatchedBy(func(m models.Map) bool {
		return m.Category == "other"
	})).Return(nil)
	svc := newTestService(repo, new(MockLikeReader))

	m, err := svc.CreateMap(context.Background(), uuid.New(), models.CreateMapRequest{Title: "untitled walk"})

	require.NoError(t, err)
	assert.Equal(t, "other", m.Category)
	repo.AssertExpectations(t)
}

func TestThreeAddsProduceSequentialOrders(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)

	repo := new(MockMapRepository)
	likes := new(MockLikeReader)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("UpdateMap", mock.Anything, mock.Anything).Return(nil)

	repo.On("GetSpots", mock.Anything, m.ID).Return([]models.Spot{}, nil).Once()
	repo.On("GetSpots", mock.Anything, m.ID).Return(make([]models.Spot, 1), nil).Once()
	repo.On("GetSpots", mock.Anything, m.ID).Return(make([]models.Spot, 2), nil).Once()
	repo.On("AddSpot", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo, likes)

	var orders []int
	for _, name := range []string{"a", "b", "c"} {
		spot, err := svc.AddSpot(context.Background(), m.ID, ownerID, place(name))
		require.NoError(t, err)
		orders = append(orders, spot.SortOrder)
	}

	assert.Equal(t, []int{1, 2, 3}, orders)
}

func TestAddSpotByNonOwnerIsForbidden(t *testing.T) {
	m := ownedMap(uuid.New())
	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	svc := newTestService(repo, new(MockLikeReader))

	_, err := svc.AddSpot(context.Background(), m.ID, uuid.New(), place("intruder"))

	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "AddSpot", mock.Anything, mock.Anything)
}

func TestAddSpotRejectsOutOfRangeCoordinates(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)
	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	svc := newTestService(repo, new(MockLikeReader))

	bad := place("nowhere")
	bad.Latitude = 123.0

	_, err := svc.AddSpot(context.Background(), m.ID, ownerID, bad)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGetMapIncrementsViewsForNonOwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()
	m := ownedMap(ownerID)

	repo := new(MockMapRepository)
	likes := new(MockLikeReader)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("GetSpots", mock.Anything, m.ID).Return([]models.Spot{}, nil)
	repo.On("IncrementViewCount", mock.Anything, m.ID).Return(nil).Once()
	likes.On("CountLikes", mock.Anything, m.ID).Return(2, nil)
	likes.On("IsLiked", mock.Anything, m.ID, mock.Anything).Return(false, nil)

	svc := newTestService(repo, likes)

	viewed, err := svc.GetMap(context.Background(), m.ID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.ViewCount)
	assert.Equal(t, 2, viewed.LikeCount)

	_, err = svc.GetMap(context.Background(), m.ID, ownerID)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "IncrementViewCount", 1)
}

func TestGetMapServesWhenLikeLookupFails(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()
	m := ownedMap(ownerID)

	repo := new(MockMapRepository)
	likes := new(MockLikeReader)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("GetSpots", mock.Anything, m.ID).Return([]models.Spot{}, nil)
	repo.On("IncrementViewCount", mock.Anything, m.ID).Return(nil)
	likes.On("CountLikes", mock.Anything, m.ID).Return(0, errors.New("connection refused"))
	likes.On("IsLiked", mock.Anything, m.ID, viewerID).Return(false, errors.New("connection refused"))

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(repo, likes, zap.New(core))

	viewed, err := svc.GetMap(context.Background(), m.ID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, 0, viewed.LikeCount)
	assert.False(t, viewed.Liked)

	assert.Equal(t, 1, logs.FilterMessage("Failed to count likes").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to check like status").Len())
}

func TestGetMapPrivateHiddenFromStrangers(t *testing.T) {
	m := ownedMap(uuid.New())
	m.IsPublic = false

	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	svc := newTestService(repo, new(MockLikeReader))

	_, err := svc.GetMap(context.Background(), m.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.GetMap(context.Background(), m.ID, uuid.Nil)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateMapByNonOwnerIsForbidden(t *testing.T) {
	m := ownedMap(uuid.New())
	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	svc := newTestService(repo, new(MockLikeReader))

	title := "hijacked"
	_, err := svc.UpdateMap(context.Background(), m.ID, uuid.New(), models.UpdateMapRequest{Title: &title})

	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "UpdateMap", mock.Anything, mock.Anything)
}

func TestUpdateSaleSettingsValidation(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)
	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	svc := newTestService(repo, new(MockLikeReader))

	_, err := svc.UpdateSaleSettings(context.Background(), m.ID, ownerID, models.SaleSettingsRequest{
		ForSale:  true,
		Category: "not-a-category",
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = string(rune('a' + i))
	}
	_, err = svc.UpdateSaleSettings(context.Background(), m.ID, ownerID, models.SaleSettingsRequest{
		ForSale:  true,
		Category: "cafe",
		Tags:     tags,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateSaleSettingsClearsPriceWhenDelisted(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)
	price := int64(800)
	m.ForSale = true
	m.Price = &price

	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("UpdateMap", mock.Anything, mock.MatchedBy(func(updated models.Map) bool {
		return !updated.ForSale && updated.Price == nil
	})).Return(nil)
	svc := newTestService(repo, new(MockLikeReader))

	updated, err := svc.UpdateSaleSettings(context.Background(), m.ID, ownerID, models.SaleSettingsRequest{
		ForSale:  false,
		Category: "cafe",
	})

	require.NoError(t, err)
	assert.Nil(t, updated.Price)
	repo.AssertExpectations(t)
}

func TestRemoveSpotUnknownIDIsNoOp(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)

	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("GetSpots", mock.Anything, m.ID).Return([]models.Spot{}, nil)
	svc := newTestService(repo, new(MockLikeReader))

	err := svc.RemoveSpot(context.Background(), m.ID, ownerID, uuid.New())

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ReplaceSpots", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSpotUnknownIDIsNotFound(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)

	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("GetSpots", mock.Anything, m.ID).Return([]models.Spot{}, nil)
	svc := newTestService(repo, new(MockLikeReader))

	name := "ghost"
	_, err := svc.UpdateSpot(context.Background(), m.ID, ownerID, uuid.New(), models.UpdateSpotRequest{Name: &name})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteMapPropagatesRepositoryError(t *testing.T) {
	ownerID := uuid.New()
	m := ownedMap(ownerID)
	repoErr := errors.New("connection lost")

	repo := new(MockMapRepository)
	repo.On("GetMap", mock.Anything, m.ID).Return(m, nil)
	repo.On("DeleteMap", mock.Anything, m.ID).Return(repoErr)
	svc := newTestService(repo, new(MockLikeReader))

	err := svc.DeleteMap(context.Background(), m.ID, ownerID)

	assert.ErrorIs(t, err, repoErr)
}
