package auth

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

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestAuthService(repo Repository) *ServiceImpl {
	return NewService(repo, NewJWTService(), testJWTConfig(), zap.NewNop())
}

func TestRegisterDefaultsDisplayNameToUsername(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.DisplayName == "taro"
	})).Return(nil)
	svc := newTestAuthService(repo)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "taro",
		Email:    "taro@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "taro", resp.User.DisplayName)
	repo.AssertExpectations(t)
}

func TestUpdateProfileMergesOnlySetFields(t *testing.T) {
	userID := uuid.New()
	stored := models.User{
		ID:          userID,
		Username:    "taro",
		Email:       "taro@example.com",
		DisplayName: "Taro",
		Bio:         "old bio",
	}

	repo := new(MockUserRepository)
	repo.On("GetUserByID", mock.Anything, userID).Return(stored, nil)
	repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.DisplayName == "Taro" && u.Bio == "walks and coffee"
	})).Return(nil)
	svc := newTestAuthService(repo)

	bio := "  walks and coffee  "
	user, err := svc.UpdateProfile(context.Background(), userID, models.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Taro", user.DisplayName)
	assert.Equal(t, "walks and coffee", user.Bio)
	repo.AssertExpectations(t)
}

func TestUpdateProfileEmptyRequestKeepsProfile(t *testing.T) {
	userID := uuid.New()
	stored := models.User{ID: userID, DisplayName: "Taro", Bio: "old bio"}

	repo := new(MockUserRepository)
	repo.On("GetUserByID", mock.Anything, userID).Return(stored, nil)
	repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.DisplayName == "Taro" && u.Bio == "old bio"
	})).Return(nil)
	svc := newTestAuthService(repo)

	user, err := svc.UpdateProfile(context.Background(), userID, models.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Taro", user.DisplayName)
	assert.Equal(t, "old bio", user.Bio)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	userID := uuid.New()
	repo := new(MockUserRepository)
	repo.On("GetUserByID", mock.Anything, userID).Return(models.User{}, models.ErrNotFound)
	svc := newTestAuthService(repo)

	name := "Taro"
	_, err := svc.UpdateProfile(context.Background(), userID, models.UpdateProfileRequest{DisplayName: &name})
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}
