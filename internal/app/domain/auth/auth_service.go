package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// Service defines account registration, credential login and profile edits.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repository Repository
	jwtService *JWTService
	jwtConfig  JWTConfig
}

// NewService creates a new instance of ServiceImpl.
func NewService(repo Repository, jwtService *JWTService, jwtConfig JWTConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		jwtService: jwtService,
		jwtConfig:  jwtConfig,
	}
}

// Register creates a new account and returns a signed token for it.
func (s *ServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.email", req.Email),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Register"), zap.String("email", req.Email))

	hash, err := s.jwtService.HashPassword(req.Password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		// New accounts start with the username as their display name.
		DisplayName: req.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		l.Error("Failed to create user", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(s.jwtConfig, user.ID.String(), user.Email, user.Username)
	if err != nil {
		l.Error("Failed to generate token", zap.Error(err))
		return nil, err
	}

	l.Info("User registered", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token.
func (s *ServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.email", req.Email),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Login"), zap.String("email", req.Email))

	user, err := s.repository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		l.Error("Failed to load user", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	if !s.jwtService.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("Invalid credentials")
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, models.ErrUnauthenticated
	}

	token, err := s.jwtService.GenerateToken(s.jwtConfig, user.ID.String(), user.Email, user.Username)
	if err != nil {
		l.Error("Failed to generate token", zap.Error(err))
		return nil, err
	}

	span.SetStatus(codes.Ok, "Logged in")
	return &models.AuthResponse{Token: token, User: user}, nil
}

// GetUser returns the account profile for userID.
func (s *ServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUser")
	defer span.End()

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &user, nil
}

// UpdateProfile merges partial profile edits into the caller's account.
// Fields left nil in the request keep their stored value.
func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "UpdateProfile"), zap.String("userID", userID.String()))

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	user.UpdatedAt = time.Now()

	if err := s.repository.UpdateProfile(ctx, user); err != nil {
		l.Error("Failed to update profile", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update profile")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return &user, nil
}
