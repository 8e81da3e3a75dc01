package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the interface for user account persistence.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
}

// RepositoryImpl holds the logger and database connection pool.
type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

// CreateUser inserts a new user into the users table.
func (r *RepositoryImpl) CreateUser(ctx context.Context, user models.User) error {
	query := `
        INSERT INTO users (id, username, email, password_hash, display_name, bio, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.pgpool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.Bio, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email already registered: %w", models.ErrConflict)
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
        SELECT id, username, email, password_hash, display_name, bio, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	row := r.pgpool.QueryRow(ctx, query, email)
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id.
func (r *RepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	query := `
        SELECT id, username, email, password_hash, display_name, bio, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	row := r.pgpool.QueryRow(ctx, query, userID)
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
		r.logger.Error("Failed to get user by id", zap.Error(err))
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile persists the editable profile fields.
func (r *RepositoryImpl) UpdateProfile(ctx context.Context, user models.User) error {
	query := `
        UPDATE users
        SET display_name = $2, bio = $3, updated_at = $4
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query, user.ID, user.DisplayName, user.Bio, user.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	return nil
}
