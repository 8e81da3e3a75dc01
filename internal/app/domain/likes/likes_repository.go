package likes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines like persistence. The likes table is the single source
// of truth; counts are derived by counting rows, never cached in a column.
type Repository interface {
	AddLike(ctx context.Context, mapID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, mapID, userID uuid.UUID) error
	IsLiked(ctx context.Context, mapID, userID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, mapID uuid.UUID) (int, error)
}

// DB is the slice of pgxpool.Pool this repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RepositoryImpl holds the logger and database connection pool.
type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DB
}

func NewRepository(pgpool DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// AddLike records a like. Liking an already-liked map is a no-op; the
// (map_id, user_id) primary key makes the insert idempotent.
func (r *RepositoryImpl) AddLike(ctx context.Context, mapID, userID uuid.UUID) error {
	query := `
        INSERT INTO likes (map_id, user_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (map_id, user_id) DO NOTHING
    `
	_, err := r.pgpool.Exec(ctx, query, mapID, userID)
	if err != nil {
		r.logger.Error("Failed to add like", zap.Error(err))
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

// RemoveLike deletes a like. Removing an absent like is a no-op.
func (r *RepositoryImpl) RemoveLike(ctx context.Context, mapID, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx, `DELETE FROM likes WHERE map_id = $1 AND user_id = $2`, mapID, userID)
	if err != nil {
		r.logger.Error("Failed to remove like", zap.Error(err))
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// IsLiked reports whether userID has liked mapID.
func (r *RepositoryImpl) IsLiked(ctx context.Context, mapID, userID uuid.UUID) (bool, error) {
	var liked bool
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE map_id = $1 AND user_id = $2)`
	if err := r.pgpool.QueryRow(ctx, query, mapID, userID).Scan(&liked); err != nil {
		r.logger.Error("Failed to check like", zap.Error(err))
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// CountLikes counts the like rows for mapID.
func (r *RepositoryImpl) CountLikes(ctx context.Context, mapID uuid.UUID) (int, error) {
	var count int
	if err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE map_id = $1`, mapID).Scan(&count); err != nil {
		r.logger.Error("Failed to count likes", zap.Error(err))
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
