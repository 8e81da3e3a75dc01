package marketplace

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// SearchFilter narrows a marketplace browse. Zero values mean "no filter".
type SearchFilter struct {
	Category string
	Query    string
	Tag      string
	ForSale  bool
	Limit    int
	Offset   int
}

// Repository defines read access to the public marketplace listings.
type Repository interface {
	SearchMaps(ctx context.Context, filter SearchFilter) ([]models.MapSummary, error)
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

const defaultPageSize = 50

// SearchMaps lists public maps matching the filter, newest first. Like
// counts come from counting like rows in the same query, so listings and
// detail views agree.
func (r *RepositoryImpl) SearchMaps(ctx context.Context, filter SearchFilter) ([]models.MapSummary, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"m.id", "m.user_id", "m.title", "m.description", "m.is_public",
			"m.category", "m.tags", "m.for_sale", "m.price",
			"m.view_count", "m.purchase_count", "m.created_at", "m.updated_at",
			"u.username",
			"(SELECT COUNT(*) FROM spots s WHERE s.map_id = m.id) AS spot_count",
			"(SELECT COUNT(*) FROM likes l WHERE l.map_id = m.id) AS like_count",
		).
		From("maps m").
		Join("users u ON u.id = m.user_id").
		Where(sq.Eq{"m.is_public": true}).
		OrderBy("m.created_at DESC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"m.category": filter.Category})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"m.title": pattern},
			sq.ILike{"m.description": pattern},
		})
	}
	if filter.Tag != "" {
		builder = builder.Where("? = ANY(m.tags)", filter.Tag)
	}
	if filter.ForSale {
		builder = builder.Where(sq.Eq{"m.for_sale": true})
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultPageSize {
		limit = defaultPageSize
	}
	builder = builder.Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search maps", zap.Error(err))
		return nil, fmt.Errorf("failed to search maps: %w", err)
	}
	defer rows.Close()

	var results []models.MapSummary
	for rows.Next() {
		var s models.MapSummary
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.IsPublic,
			&s.Category, &s.Tags, &s.ForSale, &s.Price,
			&s.ViewCount, &s.PurchaseCount, &s.CreatedAt, &s.UpdatedAt,
			&s.Username, &s.SpotCount, &s.LikeCount,
		)
		if err != nil {
			r.logger.Error("Failed to scan map summary", zap.Error(err))
			return nil, fmt.Errorf("failed to scan map summary: %w", err)
		}
		results = append(results, s)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating map summaries", zap.Error(err))
		return nil, fmt.Errorf("error iterating map summaries: %w", err)
	}
	return results, nil
}
