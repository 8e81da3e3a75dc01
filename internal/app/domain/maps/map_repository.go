package maps

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the interface for map and spot persistence.
type Repository interface {
	CreateMap(ctx context.Context, m models.Map) error
	GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error)
	GetUserMaps(ctx context.Context, userID uuid.UUID) ([]*models.Map, error)
	UpdateMap(ctx context.Context, m models.Map) error
	DeleteMap(ctx context.Context, mapID uuid.UUID) error
	IncrementViewCount(ctx context.Context, mapID uuid.UUID) error

	GetSpots(ctx context.Context, mapID uuid.UUID) ([]models.Spot, error)
	AddSpot(ctx context.Context, spot models.Spot) error
	UpdateSpot(ctx context.Context, spot models.Spot) error
	DeleteSpot(ctx context.Context, mapID, spotID uuid.UUID) error
	ReplaceSpots(ctx context.Context, mapID uuid.UUID, spots []models.Spot) error
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

const mapColumns = `id, user_id, title, description, is_public, category, tags,
               for_sale, price, view_count, purchase_count, created_at, updated_at`

func scanMap(row pgx.Row) (models.Map, error) {
	var m models.Map
	err := row.Scan(
		&m.ID, &m.UserID, &m.Title, &m.Description, &m.IsPublic, &m.Category, &m.Tags,
		&m.ForSale, &m.Price, &m.ViewCount, &m.PurchaseCount, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// CreateMap inserts a new map into the maps table.
func (r *RepositoryImpl) CreateMap(ctx context.Context, m models.Map) error {
	query := `
        INSERT INTO maps (
            id, user_id, title, description, is_public, category, tags,
            for_sale, price, view_count, purchase_count, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
        )
    `
	_, err := r.pgpool.Exec(ctx, query,
		m.ID, m.UserID, m.Title, m.Description, m.IsPublic, m.Category, m.Tags,
		m.ForSale, m.Price, m.ViewCount, m.PurchaseCount, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create map", zap.Error(err))
		return fmt.Errorf("failed to create map: %w", err)
	}
	return nil
}

// GetMap retrieves a map by its id.
func (r *RepositoryImpl) GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error) {
	query := `SELECT ` + mapColumns + ` FROM maps WHERE id = $1`
	m, err := scanMap(r.pgpool.QueryRow(ctx, query, mapID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Map{}, fmt.Errorf("map %s: %w", mapID, models.ErrNotFound)
		}
		r.logger.Error("Failed to get map", zap.Error(err))
		return models.Map{}, fmt.Errorf("failed to get map: %w", err)
	}
	return m, nil
}

// GetUserMaps retrieves all maps owned by a user, newest first.
func (r *RepositoryImpl) GetUserMaps(ctx context.Context, userID uuid.UUID) ([]*models.Map, error) {
	query := `SELECT ` + mapColumns + ` FROM maps WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to get user maps", zap.Error(err))
		return nil, fmt.Errorf("failed to get user maps: %w", err)
	}
	defer rows.Close()

	var maps []*models.Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			r.logger.Error("Failed to scan map", zap.Error(err))
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}
		maps = append(maps, &m)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating map rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating map rows: %w", err)
	}
	return maps, nil
}

// UpdateMap updates a map's mutable fields.
func (r *RepositoryImpl) UpdateMap(ctx context.Context, m models.Map) error {
	query := `
        UPDATE maps
        SET title = $1, description = $2, is_public = $3, category = $4,
            tags = $5, for_sale = $6, price = $7, updated_at = $8
        WHERE id = $9
    `
	result, err := r.pgpool.Exec(ctx, query,
		m.Title, m.Description, m.IsPublic, m.Category,
		m.Tags, m.ForSale, m.Price, m.UpdatedAt, m.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update map", zap.Error(err))
		return fmt.Errorf("failed to update map: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("map %s: %w", m.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteMap deletes a map by its id. Spots, likes and purchases cascade.
func (r *RepositoryImpl) DeleteMap(ctx context.Context, mapID uuid.UUID) error {
	result, err := r.pgpool.Exec(ctx, `DELETE FROM maps WHERE id = $1`, mapID)
	if err != nil {
		r.logger.Error("Failed to delete map", zap.Error(err))
		return fmt.Errorf("failed to delete map: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("map %s: %w", mapID, models.ErrNotFound)
	}
	return nil
}

// IncrementViewCount bumps the approximate view counter.
func (r *RepositoryImpl) IncrementViewCount(ctx context.Context, mapID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx, `UPDATE maps SET view_count = view_count + 1 WHERE id = $1`, mapID)
	if err != nil {
		r.logger.Error("Failed to increment view count", zap.Error(err))
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// GetSpots retrieves all spots of a map in display order.
func (r *RepositoryImpl) GetSpots(ctx context.Context, mapID uuid.UUID) ([]models.Spot, error) {
	query := `
        SELECT id, map_id, name, address, latitude, longitude, description,
               sort_order, created_at, updated_at
        FROM spots
        WHERE map_id = $1
        ORDER BY sort_order
    `
	rows, err := r.pgpool.Query(ctx, query, mapID)
	if err != nil {
		r.logger.Error("Failed to get spots", zap.Error(err))
		return nil, fmt.Errorf("failed to get spots: %w", err)
	}
	defer rows.Close()

	var spots []models.Spot
	for rows.Next() {
		var s models.Spot
		err := rows.Scan(
			&s.ID, &s.MapID, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
			&s.Description, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan spot", zap.Error(err))
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		spots = append(spots, s)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating spot rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating spot rows: %w", err)
	}
	return spots, nil
}

// AddSpot appends a single spot row.
func (r *RepositoryImpl) AddSpot(ctx context.Context, spot models.Spot) error {
	query := `
        INSERT INTO spots (id, map_id, name, address, latitude, longitude,
            description, sort_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.pgpool.Exec(ctx, query,
		spot.ID, spot.MapID, spot.Name, spot.Address, spot.Latitude, spot.Longitude,
		spot.Description, spot.SortOrder, spot.CreatedAt, spot.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to add spot", zap.Error(err))
		return fmt.Errorf("failed to add spot: %w", err)
	}
	return nil
}

// UpdateSpot rewrites a spot row.
func (r *RepositoryImpl) UpdateSpot(ctx context.Context, spot models.Spot) error {
	query := `
        UPDATE spots
        SET name = $1, address = $2, latitude = $3, longitude = $4,
            description = $5, sort_order = $6, updated_at = $7
        WHERE map_id = $8 AND id = $9
    `
	result, err := r.pgpool.Exec(ctx, query,
		spot.Name, spot.Address, spot.Latitude, spot.Longitude,
		spot.Description, spot.SortOrder, spot.UpdatedAt, spot.MapID, spot.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update spot", zap.Error(err))
		return fmt.Errorf("failed to update spot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("spot %s: %w", spot.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteSpot removes a single spot row. Remaining sort orders are not
// renumbered.
func (r *RepositoryImpl) DeleteSpot(ctx context.Context, mapID, spotID uuid.UUID) error {
	result, err := r.pgpool.Exec(ctx, `DELETE FROM spots WHERE map_id = $1 AND id = $2`, mapID, spotID)
	if err != nil {
		r.logger.Error("Failed to delete spot", zap.Error(err))
		return fmt.Errorf("failed to delete spot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("spot %s: %w", spotID, models.ErrNotFound)
	}
	return nil
}

// ReplaceSpots swaps the map's whole spot list in one transaction, so the
// stored list always matches one committed edit of the collection.
func (r *RepositoryImpl) ReplaceSpots(ctx context.Context, mapID uuid.UUID, spots []models.Spot) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM spots WHERE map_id = $1`, mapID); err != nil {
		r.logger.Error("Failed to clear spots", zap.Error(err))
		return fmt.Errorf("failed to clear spots: %w", err)
	}

	query := `
        INSERT INTO spots (id, map_id, name, address, latitude, longitude,
            description, sort_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	for _, spot := range spots {
		if _, err := tx.Exec(ctx, query,
			spot.ID, mapID, spot.Name, spot.Address, spot.Latitude, spot.Longitude,
			spot.Description, spot.SortOrder, spot.CreatedAt, spot.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to insert spot", zap.Error(err))
			return fmt.Errorf("failed to insert spot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit spot replacement", zap.Error(err))
		return fmt.Errorf("failed to commit spot replacement: %w", err)
	}
	return nil
}
