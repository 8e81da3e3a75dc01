package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines purchase persistence.
type Repository interface {
	CreatePurchase(ctx context.Context, purchase models.Purchase) error
	GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
	HasPurchased(ctx context.Context, mapID, userID uuid.UUID) (bool, error)
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

// CreatePurchase records a confirmed purchase and bumps the map's purchase
// counter in one transaction. Replays of the same payment intent hit the
// unique constraint and surface as ErrConflict, leaving the counter alone.
func (r *RepositoryImpl) CreatePurchase(ctx context.Context, purchase models.Purchase) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO purchases (id, map_id, user_id, amount, currency,
            stripe_payment_intent_id, status, created_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err = tx.Exec(ctx, query,
		purchase.ID, purchase.MapID, purchase.UserID, purchase.Amount, purchase.Currency,
		purchase.StripePaymentIntentID, purchase.Status, purchase.CreatedAt, purchase.CompletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("payment intent %s already recorded: %w", purchase.StripePaymentIntentID, models.ErrConflict)
		}
		r.logger.Error("Failed to create purchase", zap.Error(err))
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE maps SET purchase_count = purchase_count + 1 WHERE id = $1`, purchase.MapID); err != nil {
		r.logger.Error("Failed to increment purchase count", zap.Error(err))
		return fmt.Errorf("failed to increment purchase count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit purchase", zap.Error(err))
		return fmt.Errorf("failed to commit purchase: %w", err)
	}
	return nil
}

// GetUserPurchases lists a user's purchases, newest first.
func (r *RepositoryImpl) GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	query := `
        SELECT id, map_id, user_id, amount, currency,
               stripe_payment_intent_id, status, created_at, completed_at
        FROM purchases
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to get purchases", zap.Error(err))
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		err := rows.Scan(
			&p.ID, &p.MapID, &p.UserID, &p.Amount, &p.Currency,
			&p.StripePaymentIntentID, &p.Status, &p.CreatedAt, &p.CompletedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan purchase", zap.Error(err))
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating purchase rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}
	return purchases, nil
}

// HasPurchased reports whether userID already bought mapID.
func (r *RepositoryImpl) HasPurchased(ctx context.Context, mapID, userID uuid.UUID) (bool, error) {
	var purchased bool
	query := `SELECT EXISTS (SELECT 1 FROM purchases WHERE map_id = $1 AND user_id = $2)`
	if err := r.pgpool.QueryRow(ctx, query, mapID, userID).Scan(&purchased); err != nil {
		r.logger.Error("Failed to check purchase", zap.Error(err))
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return purchased, nil
}
