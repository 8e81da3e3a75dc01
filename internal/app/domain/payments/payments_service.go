package payments

import (
	"context"
	"errors"
	"fmt"
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

// MapReader resolves the map being bought. Implemented by the maps
// repository.
type MapReader interface {
	GetMap(ctx context.Context, mapID uuid.UUID) (models.Map, error)
}

// Service defines the purchase flow: intent creation before payment, webhook
// settlement after, and purchase history reads.
type Service interface {
	CreateIntent(ctx context.Context, userID uuid.UUID, req models.CreateIntentRequest) (models.PaymentIntentResult, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (models.PaymentEvent, error)
	GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repository Repository
	maps       MapReader
	provider   Provider
}

// NewService creates a new instance of ServiceImpl.
func NewService(repo Repository, maps MapReader, provider Provider, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		maps:       maps,
		provider:   provider,
	}
}

// CreateIntent validates the purchase against the stored listing and asks
// the provider for a payment intent. The amount charged is the stored
// price; a client-sent amount that disagrees with it is rejected.
func (s *ServiceImpl) CreateIntent(ctx context.Context, userID uuid.UUID, req models.CreateIntentRequest) (models.PaymentIntentResult, error) {
	ctx, span := otel.Tracer("PaymentService").Start(ctx, "CreateIntent", trace.WithAttributes(
		attribute.String("map.id", req.MapID),
		attribute.String("payment.provider", s.provider.Name()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateIntent"), zap.String("mapID", req.MapID))

	mapID, err := uuid.Parse(req.MapID)
	if err != nil {
		return models.PaymentIntentResult{}, fmt.Errorf("invalid map id: %w", models.ErrBadRequest)
	}

	m, err := s.maps.GetMap(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return models.PaymentIntentResult{}, err
	}
	if !m.ForSale || m.Price == nil {
		return models.PaymentIntentResult{}, fmt.Errorf("map %s is not for sale: %w", mapID, models.ErrNotForSale)
	}
	if m.UserID == userID {
		return models.PaymentIntentResult{}, fmt.Errorf("cannot buy your own map: %w", models.ErrBadRequest)
	}
	if req.Amount != *m.Price {
		return models.PaymentIntentResult{}, fmt.Errorf("amount %d does not match listed price %d: %w", req.Amount, *m.Price, models.ErrBadRequest)
	}

	if purchased, err := s.repository.HasPurchased(ctx, mapID, userID); err == nil && purchased {
		return models.PaymentIntentResult{}, fmt.Errorf("map %s already purchased: %w", mapID, models.ErrConflict)
	}

	currency := req.Currency
	if currency == "" {
		currency = "jpy"
	}

	result, err := s.provider.CreatePaymentIntent(*m.Price, currency, map[string]string{
		"mapId":  mapID.String(),
		"userId": userID.String(),
	})
	if err != nil {
		l.Error("Failed to create payment intent", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create payment intent")
		return models.PaymentIntentResult{}, err
	}

	l.Info("Payment intent created", zap.String("intentID", result.IntentID))
	span.SetStatus(codes.Ok, "Payment intent created")
	return result, nil
}

// HandleWebhook verifies the processor signature and applies the event.
// Only payment_intent.succeeded produces side effects: a purchase row plus
// the map's purchase counter, in one transaction. A replayed intent id is
// swallowed so redeliveries stay idempotent. Verification failure leaves the
// store untouched.
func (s *ServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (models.PaymentEvent, error) {
	ctx, span := otel.Tracer("PaymentService").Start(ctx, "HandleWebhook")
	defer span.End()

	l := s.logger.With(zap.String("method", "HandleWebhook"))

	event, err := s.provider.VerifyWebhook(payload, sigHeader)
	if err != nil {
		l.Warn("Webhook verification failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Webhook verification failed")
		return models.PaymentEvent{}, fmt.Errorf("webhook rejected: %w", models.ErrBadRequest)
	}

	span.SetAttributes(attribute.String("event.type", event.Type))

	if event.Type != models.PaymentEventSucceeded {
		l.Debug("Ignoring webhook event", zap.String("type", event.Type))
		span.SetStatus(codes.Ok, "Event ignored")
		return event, nil
	}

	mapID, err := uuid.Parse(event.MapID)
	if err != nil {
		return models.PaymentEvent{}, fmt.Errorf("webhook missing map metadata: %w", models.ErrBadRequest)
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return models.PaymentEvent{}, fmt.Errorf("webhook missing user metadata: %w", models.ErrBadRequest)
	}

	now := time.Now()
	purchase := models.Purchase{
		ID:                    uuid.New(),
		MapID:                 mapID,
		UserID:                userID,
		Amount:                event.Amount,
		Currency:              event.Currency,
		StripePaymentIntentID: event.PaymentIntentID,
		Status:                models.PurchaseStatusCompleted,
		CreatedAt:             now,
		CompletedAt:           &now,
	}

	if err := s.repository.CreatePurchase(ctx, purchase); err != nil {
		if errors.Is(err, models.ErrConflict) {
			l.Info("Duplicate webhook delivery ignored", zap.String("intentID", event.PaymentIntentID))
			span.SetStatus(codes.Ok, "Duplicate delivery")
			return event, nil
		}
		l.Error("Failed to record purchase", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record purchase")
		return models.PaymentEvent{}, err
	}

	l.Info("Purchase recorded",
		zap.String("mapID", mapID.String()),
		zap.String("intentID", event.PaymentIntentID),
	)
	span.SetStatus(codes.Ok, "Purchase recorded")
	return event, nil
}

// GetUserPurchases lists the caller's purchase history.
func (s *ServiceImpl) GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	ctx, span := otel.Tracer("PaymentService").Start(ctx, "GetUserPurchases")
	defer span.End()

	purchases, err := s.repository.GetUserPurchases(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	return purchases, nil
}
