package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/middleware"
	"github.com/machimap/machimap/internal/app/models"
	"github.com/machimap/machimap/internal/observability/metrics"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// CreateIntent handles POST /api/payments/intent.
func (h *Handler) CreateIntent(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateIntent(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "map not found"})
		case errors.Is(err, models.ErrNotForSale):
			c.JSON(http.StatusConflict, gin.H{"error": "map is not for sale"})
		case errors.Is(err, models.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "map already purchased"})
		case errors.Is(err, models.ErrBadRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("Failed to create payment intent", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment intent"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": result.ClientSecret})
}

// Webhook handles POST /api/payments/webhook. The raw body is read before
// any parsing because signature verification covers the exact bytes sent.
// An invalid signature is a 400 with no side effects.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	event, err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
			return
		}
		h.log.Error("Webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}

	if m := metrics.Get(); m != nil {
		m.WebhookEventsTotal.Add(c.Request.Context(), 1)
		if event.Type == models.PaymentEventSucceeded {
			m.PurchasesTotal.Add(c.Request.Context(), 1)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetPurchases handles GET /api/purchases.
func (h *Handler) GetPurchases(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	purchases, err := h.service.GetUserPurchases(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to load purchases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
