package likes

import (
	"errors"
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

// Toggle handles POST /api/maps/:id/like.
func (h *Handler) Toggle(c *gin.Context) {
	mapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid map id"})
		return
	}
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	status, err := h.service.Toggle(c.Request.Context(), mapID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if m := metrics.Get(); m != nil {
		m.LikeTogglesTotal.Add(c.Request.Context(), 1)
	}

	c.JSON(http.StatusOK, status)
}

// Status handles GET /api/maps/:id/likes.
func (h *Handler) Status(c *gin.Context) {
	mapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid map id"})
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	status, err := h.service.Status(c.Request.Context(), mapID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "map not found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "map is private"})
	default:
		h.log.Error("Like operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like operation failed"})
	}
}
