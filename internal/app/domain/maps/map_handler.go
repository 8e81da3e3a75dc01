package maps

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

// CreateMap handles POST /api/maps.
func (h *Handler) CreateMap(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.CreateMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.CreateMap(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err, "failed to create map")
		return
	}

	c.JSON(http.StatusCreated, m)
}

// GetMap handles GET /api/maps/:id. Works for anonymous viewers on public
// maps; the optional auth middleware supplies the viewer id when present.
func (h *Handler) GetMap(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	viewerID := middleware.GetUserIDFromContext(c)

	m, err := h.service.GetMap(c.Request.Context(), mapID, viewerID)
	if err != nil {
		h.respondError(c, err, "failed to load map")
		return
	}

	if mt := metrics.Get(); mt != nil {
		mt.MapViewsTotal.Add(c.Request.Context(), 1)
	}

	c.JSON(http.StatusOK, m)
}

// GetMyMaps handles GET /api/maps.
func (h *Handler) GetMyMaps(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	maps, err := h.service.GetUserMaps(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "failed to load maps")
		return
	}
	if maps == nil {
		maps = []*models.Map{}
	}

	c.JSON(http.StatusOK, gin.H{"maps": maps})
}

// UpdateMap handles PUT /api/maps/:id. Absent fields are left untouched.
func (h *Handler) UpdateMap(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	var req models.UpdateMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.UpdateMap(c.Request.Context(), mapID, userID, req)
	if err != nil {
		h.respondError(c, err, "failed to update map")
		return
	}

	c.JSON(http.StatusOK, m)
}

// UpdateSaleSettings handles PUT /api/maps/:id/sale.
func (h *Handler) UpdateSaleSettings(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	var req models.SaleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.UpdateSaleSettings(c.Request.Context(), mapID, userID, req)
	if err != nil {
		h.respondError(c, err, "failed to update sale settings")
		return
	}

	c.JSON(http.StatusOK, m)
}

// DeleteMap handles DELETE /api/maps/:id.
func (h *Handler) DeleteMap(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	if err := h.service.DeleteMap(c.Request.Context(), mapID, userID); err != nil {
		h.respondError(c, err, "failed to delete map")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddSpot handles POST /api/maps/:id/spots. The body is a place-search
// candidate; the spot is appended at the end of the collection.
func (h *Handler) AddSpot(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	var place models.PlaceResult
	if err := c.ShouldBindJSON(&place); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot, err := h.service.AddSpot(c.Request.Context(), mapID, userID, place)
	if err != nil {
		h.respondError(c, err, "failed to add spot")
		return
	}

	c.JSON(http.StatusCreated, spot)
}

// UpdateSpot handles PUT /api/maps/:id/spots/:spotId. Absent fields are
// left untouched.
func (h *Handler) UpdateSpot(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot id"})
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	var req models.UpdateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot, err := h.service.UpdateSpot(c.Request.Context(), mapID, userID, spotID, req)
	if err != nil {
		h.respondError(c, err, "failed to update spot")
		return
	}

	c.JSON(http.StatusOK, spot)
}

// RemoveSpot handles DELETE /api/maps/:id/spots/:spotId. Removing a spot
// that is already gone still returns 204.
func (h *Handler) RemoveSpot(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot id"})
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	if err := h.service.RemoveSpot(c.Request.Context(), mapID, userID, spotID); err != nil {
		h.respondError(c, err, "failed to remove spot")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReplaceSpots handles PUT /api/maps/:id/spots.
func (h *Handler) ReplaceSpots(c *gin.Context) {
	mapID, ok := h.mapIDParam(c)
	if !ok {
		return
	}
	userID := middleware.GetUserIDFromContext(c)

	var req struct {
		Spots []models.Spot `json:"spots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spots, err := h.service.ReplaceSpots(c.Request.Context(), mapID, userID, req.Spots)
	if err != nil {
		h.respondError(c, err, "failed to replace spots")
		return
	}

	c.JSON(http.StatusOK, gin.H{"spots": spots})
}

func (h *Handler) mapIDParam(c *gin.Context) (uuid.UUID, bool) {
	mapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid map id"})
		return uuid.Nil, false
	}
	return mapID, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "map not found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your map"})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		h.log.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
