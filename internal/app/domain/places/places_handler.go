package places

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

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

// Search handles GET /api/places/search?q=. A missing q parameter is a 400;
// a present-but-blank one returns an empty set.
func (h *Handler) Search(c *gin.Context) {
	query, exists := c.GetQuery("q")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	if m := metrics.Get(); m != nil {
		m.PlaceSearchTotal.Add(c.Request.Context(), 1)
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		h.log.Error("Place search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "place search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":  results,
		"provider": h.service.ProviderName(),
	})
}
