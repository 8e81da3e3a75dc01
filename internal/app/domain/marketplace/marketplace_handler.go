package marketplace

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

// BrowseMaps handles GET /api/marketplace. All query parameters are
// optional; with none set it returns the newest public maps.
func (h *Handler) BrowseMaps(c *gin.Context) {
	filter := SearchFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Tag:      c.Query("tag"),
		ForSale:  c.Query("for_sale") == "true",
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	results, err := h.service.BrowseMaps(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to browse marketplace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to browse marketplace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"maps": results})
}
