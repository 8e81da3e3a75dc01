package marketplace

import (
	"strings"

	"github.com/machimap/machimap/internal/app/models"
)

// FilterMaps narrows a listing slice in memory. Category matches exactly;
// the text query matches case-insensitively against title and description.
// Both filters must hold when both are set. Empty filters pass everything
// through.
func FilterMaps(maps []models.MapSummary, category, query string) []models.MapSummary {
	if category == "" && query == "" {
		return maps
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.MapSummary, 0, len(maps))
	for _, m := range maps {
		if category != "" && m.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Title), needle) &&
			!strings.Contains(strings.ToLower(m.Description), needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}
