package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/machimap/machimap/internal/app/models"
)

func summary(title, description, category string) models.MapSummary {
	return models.MapSummary{
		Map: models.Map{
			Title:       title,
			Description: description,
			Category:    category,
		},
	}
}

func TestFilterMapsEmptyFiltersPassEverything(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo Coffee", "best beans", "cafe"),
		summary("Osaka Eats", "street food", "restaurant"),
	}

	assert.Equal(t, maps, FilterMaps(maps, "", ""))
}

func TestFilterMapsByCategory(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo Coffee", "", "cafe"),
		summary("Osaka Eats", "", "restaurant"),
		summary("Kyoto Roasters", "", "cafe"),
	}

	got := FilterMaps(maps, "cafe", "")

	assert.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, "cafe", m.Category)
	}
}

func TestFilterMapsTextIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo COFFEE Crawl", "", "cafe"),
		summary("Hidden gems", "quiet coffee stands", "cafe"),
		summary("Osaka Eats", "street food", "restaurant"),
	}

	got := FilterMaps(maps, "", "coffee")

	assert.Len(t, got, 2)
	assert.Equal(t, "Tokyo COFFEE Crawl", got[0].Title)
	assert.Equal(t, "Hidden gems", got[1].Title)
}

func TestFilterMapsBothFiltersIntersect(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo Coffee", "", "cafe"),
		summary("Coffee trucks", "", "restaurant"),
		summary("Kyoto temples", "", "cafe"),
	}

	got := FilterMaps(maps, "cafe", "coffee")

	assert.Len(t, got, 1)
	assert.Equal(t, "Tokyo Coffee", got[0].Title)
}

func TestFilterMapsNoMatchesYieldsEmptySlice(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo Coffee", "", "cafe"),
	}

	got := FilterMaps(maps, "nature", "waterfall")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterMapsTrimsQueryWhitespace(t *testing.T) {
	maps := []models.MapSummary{
		summary("Tokyo Coffee", "", "cafe"),
	}

	got := FilterMaps(maps, "", "  coffee  ")

	assert.Len(t, got, 1)
}
