package places

import (
	"context"
	"strings"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Provider = (*DemoProvider)(nil)

// DemoProvider serves deterministic placeholder data so the editor stays
// usable without an upstream API key. Results carry "demo-" place ids so
// they are recognizable as non-authoritative.
type DemoProvider struct{}

func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

func (p *DemoProvider) Name() string { return "demo" }

var demoBuckets = map[string][]models.PlaceResult{
	"cafe": {
		{Name: "Blue Bottle Coffee Shibuya", Address: "1-7-3 Shibuya, Shibuya City, Tokyo", Latitude: 35.6580, Longitude: 139.7016, PlaceID: "demo-cafe-1"},
		{Name: "Streamer Coffee Company", Address: "1-20-28 Shibuya, Shibuya City, Tokyo", Latitude: 35.6595, Longitude: 139.7045, PlaceID: "demo-cafe-2"},
		{Name: "Onibus Coffee Nakameguro", Address: "2-14-1 Kamimeguro, Meguro City, Tokyo", Latitude: 35.6445, Longitude: 139.6990, PlaceID: "demo-cafe-3"},
	},
	"restaurant": {
		{Name: "Afuri Ramen Ebisu", Address: "1-1-7 Ebisu, Shibuya City, Tokyo", Latitude: 35.6467, Longitude: 139.7101, PlaceID: "demo-restaurant-1"},
		{Name: "Sushi no Midori Shibuya", Address: "1-12-3 Dogenzaka, Shibuya City, Tokyo", Latitude: 35.6584, Longitude: 139.6987, PlaceID: "demo-restaurant-2"},
		{Name: "Tonkatsu Maisen Aoyama", Address: "4-8-5 Jingumae, Shibuya City, Tokyo", Latitude: 35.6681, Longitude: 139.7085, PlaceID: "demo-restaurant-3"},
	},
	"station": {
		{Name: "Shibuya Station", Address: "2-1 Dogenzaka, Shibuya City, Tokyo", Latitude: 35.6580, Longitude: 139.7016, PlaceID: "demo-station-1"},
		{Name: "Shinjuku Station", Address: "3-38-1 Shinjuku, Shinjuku City, Tokyo", Latitude: 35.6896, Longitude: 139.7006, PlaceID: "demo-station-2"},
		{Name: "Tokyo Station", Address: "1-9-1 Marunouchi, Chiyoda City, Tokyo", Latitude: 35.6812, Longitude: 139.7671, PlaceID: "demo-station-3"},
	},
	"park": {
		{Name: "Yoyogi Park", Address: "2-1 Yoyogikamizonocho, Shibuya City, Tokyo", Latitude: 35.6712, Longitude: 139.6949, PlaceID: "demo-park-1"},
		{Name: "Shinjuku Gyoen", Address: "11 Naitomachi, Shinjuku City, Tokyo", Latitude: 35.6852, Longitude: 139.7100, PlaceID: "demo-park-2"},
		{Name: "Ueno Park", Address: "Uenokoen, Taito City, Tokyo", Latitude: 35.7148, Longitude: 139.7745, PlaceID: "demo-park-3"},
	},
}

// Checked in order, so a query mentioning several keywords always resolves
// to the same bucket.
var demoKeywords = []struct {
	keyword string
	bucket  string
}{
	{"cafe", "cafe"}, {"coffee", "cafe"}, {"カフェ", "cafe"},
	{"restaurant", "restaurant"}, {"food", "restaurant"}, {"ramen", "restaurant"},
	{"sushi", "restaurant"}, {"レストラン", "restaurant"},
	{"station", "station"}, {"train", "station"}, {"駅", "station"},
	{"park", "park"}, {"garden", "park"}, {"公園", "park"},
}

// Search returns a keyword bucket when the query mentions one, otherwise a
// generic triple stamped with the query text. Empty or whitespace queries
// return an empty set without any bucket lookup.
func (p *DemoProvider) Search(_ context.Context, query string) ([]models.PlaceResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.PlaceResult{}, nil
	}

	for _, entry := range demoKeywords {
		if strings.Contains(q, entry.keyword) {
			return clamp(demoBuckets[entry.bucket]), nil
		}
	}

	generic := []models.PlaceResult{
		{Name: query + " Main Branch", Address: "1-2-3 Chuo, Tokyo", Latitude: 35.6762, Longitude: 139.6503, PlaceID: "demo-generic-1"},
		{Name: query + " Annex", Address: "4-5-6 Minato, Tokyo", Latitude: 35.6585, Longitude: 139.7454, PlaceID: "demo-generic-2"},
		{Name: query + " East", Address: "7-8-9 Koto, Tokyo", Latitude: 35.6735, Longitude: 139.8175, PlaceID: "demo-generic-3"},
	}
	return clamp(generic), nil
}

func clamp(results []models.PlaceResult) []models.PlaceResult {
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	out := make([]models.PlaceResult, len(results))
	copy(out, results)
	return out
}
