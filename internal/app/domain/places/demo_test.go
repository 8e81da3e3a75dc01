package places

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSearchEmptyQueryReturnsEmptySet(t *testing.T) {
	p := NewDemoProvider()

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := p.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	}
}

func TestDemoSearchIsDeterministic(t *testing.T) {
	p := NewDemoProvider()

	first, err := p.Search(context.Background(), "cafe near shibuya")
	require.NoError(t, err)
	second, err := p.Search(context.Background(), "cafe near shibuya")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDemoSearchKeywordBuckets(t *testing.T) {
	p := NewDemoProvider()

	tests := []struct {
		query  string
		prefix string
	}{
		{"coffee spots", "demo-cafe-"},
		{"good ramen", "demo-restaurant-"},
		{"nearest station", "demo-station-"},
		{"park for a picnic", "demo-park-"},
	}
	for _, tt := range tests {
		results, err := p.Search(context.Background(), tt.query)
		require.NoError(t, err)
		require.NotEmpty(t, results, tt.query)
		for _, r := range results {
			assert.True(t, strings.HasPrefix(r.PlaceID, tt.prefix),
				"query %q gave place id %s", tt.query, r.PlaceID)
		}
	}
}

func TestDemoSearchGenericFallbackEchoesQuery(t *testing.T) {
	p := NewDemoProvider()

	results, err := p.Search(context.Background(), "Ghibli Museum")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, r.Name, "Ghibli Museum")
		assert.True(t, strings.HasPrefix(r.PlaceID, "demo-"))
	}
}

func TestDemoSearchBoundedResults(t *testing.T) {
	p := NewDemoProvider()

	for _, q := range []string{"cafe", "ramen", "station", "park", "anything else"} {
		results, err := p.Search(context.Background(), q)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), MaxResults)
	}
}

func TestDemoSearchAllResultsCarryDemoIDs(t *testing.T) {
	p := NewDemoProvider()

	results, err := p.Search(context.Background(), "cafe")
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.PlaceID, "demo-"))
		assert.NotZero(t, r.Latitude)
		assert.NotZero(t, r.Longitude)
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Address)
	}
}
