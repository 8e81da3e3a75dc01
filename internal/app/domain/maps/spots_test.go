package maps

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machimap/machimap/internal/app/models"
)

func place(name string) models.PlaceResult {
	return models.PlaceResult{
		Name:      name,
		Address:   "1-2-3 Shibuya, Tokyo",
		Latitude:  35.6580,
		Longitude: 139.7016,
		PlaceID:   "demo-" + name,
	}
}

func TestSpotCollectionAddAssignsSequentialOrders(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)

	for i := 0; i < 5; i++ {
		sc.Add(place("spot"))
	}

	spots := sc.Spots()
	require.Len(t, spots, 5)
	for i, s := range spots {
		assert.Equal(t, i+1, s.SortOrder)
	}
}

func TestSpotCollectionAddCopiesPlaceFields(t *testing.T) {
	mapID := uuid.New()
	sc := NewSpotCollection(mapID, nil)

	spot := sc.Add(place("Blue Bottle"))

	assert.Equal(t, mapID, spot.MapID)
	assert.Equal(t, "Blue Bottle", spot.Name)
	assert.Equal(t, "1-2-3 Shibuya, Tokyo", spot.Address)
	assert.Equal(t, 35.6580, spot.Latitude)
	assert.Equal(t, 139.7016, spot.Longitude)
	assert.Empty(t, spot.Description)
	assert.NotEqual(t, uuid.Nil, spot.ID)
}

func TestSpotCollectionRemoveKeepsRemainingOrders(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	first := sc.Add(place("a"))
	sc.Add(place("b"))
	sc.Add(place("c"))

	require.True(t, sc.Remove(first.ID))

	spots := sc.Spots()
	require.Len(t, spots, 2)
	// Orders are not renumbered; the gap stays.
	assert.Equal(t, 2, spots[0].SortOrder)
	assert.Equal(t, 3, spots[1].SortOrder)
}

func TestSpotCollectionRemoveUnknownIsNoOp(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	sc.Add(place("a"))
	before := sc.Spots()

	assert.False(t, sc.Remove(uuid.New()))
	assert.Equal(t, before, sc.Spots())
}

func TestSpotCollectionAddThenRemoveRestoresState(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	sc.Add(place("a"))
	sc.Add(place("b"))
	before := sc.Spots()

	added := sc.Add(place("c"))
	require.True(t, sc.Remove(added.ID))

	assert.Equal(t, before, sc.Spots())
}

func TestSpotCollectionUpdateMergesOnlySetFields(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	spot := sc.Add(place("original"))

	name := "renamed"
	desc := "worth a detour"
	updated, found := sc.Update(spot.ID, models.UpdateSpotRequest{
		Name:        &name,
		Description: &desc,
	})

	require.True(t, found)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "worth a detour", updated.Description)
	assert.Equal(t, spot.Address, updated.Address)
	assert.Equal(t, spot.Latitude, updated.Latitude)
	assert.Equal(t, spot.SortOrder, updated.SortOrder)
}

func TestSpotCollectionUpdateEmptyRequestLeavesSpotUnchanged(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	spot := sc.Add(place("stable"))

	updated, found := sc.Update(spot.ID, models.UpdateSpotRequest{})

	require.True(t, found)
	assert.Equal(t, spot, updated)
}

func TestSpotCollectionUpdateUnknownIDReportsNotFound(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	sc.Add(place("a"))

	name := "ignored"
	_, found := sc.Update(uuid.New(), models.UpdateSpotRequest{Name: &name})

	assert.False(t, found)
	assert.Equal(t, 1, sc.Len())
}

func TestSpotCollectionOrdersResumeAfterRemoval(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	sc.Add(place("a"))
	b := sc.Add(place("b"))
	sc.Add(place("c"))
	require.True(t, sc.Remove(b.ID))

	// Next append counts current length, so the new order can collide with
	// an existing one; only relative order matters for rendering.
	added := sc.Add(place("d"))
	assert.Equal(t, 3, added.SortOrder)
	assert.Equal(t, 3, sc.Len())
}

func TestSpotCollectionSpotsReturnsCopy(t *testing.T) {
	sc := NewSpotCollection(uuid.New(), nil)
	sc.Add(place("a"))

	spots := sc.Spots()
	spots[0].Name = "mutated"

	assert.Equal(t, "a", sc.Spots()[0].Name)
}
