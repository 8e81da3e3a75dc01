package maps

import (
	"time"

	"github.com/google/uuid"

	"github.com/machimap/machimap/internal/app/models"
)

// SpotCollection maintains the ordered list of spots belonging to one map
// under edit, in memory, between persistence calls. Sort orders are assigned
// sequentially at append time and are never renumbered on removal, so a
// collection that has seen deletions carries gaps; only relative order
// matters for rendering.
type SpotCollection struct {
	mapID uuid.UUID
	spots []models.Spot
}

// NewSpotCollection builds a collection over the map's current spots.
func NewSpotCollection(mapID uuid.UUID, spots []models.Spot) *SpotCollection {
	owned := make([]models.Spot, len(spots))
	copy(owned, spots)
	return &SpotCollection{mapID: mapID, spots: owned}
}

// Add appends a new spot built from a place-search candidate. The new spot
// gets a fresh id, sort order len+1 and an empty description.
func (sc *SpotCollection) Add(place models.PlaceResult) models.Spot {
	now := time.Now()
	spot := models.Spot{
		ID:        uuid.New(),
		MapID:     sc.mapID,
		Name:      place.Name,
		Address:   place.Address,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		SortOrder: len(sc.spots) + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sc.spots = append(sc.spots, spot)
	return spot
}

// Update merges the non-nil fields of req into the matching spot. An unknown
// spot id is a silent no-op. Returns the updated spot and whether a match
// was found.
func (sc *SpotCollection) Update(spotID uuid.UUID, req models.UpdateSpotRequest) (models.Spot, bool) {
	for i := range sc.spots {
		if sc.spots[i].ID != spotID {
			continue
		}
		s := &sc.spots[i]
		changed := false
		if req.Name != nil && *req.Name != s.Name {
			s.Name = *req.Name
			changed = true
		}
		if req.Address != nil && *req.Address != s.Address {
			s.Address = *req.Address
			changed = true
		}
		if req.Latitude != nil && *req.Latitude != s.Latitude {
			s.Latitude = *req.Latitude
			changed = true
		}
		if req.Longitude != nil && *req.Longitude != s.Longitude {
			s.Longitude = *req.Longitude
			changed = true
		}
		if req.Description != nil && *req.Description != s.Description {
			s.Description = *req.Description
			changed = true
		}
		if changed {
			s.UpdatedAt = time.Now()
		}
		return *s, true
	}
	return models.Spot{}, false
}

// Remove filters the matching spot out of the collection. Remaining sort
// orders are left untouched. Removing an unknown id is a no-op.
func (sc *SpotCollection) Remove(spotID uuid.UUID) bool {
	for i := range sc.spots {
		if sc.spots[i].ID == spotID {
			sc.spots = append(sc.spots[:i], sc.spots[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of spots in the collection.
func (sc *SpotCollection) Len() int {
	return len(sc.spots)
}

// Spots returns a copy of the collection in display order.
func (sc *SpotCollection) Spots() []models.Spot {
	out := make([]models.Spot, len(sc.spots))
	copy(out, sc.spots)
	return out
}
