package models

// PlaceResult is a single place-search candidate returned by a place
// provider. PlaceID values from the demo provider carry a "demo-" prefix so
// callers can tell placeholder data from authoritative results.
type PlaceResult struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	PlaceID   string  `json:"place_id"`
}
