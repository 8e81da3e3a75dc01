package models

import (
	"time"

	"github.com/google/uuid"
)

// Map is a named, ordered collection of spots owned by one user, with
// visibility and optional sale metadata.
type Map struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	IsPublic      bool      `json:"is_public" db:"is_public"`
	Category      string    `json:"category" db:"category"`
	Tags          []string  `json:"tags" db:"tags"`
	ForSale       bool      `json:"for_sale" db:"for_sale"`
	Price         *int64    `json:"price,omitempty" db:"price"`
	ViewCount     int       `json:"view_count" db:"view_count"`
	PurchaseCount int       `json:"purchase_count" db:"purchase_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Spot is a single named geographic point within a map. SortOrder defines
// the display sequence and is assigned at append time; it is not renumbered
// when an earlier spot is removed.
type Spot struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MapID       uuid.UUID `json:"map_id" db:"map_id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Description string    `json:"description" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MapWithSpots is the full editor/viewer projection of a map.
type MapWithSpots struct {
	Map
	Spots     []Spot `json:"spots"`
	LikeCount int    `json:"like_count"`
	Liked     bool   `json:"liked"`
}

// MapSummary is the marketplace listing projection: the map plus its author
// name and a like count derived from the likes table at read time.
type MapSummary struct {
	Map
	Username  string `json:"username"`
	SpotCount int    `json:"spot_count"`
	LikeCount int    `json:"like_count"`
}

// CreateMapRequest is the payload for creating a new map.
type CreateMapRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	Category    string `json:"category"`
}

// UpdateMapRequest carries partial map field updates. Nil fields are left
// untouched.
type UpdateMapRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// SaleSettingsRequest updates the marketplace sale settings of a map.
type SaleSettingsRequest struct {
	ForSale  bool     `json:"for_sale"`
	Price    *int64   `json:"price,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// UpdateSpotRequest carries partial spot field updates. Nil fields are left
// untouched.
type UpdateSpotRequest struct {
	Name        *string  `json:"name,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description *string  `json:"description,omitempty"`
}
