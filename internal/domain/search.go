package domain

import "math"

// DefaultSearchLimit applies when a caller passes a non-positive limit.
const DefaultSearchLimit = 10

// MaxPricePerNight is the largest major-unit price whose minor-unit value
// still fits cost_per_night.
const MaxPricePerNight = math.MaxInt64 / 100

// SearchOptions filters a property search. A nil field is absent; a non-nil
// zero value is still a constraint.
type SearchOptions struct {
	OwnerID              *int64   `json:"owner_id,omitempty"`
	City                 *string  `json:"city,omitempty"`
	MinimumPricePerNight *float64 `json:"minimum_price_per_night,omitempty"` // major units
	MaximumPricePerNight *float64 `json:"maximum_price_per_night,omitempty"` // major units
	MinimumRating        *float64 `json:"minimum_rating,omitempty"`
}
