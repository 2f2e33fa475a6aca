package domain

type Property struct {
	ID                int64   `json:"id"`
	OwnerID           int64   `json:"owner_id"`
	Title             string  `json:"title"`
	Description       *string `json:"description,omitempty"`
	ThumbnailPhotoURL *string `json:"thumbnail_photo_url,omitempty"`
	CoverPhotoURL     *string `json:"cover_photo_url,omitempty"`
	CostPerNight      int64   `json:"cost_per_night"` // minor units (cents)
	ParkingSpaces     int     `json:"parking_spaces"`
	NumberOfBathrooms int     `json:"number_of_bathrooms"`
	NumberOfBedrooms  int     `json:"number_of_bedrooms"`
	Country           *string `json:"country,omitempty"`
	Street            *string `json:"street,omitempty"`
	City              *string `json:"city,omitempty"`
	Province          *string `json:"province,omitempty"`
	PostCode          *string `json:"post_code,omitempty"`
	Active            bool    `json:"active"`
}

// NewProperty is the insert payload; ID is assigned by the store.
type NewProperty struct {
	OwnerID           int64
	Title             string
	Description       *string
	ThumbnailPhotoURL *string
	CoverPhotoURL     *string
	CostPerNight      int64
	ParkingSpaces     int
	NumberOfBathrooms int
	NumberOfBedrooms  int
	Country           *string
	Street            *string
	City              *string
	Province          *string
	PostCode          *string
	Active            bool
}

// PropertyRow is a search result: the property plus the mean of its review
// ratings. AverageRating is nil when the property has no reviews.
type PropertyRow struct {
	Property
	AverageRating *float64 `json:"average_rating"`
}
