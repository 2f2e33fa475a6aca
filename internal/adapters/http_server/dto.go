package httpserver

import "lightbnb/internal/domain"

type newUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r newUserRequest) toDomain() domain.NewUser {
	return domain.NewUser{Name: r.Name, Email: r.Email, Password: r.Password}
}

// newPropertyRequest carries cost_per_night in minor units, as stored.
type newPropertyRequest struct {
	OwnerID           int64   `json:"owner_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"required,max=255"`
	Description       *string `json:"description"`
	ThumbnailPhotoURL *string `json:"thumbnail_photo_url" validate:"omitempty,url"`
	CoverPhotoURL     *string `json:"cover_photo_url" validate:"omitempty,url"`
	CostPerNight      int64   `json:"cost_per_night" validate:"gte=0"`
	ParkingSpaces     int     `json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int     `json:"number_of_bedrooms" validate:"gte=0"`
	Country           *string `json:"country"`
	Street            *string `json:"street"`
	City              *string `json:"city"`
	Province          *string `json:"province"`
	PostCode          *string `json:"post_code"`
	Active            *bool   `json:"active"`
}

func (r newPropertyRequest) toDomain() domain.NewProperty {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.NewProperty{
		OwnerID:           r.OwnerID,
		Title:             r.Title,
		Description:       r.Description,
		ThumbnailPhotoURL: r.ThumbnailPhotoURL,
		CoverPhotoURL:     r.CoverPhotoURL,
		CostPerNight:      r.CostPerNight,
		ParkingSpaces:     r.ParkingSpaces,
		NumberOfBathrooms: r.NumberOfBathrooms,
		NumberOfBedrooms:  r.NumberOfBedrooms,
		Country:           r.Country,
		Street:            r.Street,
		City:              r.City,
		Province:          r.Province,
		PostCode:          r.PostCode,
		Active:            active,
	}
}
