package domain

import "time"

type Reservation struct {
	ID         int64     `json:"id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	PropertyID int64     `json:"property_id"`
	GuestID    int64     `json:"guest_id"`
}

// ReservationRow is a past reservation joined with its property.
type ReservationRow struct {
	Reservation   Reservation `json:"reservation"`
	Property      Property    `json:"property"`
	AverageRating *float64    `json:"average_rating"`
}
