package domain

type Review struct {
	ID            int64   `json:"id"`
	GuestID       int64   `json:"guest_id"`
	PropertyID    int64   `json:"property_id"`
	ReservationID *int64  `json:"reservation_id,omitempty"`
	Rating        int     `json:"rating"` // 1..5
	Message       *string `json:"message,omitempty"`
}
