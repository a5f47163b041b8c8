package domain

// Room is the slice of the catalog this subsystem needs: enough to group
// physical rooms of the same type for availability counting.
type Room struct {
	ID       int64  `json:"id"`
	HotelID  int64  `json:"hotel_id"`
	RoomType string `json:"room_type"`
	IsActive bool   `json:"is_active"`
}

// Hotel carries the per-hotel commission configuration.
type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// CommissionRate is the platform cut in percent. Zero means the hotel
	// has no configured rate and the platform default applies.
	CommissionRate float64 `json:"commission_rate"`
}
