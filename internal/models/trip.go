package models

type Permission string

const (
	PermissionEdit Permission = "edit"
	PermissionView Permission = "view"
)

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GuestInvite grants one email address access to the trip it sits on.
// Permission is per-trip; the same email can be invited to several trips
// with different permissions.
type GuestInvite struct {
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
	AddedBy    string     `json:"added_by"`
}

type Trip struct {
	ID          string        `json:"id"`
	Destination string        `json:"destination"`
	Dates       *DateRange    `json:"dates,omitempty"` // nil for wishlist entries
	Guests      []GuestInvite `json:"guests,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	CoverImage  string        `json:"cover_image,omitempty"`
}

// TripsDoc is the travel-domain document, stored whole under one key.
type TripsDoc struct {
	Trips     []Trip     `json:"trips"`
	Wishlist  []Trip     `json:"wishlist"`
	OpenDates []OpenDate `json:"open_dates"`
	Memories  []Memory   `json:"memories"`
}
