package models

type RSVPStatus string

const (
	RSVPPending RSVPStatus = "pending"
	RSVPYes     RSVPStatus = "yes"
	RSVPNo      RSVPStatus = "no"
)

// PartyGuest is one invitee on a social event. Token is the opaque string
// that gates the standalone RSVP page; it is compared for exact equality
// and carries no signature.
type PartyGuest struct {
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
	Token string     `json:"token"`
	RSVP  RSVPStatus `json:"rsvp"`
	Note  string     `json:"note,omitempty"`
}

type PartyEvent struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        string       `json:"date"`
	Location    string       `json:"location,omitempty"`
	Description string       `json:"description,omitempty"`
	Guests      []PartyGuest `json:"guests,omitempty"`
	Photos      []string     `json:"photos,omitempty"`
}

// PartyDoc is the social-domain document, stored whole under one key.
type PartyDoc struct {
	Events []PartyEvent `json:"events"`
}
