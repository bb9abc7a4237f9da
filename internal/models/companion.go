package models

// Companion is a long-lived roster entry independent of any trip.
// Companions get blanket read access to trips and conditional access to
// open travel dates; they never get write access.
type Companion struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Color        string `json:"color,omitempty"`
}

// CompanionRoster is curated by the owners and ships with the build,
// like the training templates. Role resolution matches on exact email.
var CompanionRoster = []Companion{
	{ID: "kate", FirstName: "Kate", LastName: "Dulin", Email: "kate.dulin@gmail.com", Phone: "555-0142", Relationship: "Sister", Color: "rose"},
	{ID: "joe", FirstName: "Joe", LastName: "Harmon", Email: "joeharmon42@gmail.com", Phone: "555-0187", Relationship: "Friend", Color: "teal"},
	{ID: "priya", FirstName: "Priya", LastName: "Raman", Email: "priya.raman@outlook.com", Relationship: "Friend", Color: "amber"},
	{ID: "carlos", FirstName: "Carlos", LastName: "Vega", Email: "cvega.home@gmail.com", Phone: "555-0119", Relationship: "Neighbor", Color: "indigo"},
}
