// Package roles derives what the signed-in principal may see and touch.
// Everything here is a pure function over in-memory collections; callers
// re-resolve on every auth change and every trips-document snapshot,
// because guest invites can arrive after first sign-in.
package roles

import (
	"strings"

	"github.com/mdulin/tandem/internal/models"
)

type Level int

const (
	Unknown Level = iota
	Guest
	Companion
	Owner
)

func (l Level) String() string {
	switch l {
	case Owner:
		return "owner"
	case Companion:
		return "companion"
	case Guest:
		return "guest"
	default:
		return "unknown"
	}
}

// Descriptor is the resolved role plus whatever identity it carries:
// the companion record for companions, the per-trip permission map for
// guests.
type Descriptor struct {
	Level           Level
	Companion       *models.Companion
	TripPermissions map[string]models.Permission
}

// Resolve maps an authenticated email to a role, first match wins:
// owner allowlist, then companion roster, then trip guest lists, then
// Unknown. Owner matching is substring-based on the local part of the
// address (so "mdulin" matches "mdulin+trips@gmail.com"); companion and
// guest matching is exact. Total: any input, including empty, yields
// exactly one role.
func Resolve(email string, ownerFragments []string, roster []models.Companion, trips []models.Trip) Descriptor {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Descriptor{Level: Unknown}
	}

	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	for _, f := range ownerFragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && strings.Contains(local, f) {
			return Descriptor{Level: Owner}
		}
	}

	for i := range roster {
		if strings.ToLower(roster[i].Email) == email {
			c := roster[i]
			return Descriptor{Level: Companion, Companion: &c}
		}
	}

	perms := make(map[string]models.Permission)
	for _, t := range trips {
		for _, g := range t.Guests {
			if strings.ToLower(g.Email) == email {
				perms[t.ID] = g.Permission
			}
		}
	}
	if len(perms) > 0 {
		return Descriptor{Level: Guest, TripPermissions: perms}
	}

	return Descriptor{Level: Unknown}
}

// VisibleTrips filters trips down to what the role may see, preserving
// input order. Owners and companions see everything; guests see exactly
// the trips that invited them; unknown sees nothing.
func VisibleTrips(d Descriptor, trips []models.Trip) []models.Trip {
	switch d.Level {
	case Owner, Companion:
		return trips
	case Guest:
		visible := make([]models.Trip, 0, len(d.TripPermissions))
		for _, t := range trips {
			if _, ok := d.TripPermissions[t.ID]; ok {
				visible = append(visible, t)
			}
		}
		return visible
	default:
		return nil
	}
}

// VisibleOpenDates filters open travel dates. Owners see every entry
// regardless of its visibility list; companions see entries marked "all"
// or carrying their id. Guests have no companion identity to check
// against, so they see none.
func VisibleOpenDates(d Descriptor, dates []models.OpenDate) []models.OpenDate {
	switch d.Level {
	case Owner:
		return dates
	case Companion:
		if d.Companion == nil {
			return nil
		}
		visible := make([]models.OpenDate, 0, len(dates))
		for _, od := range dates {
			if od.VisibleToCompanion(d.Companion.ID) {
				visible = append(visible, od)
			}
		}
		return visible
	default:
		return nil
	}
}

// CanEdit reports whether the role may mutate the given trip. Companions
// are read-only regardless of any guest list; guests need an explicit
// "edit" grant for that trip id and fail closed otherwise.
func CanEdit(d Descriptor, tripID string) bool {
	switch d.Level {
	case Owner:
		return true
	case Guest:
		return d.TripPermissions[tripID] == models.PermissionEdit
	default:
		return false
	}
}

// CanDelete reports whether the role may delete the trip outright.
// Owner-exclusive: a guest with edit permission still may not delete.
func CanDelete(d Descriptor, tripID string) bool {
	return d.Level == Owner
}
