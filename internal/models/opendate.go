package models

// VisibleToAll is the sentinel meaning an open date is visible to every
// companion on the roster.
const VisibleToAll = "all"

// OpenDate is an owner-declared range during which the owners are free to
// travel. VisibleTo is either [VisibleToAll] or a list of companion ids;
// it is never persisted empty.
type OpenDate struct {
	ID        string   `json:"id"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Note      string   `json:"note,omitempty"`
	VisibleTo []string `json:"visible_to"`
}

func (d OpenDate) VisibleToCompanion(companionID string) bool {
	for _, v := range d.VisibleTo {
		if v == VisibleToAll || v == companionID {
			return true
		}
	}
	return false
}

func (d OpenDate) visibleToEveryone() bool {
	for _, v := range d.VisibleTo {
		if v == VisibleToAll {
			return true
		}
	}
	return false
}

// ToggleVisibility flips one companion's visibility. Starting from the
// "all" sentinel, toggling a companion off expands the sentinel into the
// explicit roster minus that companion. Removing the last explicit
// companion collapses the list back to ["all"] rather than leaving it
// empty.
func (d *OpenDate) ToggleVisibility(companionID string, roster []Companion) {
	if d.visibleToEveryone() || len(d.VisibleTo) == 0 {
		expanded := make([]string, 0, len(roster))
		for _, c := range roster {
			if c.ID != companionID {
				expanded = append(expanded, c.ID)
			}
		}
		if len(expanded) == 0 {
			expanded = []string{VisibleToAll}
		}
		d.VisibleTo = expanded
		return
	}

	kept := make([]string, 0, len(d.VisibleTo)+1)
	removed := false
	for _, v := range d.VisibleTo {
		if v == companionID {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		kept = append(kept, companionID)
	}
	if len(kept) == 0 {
		kept = []string{VisibleToAll}
	}
	d.VisibleTo = kept
}
