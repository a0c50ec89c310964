package domain

// Replacement is a UID whose occupant changed between two captures.
type Replacement struct {
	UID       int    `json:"uid"`
	OldHotkey string `json:"old_hotkey"`
	NewHotkey string `json:"new_hotkey"`
}

// Registration is a UID that gained (new registration) or lost
// (deregistration) its occupant between two captures.
type Registration struct {
	UID    int    `json:"uid"`
	Hotkey string `json:"hotkey"`
}

// Delta holds the ownership changes of one subnet between two snapshots.
// A UID appears in at most one of the three lists.
type Delta struct {
	Netuid           int            `json:"netuid"`
	Replacements     []Replacement  `json:"replacements"`
	NewRegistrations []Registration `json:"new_registrations"`
	Deregistrations  []Registration `json:"deregistrations"`
	TotalUIDsOld     int            `json:"total_uids_old"`
	TotalUIDsNew     int            `json:"total_uids_new"`
}

// TotalChanges returns the number of UIDs that changed in any way.
func (d *Delta) TotalChanges() int {
	return len(d.Replacements) + len(d.NewRegistrations) + len(d.Deregistrations)
}

// IsEmpty reports whether the delta records no change at all.
func (d *Delta) IsEmpty() bool {
	return d.TotalChanges() == 0
}
