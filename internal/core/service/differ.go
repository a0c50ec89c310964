package service

import (
	"maps"
	"sort"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// Differ classifies UID ownership changes between snapshots.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares every subnet present in either snapshot. A subnet missing
// from one side is compared against an empty table. Subnets without any
// change are left out of the result. A nil snapshot counts as empty.
func (d *Differ) Diff(older, newer *domain.Snapshot) map[int]*domain.Delta {
	netuids := make(map[int]struct{})
	if older != nil {
		for id := range older.Subnets {
			netuids[id] = struct{}{}
		}
	}
	if newer != nil {
		for id := range newer.Subnets {
			netuids[id] = struct{}{}
		}
	}

	deltas := make(map[int]*domain.Delta)
	for netuid := range netuids {
		oldRec, newRec := older.Subnet(netuid), newer.Subnet(netuid)
		if oldRec != nil && newRec != nil && maps.Equal(oldRec.UIDHotkeys, newRec.UIDHotkeys) {
			continue
		}
		if delta := d.DiffRecords(netuid, oldRec, newRec); !delta.IsEmpty() {
			deltas[netuid] = delta
		}
	}
	return deltas
}

// DiffRecords classifies every UID of the two tables. Each UID lands in at
// most one list: replaced when both sides hold different hotkeys,
// deregistered when only the old side holds one, newly registered when only
// the new side does. An empty hotkey means no owner. Lists are ordered by
// UID.
func (d *Differ) DiffRecords(netuid int, older, newer *domain.SubnetRecord) *domain.Delta {
	delta := &domain.Delta{
		Netuid:       netuid,
		TotalUIDsOld: older.Len(),
		TotalUIDsNew: newer.Len(),
	}

	uids := make([]int, 0, older.Len()+newer.Len())
	seen := make(map[int]struct{}, older.Len()+newer.Len())
	for _, rec := range []*domain.SubnetRecord{older, newer} {
		if rec == nil {
			continue
		}
		for uid := range rec.UIDHotkeys {
			if _, ok := seen[uid]; !ok {
				seen[uid] = struct{}{}
				uids = append(uids, uid)
			}
		}
	}
	sort.Ints(uids)

	for _, uid := range uids {
		oldHK, hadOld := older.Hotkey(uid)
		newHK, hasNew := newer.Hotkey(uid)

		switch {
		case hadOld && hasNew:
			if oldHK != newHK {
				delta.Replacements = append(delta.Replacements, domain.Replacement{
					UID:       uid,
					OldHotkey: oldHK,
					NewHotkey: newHK,
				})
			}
		case hadOld:
			delta.Deregistrations = append(delta.Deregistrations, domain.Registration{UID: uid, Hotkey: oldHK})
		case hasNew:
			delta.NewRegistrations = append(delta.NewRegistrations, domain.Registration{UID: uid, Hotkey: newHK})
		}
	}
	return delta
}
