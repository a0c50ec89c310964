package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// SnapshotRef identifies one side of a comparison.
type SnapshotRef struct {
	ID        string    `json:"id"`
	CaptureID string    `json:"capture_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Subnets   int       `json:"subnets"`
}

func refOf(s *domain.Snapshot) SnapshotRef {
	return SnapshotRef{
		ID:        s.ID,
		CaptureID: s.CaptureID,
		Timestamp: s.Timestamp.UTC(),
		Subnets:   len(s.Subnets),
	}
}

// CompareEntry summarizes the changes of one subnet.
type CompareEntry struct {
	Netuid           int           `json:"netuid"`
	Replacements     int           `json:"replacements"`
	NewRegistrations int           `json:"new_registrations"`
	Deregistrations  int           `json:"deregistrations"`
	TotalUIDsOld     int           `json:"total_uids_old"`
	TotalUIDsNew     int           `json:"total_uids_new"`
	Changes          *domain.Delta `json:"changes,omitempty"`
}

// CompareReport is the result of the compare command.
type CompareReport struct {
	Old     SnapshotRef    `json:"old"`
	New     SnapshotRef    `json:"new"`
	Subnets []CompareEntry `json:"subnets"`
}

// NewCompareReport lists the deltas by netuid. With detail each entry
// carries the per-UID changes too.
func NewCompareReport(older, newer *domain.Snapshot, deltas map[int]*domain.Delta, detail bool) *CompareReport {
	r := &CompareReport{
		Old:     refOf(older),
		New:     refOf(newer),
		Subnets: make([]CompareEntry, 0, len(deltas)),
	}
	for _, d := range deltas {
		e := CompareEntry{
			Netuid:           d.Netuid,
			Replacements:     len(d.Replacements),
			NewRegistrations: len(d.NewRegistrations),
			Deregistrations:  len(d.Deregistrations),
			TotalUIDsOld:     d.TotalUIDsOld,
			TotalUIDsNew:     d.TotalUIDsNew,
		}
		if detail {
			e.Changes = d
		}
		r.Subnets = append(r.Subnets, e)
	}
	sort.Slice(r.Subnets, func(i, j int) bool { return r.Subnets[i].Netuid < r.Subnets[j].Netuid })
	return r
}

// RenderTable implements TableRenderer.
func (r *CompareReport) RenderTable(w io.Writer, wide bool) error {
	fmt.Fprintln(w, "SNAPSHOT COMPARISON")
	fmt.Fprintf(w, "Old: %s (%s)\n", r.Old.ID, formatTime(r.Old.Timestamp))
	fmt.Fprintf(w, "New: %s (%s)\n\n", r.New.ID, formatTime(r.New.Timestamp))

	if len(r.Subnets) == 0 {
		_, err := fmt.Fprintln(w, "No changes.")
		return err
	}

	t := &Table{}
	t.SetHeaders("NETUID", "REPLACEMENTS", "NEW REGISTRATIONS", "DEREGISTRATIONS")
	if wide {
		t.Headers = append(t.Headers, "UIDS OLD", "UIDS NEW")
	}
	for _, e := range r.Subnets {
		row := []string{
			fmt.Sprint(e.Netuid),
			fmt.Sprint(e.Replacements),
			fmt.Sprint(e.NewRegistrations),
			fmt.Sprint(e.Deregistrations),
		}
		if wide {
			row = append(row, fmt.Sprint(e.TotalUIDsOld), fmt.Sprint(e.TotalUIDsNew))
		}
		t.AddRow(row...)
	}
	if err := t.Render(w); err != nil {
		return err
	}

	for _, e := range r.Subnets {
		if e.Changes == nil {
			continue
		}
		fmt.Fprintf(w, "\nSubnet %d:\n", e.Netuid)
		for _, c := range e.Changes.Replacements {
			fmt.Fprintf(w, "  replaced      uid %-5d %s -> %s\n", c.UID, c.OldHotkey, c.NewHotkey)
		}
		for _, c := range e.Changes.NewRegistrations {
			fmt.Fprintf(w, "  registered    uid %-5d %s\n", c.UID, c.Hotkey)
		}
		for _, c := range e.Changes.Deregistrations {
			fmt.Fprintf(w, "  deregistered  uid %-5d %s\n", c.UID, c.Hotkey)
		}
	}
	return nil
}
