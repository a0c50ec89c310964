package output

import (
	"fmt"
	"io"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/storage/snapshot"
)

// SnapshotEntry is one stored snapshot in a listing.
type SnapshotEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size" table:"-"`
	HumanSize string    `json:"-"`
	Path      string    `json:"path" table:"wide"`
}

// NewSnapshotList converts store listings for output.
func NewSnapshotList(infos []*snapshot.Info) []SnapshotEntry {
	list := make([]SnapshotEntry, 0, len(infos))
	for _, info := range infos {
		list = append(list, SnapshotEntry{
			ID:        info.ID,
			Timestamp: info.Timestamp,
			Size:      info.Size,
			HumanSize: FormatBytes(info.Size),
			Path:      info.Path,
		})
	}
	return list
}

// CaptureReport is the result of the snapshot command.
type CaptureReport struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CaptureID string    `json:"capture_id"`
	Network   string    `json:"network"`
	Timestamp time.Time `json:"timestamp"`
	Subnets   int       `json:"subnets"`
	UIDs      int       `json:"uids"`
	Failed    []int     `json:"failed_subnets"`
	Size      int64     `json:"size"`
	Pruned    []string  `json:"pruned,omitempty"`
}

// NewCaptureReport describes a persisted snapshot.
func NewCaptureReport(snap *domain.Snapshot, info *snapshot.Info, failed []int) *CaptureReport {
	if failed == nil {
		failed = []int{}
	}
	return &CaptureReport{
		ID:        info.ID,
		Path:      info.Path,
		CaptureID: snap.CaptureID,
		Network:   snap.Network,
		Timestamp: snap.Timestamp.UTC(),
		Subnets:   len(snap.Subnets),
		UIDs:      snap.TotalUIDs(),
		Failed:    failed,
		Size:      info.Size,
	}
}

// RenderTable implements TableRenderer.
func (r *CaptureReport) RenderTable(w io.Writer, wide bool) error {
	fmt.Fprintf(w, "Captured %d subnets (%d UIDs) on %s", r.Subnets, r.UIDs, r.Network)
	if len(r.Failed) > 0 {
		fmt.Fprintf(w, ", %d failed: %v", len(r.Failed), r.Failed)
	}
	fmt.Fprintln(w)
	if wide {
		fmt.Fprintf(w, "Capture ID: %s\nSize: %s\n", r.CaptureID, FormatBytes(r.Size))
	}
	for _, id := range r.Pruned {
		fmt.Fprintf(w, "Pruned %s\n", id)
	}
	_, err := fmt.Fprintf(w, "Snapshot saved to %s\n", r.Path)
	return err
}

// PruneReport is the result of the snapshot prune command.
type PruneReport struct {
	Removed      []string `json:"removed"`
	Kept         int      `json:"kept"`
	CacheEntries int      `json:"cache_entries_removed"`
}

// RenderTable implements TableRenderer.
func (r *PruneReport) RenderTable(w io.Writer, wide bool) error {
	for _, id := range r.Removed {
		fmt.Fprintf(w, "Removed %s\n", id)
	}
	if wide && r.CacheEntries > 0 {
		fmt.Fprintf(w, "Dropped %d cached deltas\n", r.CacheEntries)
	}
	_, err := fmt.Fprintf(w, "%d snapshots removed, %d kept\n", len(r.Removed), r.Kept)
	return err
}
