package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

func testSnapshot(ts time.Time) *domain.Snapshot {
	s := domain.NewSnapshot("finney", ts)
	s.CaptureID = "01JTESTCAPTURE"
	s.Subnets[1] = &domain.SubnetRecord{
		UIDHotkeys: map[int]string{0: "5FHneW", 1: "5GrwvaEF"},
		NNeurons:   2,
		Block:      4123456,
	}
	s.Subnets[18] = &domain.SubnetRecord{
		UIDHotkeys: map[int]string{0: "5DAAnrj"},
		NNeurons:   1,
		Block:      4123457,
	}
	return s
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(DefaultConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStore_PersistLoad(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.UTC)

	snap := testSnapshot(ts)
	info, err := s.Persist(snap)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if info.ID != "snapshot_2026-10-17T09-30-00.123456Z" {
		t.Fatalf("ID = %q", info.ID)
	}
	if snap.ID != info.ID {
		t.Fatalf("snap.ID = %q, want %q", snap.ID, info.ID)
	}
	if !info.Timestamp.Equal(ts) {
		t.Fatalf("Timestamp = %v, want %v", info.Timestamp, ts)
	}

	got, err := s.Load(info.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Network != "finney" || got.CaptureID != "01JTESTCAPTURE" {
		t.Errorf("Network/CaptureID = %q/%q", got.Network, got.CaptureID)
	}
	if len(got.Subnets) != 2 {
		t.Fatalf("len(Subnets) = %d, want 2", len(got.Subnets))
	}
	rec := got.Subnet(1)
	if rec == nil || rec.UIDHotkeys[1] != "5GrwvaEF" || rec.Block != 4123456 || rec.NNeurons != 2 {
		t.Errorf("subnet 1 = %+v", rec)
	}

	// Loading by path resolves to the same file.
	byPath, err := s.Load(info.Path)
	if err != nil {
		t.Fatalf("Load(path): %v", err)
	}
	if byPath.ID != info.ID {
		t.Errorf("ID = %q, want %q", byPath.ID, info.ID)
	}
}

func TestStore_PersistNeverOverwrites(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	if _, err := s.Persist(testSnapshot(ts)); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	other := testSnapshot(ts)
	other.Network = "test"
	_, err := s.Persist(other)
	if !errors.Is(err, domain.ErrSnapshotExists) {
		t.Fatalf("second Persist error = %v, want ErrSnapshotExists", err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(infos))
	}
	got, err := s.Load(infos[0].ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Network != "finney" {
		t.Errorf("Network = %q, original snapshot was clobbered", got.Network)
	}
}

func TestStore_PersistLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Persist(testSnapshot(time.Now())); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_ListOrdered(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Persist out of order.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour, 36 * time.Hour} {
		if _, err := s.Persist(testSnapshot(base.Add(offset))); err != nil {
			t.Fatalf("Persist: %v", err)
		}
	}
	// Foreign files are ignored.
	os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0600)
	os.WriteFile(filepath.Join(s.Dir(), "snapshot_bad.yaml"), []byte("x"), 0600)

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 4 {
		t.Fatalf("len(List()) = %d, want 4", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if !infos[i-1].Timestamp.Before(infos[i].Timestamp) {
			t.Fatalf("List not ascending at %d: %v >= %v", i, infos[i-1].Timestamp, infos[i].Timestamp)
		}
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	s := newTestStore(t)
	os.RemoveAll(s.Dir())

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("len(List()) = %d, want 0", len(infos))
	}
}

func TestStore_LoadErrors(t *testing.T) {
	s := newTestStore(t)

	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(s.Dir(), name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	write("snapshot_garbage.json", "{not json")
	write("snapshot_badkey.json", `{"timestamp":"2026-01-01T00:00:00","network":"finney","subnets":{"x":{"uid_hotkey_map":{}}}}`)
	write("snapshot_baduid.json", `{"timestamp":"2026-01-01T00:00:00","network":"finney","subnets":{"1":{"uid_hotkey_map":{"-3":"a"}}}}`)
	write("snapshot_badtime.json", `{"timestamp":"yesterday","network":"finney","subnets":{}}`)
	write("snapshot_notime.json", `{"network":"finney","subnets":{}}`)
	write("snapshot_dupuid.json", `{"timestamp":"2026-01-01T00:00:00","network":"finney","subnets":{"1":{"uid_hotkey_map":{"1":"A","01":"B"}}}}`)
	write("snapshot_dupnetuid.json", `{"timestamp":"2026-01-01T00:00:00","network":"finney","subnets":{"1":{"uid_hotkey_map":{}}," 1":{"uid_hotkey_map":{}}}}`)

	tests := []struct {
		handle string
		want   *domain.DomainError
	}{
		{"snapshot_missing", domain.ErrSnapshotNotFound},
		{filepath.Join(s.Dir(), "nope.json"), domain.ErrSnapshotNotFound},
		{"snapshot_garbage", domain.ErrSnapshotCorrupt},
		{"snapshot_badkey", domain.ErrSnapshotCorrupt},
		{"snapshot_baduid", domain.ErrSnapshotCorrupt},
		{"snapshot_badtime", domain.ErrSnapshotCorrupt},
		{"snapshot_notime.json", domain.ErrSnapshotCorrupt},
		{"snapshot_dupuid", domain.ErrSnapshotCorrupt},
		{"snapshot_dupnetuid", domain.ErrSnapshotCorrupt},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.handle), func(t *testing.T) {
			_, err := s.Load(tt.handle)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load(%q) error = %v, want %v", tt.handle, err, tt.want)
			}
		})
	}
}

func TestStore_LoadLegacyFormat(t *testing.T) {
	s := newTestStore(t)

	// Layout written by the earlier Python tooling: naive timestamp, no
	// capture id, integer keys as strings.
	legacy := `{
  "timestamp": "2025-11-02T14:05:09.381920",
  "network": "finney",
  "subnets": {
    "7": {"uid_hotkey_map": {"0": "5Cai", "12": "5Dx"}, "n_neurons": 2, "block": 6543210}
  }
}`
	name := "snapshot_2025-11-02T14-05-09.381920.json"
	if err := os.WriteFile(filepath.Join(s.Dir(), name), []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(strings.TrimSuffix(name, ".json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := time.Date(2025, 11, 2, 14, 5, 9, 381920000, time.UTC)
	if !got.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want)
	}
	if got.CaptureID != "" {
		t.Errorf("CaptureID = %q, want empty", got.CaptureID)
	}
	if hk, _ := got.Subnet(7).Hotkey(12); hk != "5Dx" {
		t.Errorf("uid 12 hotkey = %q, want 5Dx", hk)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || !infos[0].Timestamp.Equal(want) {
		t.Errorf("List timestamp = %+v, want %v", infos, want)
	}
}

func TestTimeFromID(t *testing.T) {
	tests := []struct {
		id   string
		want time.Time
	}{
		{"snapshot_2026-10-17T09-30-00.123456Z", time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.UTC)},
		{"snapshot_2024-01-01T12-30-45.123456", time.Date(2024, 1, 1, 12, 30, 45, 123456000, time.UTC)},
		{"snapshot_2024-01-01T12-30-45", time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)},
		{"snapshot_garbage", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := timeFromID(tt.id); !got.Equal(tt.want) {
				t.Errorf("timeFromID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	s, err := NewStore(Config{Dir: t.TempDir(), RetentionCount: 2})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 4; i++ {
		info, err := s.Persist(testSnapshot(base.Add(time.Duration(i) * time.Hour)))
		if err != nil {
			t.Fatalf("Persist %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	removed, err := s.Prune(0)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 2 || removed[0] != ids[0] || removed[1] != ids[1] {
		t.Fatalf("removed = %v, want oldest two of %v", removed, ids)
	}

	removed, err = s.Prune(1)
	if err != nil {
		t.Fatalf("Prune(1): %v", err)
	}
	if len(removed) != 1 || removed[0] != ids[2] {
		t.Fatalf("removed = %v, want [%s]", removed, ids[2])
	}

	infos, _ := s.List()
	if len(infos) != 1 || infos[0].ID != ids[3] {
		t.Fatalf("remaining = %v, want newest only", infos)
	}
}

func TestStore_PruneDisabled(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Persist(testSnapshot(time.Now())); err != nil {
		t.Fatal(err)
	}
	removed, err := s.Prune(0)
	if err != nil || len(removed) != 0 {
		t.Fatalf("Prune(0) = %v, %v; want nothing removed", removed, err)
	}
}

func TestNewStore_RequiresDir(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("NewStore with empty dir should fail")
	}
}
