package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

const (
	filePrefix    = "snapshot_"
	fileExtension = ".json"

	// DefaultRetentionCount keeps every snapshot.
	DefaultRetentionCount = 0
)

// Config configures the snapshot store.
type Config struct {
	Dir string

	// RetentionCount is the number of newest snapshots Prune keeps.
	// Zero disables pruning.
	RetentionCount int
}

// DefaultConfig returns a store configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
	}
}

// Store persists and enumerates snapshots, one JSON file per capture.
type Store struct {
	cfg Config
}

// NewStore creates a store, creating its directory if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	return &Store{cfg: cfg}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// Info contains metadata about a stored snapshot.
type Info struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Size int64  `json:"size"`

	// Timestamp is decoded from the file name; zero if the name does not
	// carry a recognizable timestamp.
	Timestamp time.Time `json:"timestamp"`
}

// FileName returns the file name a snapshot taken at ts is stored under.
func FileName(ts time.Time) string {
	return filePrefix + ts.UTC().Format(fileTimeLayout) + fileExtension
}

// Persist writes snap and returns its handle. The write is atomic and never
// replaces an existing snapshot: ErrSnapshotExists is returned instead.
// On success snap.ID is set to the new handle.
func (s *Store) Persist(snap *domain.Snapshot) (*Info, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot: nil snapshot")
	}
	data, err := encodeSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}

	name := FileName(snap.Timestamp)
	finalPath := filepath.Join(s.cfg.Dir, name)
	if _, err := os.Stat(finalPath); err == nil {
		return nil, domain.ErrSnapshotExists.WithDetails(name)
	}

	file, err := os.CreateTemp(s.cfg.Dir, ".snapshot-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tempPath := file.Name()
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close: %w", err)
	}

	// Link fails when the target exists, unlike Rename.
	if err := os.Link(tempPath, finalPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, domain.ErrSnapshotExists.WithDetails(name)
		}
		return nil, fmt.Errorf("snapshot: link: %w", err)
	}

	snap.ID = idFromPath(finalPath)
	return &Info{
		ID:        snap.ID,
		Path:      finalPath,
		Size:      int64(len(data)),
		Timestamp: snap.Timestamp.UTC(),
	}, nil
}

// List lists stored snapshots ordered by timestamp ascending.
func (s *Store) List() ([]*Info, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	infos := make([]*Info, 0, len(names))
	for _, name := range names {
		p := filepath.Join(s.cfg.Dir, name)
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			ID:        idFromPath(p),
			Path:      p,
			Size:      stat.Size(),
			Timestamp: timeFromID(idFromPath(p)),
		})
	}
	return infos, nil
}

// Load loads the snapshot identified by handle, which is either an ID
// returned by List/Persist or a file path.
func (s *Store) Load(handle string) (*domain.Snapshot, error) {
	return s.LoadFile(s.resolve(handle))
}

// LoadFile loads a snapshot from an explicit path.
func (s *Store) LoadFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound.WithDetails(path)
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, domain.ErrSnapshotCorrupt.WithDetails(path).WithCause(err)
	}
	snap.ID = idFromPath(path)
	return snap, nil
}

// Prune removes all but the newest keep snapshots. At least one snapshot is
// always kept. A zero keep uses the configured RetentionCount; if that is
// zero too, nothing is removed. Returns the IDs of removed snapshots.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		keep = s.cfg.RetentionCount
	}
	if keep <= 0 {
		return nil, nil
	}

	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(infos) <= keep {
		return nil, nil
	}

	var removed []string
	for _, info := range infos[:len(infos)-keep] {
		if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("snapshot: remove %s: %w", info.ID, err)
		}
		removed = append(removed, info.ID)
	}
	return removed, nil
}

func (s *Store) resolve(handle string) string {
	if strings.ContainsRune(handle, os.PathSeparator) || strings.ContainsRune(handle, '/') {
		return handle
	}
	if !strings.HasSuffix(handle, fileExtension) {
		handle += fileExtension
	}
	return filepath.Join(s.cfg.Dir, handle)
}

func idFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), fileExtension)
}

func timeFromID(id string) time.Time {
	v := strings.TrimPrefix(id, filePrefix)
	for _, layout := range []string{fileTimeLayout, legacyFileTimeLayout} {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
