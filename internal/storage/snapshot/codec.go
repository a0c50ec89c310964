package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

const (
	// timestampLayout is the JSON timestamp format written by this package.
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

	// fileTimeLayout is the fixed-width timestamp embedded in file names.
	fileTimeLayout = "2006-01-02T15-04-05.000000Z"

	// legacyFileTimeLayout matches file names of the earlier tooling: naive
	// local time, fraction omitted when zero.
	legacyFileTimeLayout = "2006-01-02T15-04-05.999999"
)

// Layouts accepted when parsing a stored timestamp. Naive timestamps carry
// no zone and are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type snapshotFile struct {
	Timestamp string                `json:"timestamp"`
	Network   string                `json:"network"`
	CaptureID string                `json:"capture_id,omitempty"`
	Subnets   map[string]subnetFile `json:"subnets"`
}

type subnetFile struct {
	UIDHotkeyMap map[string]string `json:"uid_hotkey_map"`
	NNeurons     int               `json:"n_neurons"`
	Block        int64             `json:"block"`
}

func encodeSnapshot(s *domain.Snapshot) ([]byte, error) {
	f := snapshotFile{
		Timestamp: s.Timestamp.UTC().Format(timestampLayout),
		Network:   s.Network,
		CaptureID: s.CaptureID,
		Subnets:   make(map[string]subnetFile, len(s.Subnets)),
	}
	for netuid, rec := range s.Subnets {
		if rec == nil {
			continue
		}
		m := make(map[string]string, len(rec.UIDHotkeys))
		for uid, hk := range rec.UIDHotkeys {
			m[strconv.Itoa(uid)] = hk
		}
		f.Subnets[strconv.Itoa(netuid)] = subnetFile{
			UIDHotkeyMap: m,
			NNeurons:     rec.NNeurons,
			Block:        rec.Block,
		}
	}
	return json.MarshalIndent(f, "", "  ")
}

func decodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	ts, err := parseTimestamp(f.Timestamp)
	if err != nil {
		return nil, err
	}

	s := domain.NewSnapshot(f.Network, ts)
	s.CaptureID = f.CaptureID
	for key, sf := range f.Subnets {
		netuid, err := parseKey(key)
		if err != nil {
			return nil, fmt.Errorf("subnet key %q: %w", key, err)
		}
		if _, dup := s.Subnets[netuid]; dup {
			return nil, fmt.Errorf("subnet key %q: duplicate netuid %d", key, netuid)
		}
		rec := &domain.SubnetRecord{
			UIDHotkeys: make(map[int]string, len(sf.UIDHotkeyMap)),
			NNeurons:   sf.NNeurons,
			Block:      sf.Block,
		}
		for uidKey, hk := range sf.UIDHotkeyMap {
			uid, err := parseKey(uidKey)
			if err != nil {
				return nil, fmt.Errorf("subnet %d uid key %q: %w", netuid, uidKey, err)
			}
			if _, dup := rec.UIDHotkeys[uid]; dup {
				return nil, fmt.Errorf("subnet %d uid key %q: duplicate uid %d", netuid, uidKey, uid)
			}
			rec.UIDHotkeys[uid] = hk
		}
		s.Subnets[netuid] = rec
	}
	return s, nil
}

// parseKey parses a stringified non-negative integer map key.
func parseKey(key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

func parseTimestamp(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", v)
}
