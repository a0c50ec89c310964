package domain

import (
	"encoding/binary"
	"sort"
	"time"

	"github.com/spaolacci/murmur3"
)

// Snapshot is a point-in-time capture of the ownership tables of every
// subnet of a network. Snapshots are immutable once persisted.
type Snapshot struct {
	// ID is the store handle the snapshot was loaded from or persisted as.
	// It is empty for snapshots that only exist in memory.
	ID string

	// CaptureID identifies the capture run that produced the snapshot.
	CaptureID string

	Timestamp time.Time
	Network   string
	Subnets   map[int]*SubnetRecord
}

// NewSnapshot creates an empty snapshot for network taken at ts.
func NewSnapshot(network string, ts time.Time) *Snapshot {
	return &Snapshot{
		Timestamp: ts,
		Network:   network,
		Subnets:   make(map[int]*SubnetRecord),
	}
}

// Subnet returns the record for netuid, or nil if the subnet was not captured.
func (s *Snapshot) Subnet(netuid int) *SubnetRecord {
	if s == nil || s.Subnets == nil {
		return nil
	}
	return s.Subnets[netuid]
}

// Netuids returns the captured subnet ids in ascending order.
func (s *Snapshot) Netuids() []int {
	ids := make([]int, 0, len(s.Subnets))
	for id := range s.Subnets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TotalUIDs returns the number of UID slots across all captured subnets.
func (s *Snapshot) TotalUIDs() int {
	n := 0
	for _, rec := range s.Subnets {
		n += len(rec.UIDHotkeys)
	}
	return n
}

// SubnetRecord is the ownership table of one subnet at capture time.
type SubnetRecord struct {
	// UIDHotkeys maps each UID slot to the hotkey occupying it.
	UIDHotkeys map[int]string
	NNeurons   int
	Block      int64
}

// Hotkey returns the occupant of uid. An empty hotkey counts as no owner.
func (r *SubnetRecord) Hotkey(uid int) (string, bool) {
	if r == nil {
		return "", false
	}
	hk, ok := r.UIDHotkeys[uid]
	if !ok || hk == "" {
		return "", false
	}
	return hk, true
}

// Len returns the size of the UID table.
func (r *SubnetRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.UIDHotkeys)
}

// UIDs returns the UIDs of the table in ascending order.
func (r *SubnetRecord) UIDs() []int {
	if r == nil {
		return nil
	}
	uids := make([]int, 0, len(r.UIDHotkeys))
	for uid := range r.UIDHotkeys {
		uids = append(uids, uid)
	}
	sort.Ints(uids)
	return uids
}

// Fingerprint is a 128-bit digest of an ownership table.
type Fingerprint [2]uint64

// Fingerprint hashes the UID-ordered (uid, hotkey) pairs with MurmurHash3.
// Each hotkey is length-prefixed, so no hotkey content can mimic a pair
// boundary. Block and NNeurons do not contribute.
func (r *SubnetRecord) Fingerprint() Fingerprint {
	h := murmur3.New128()
	var buf [binary.MaxVarintLen64]byte
	for _, uid := range r.UIDs() {
		hk := r.UIDHotkeys[uid]
		h.Write(buf[:binary.PutUvarint(buf[:], uint64(uid))])
		h.Write(buf[:binary.PutUvarint(buf[:], uint64(len(hk)))])
		h.Write([]byte(hk))
	}
	h1, h2 := h.Sum128()
	return Fingerprint{h1, h2}
}
