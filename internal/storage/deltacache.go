package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

const deltaKeyPrefix = "delta/v1/"

// SnapshotKey identifies one side of a cached pair. The file size is part
// of the key so a snapshot rewritten under the same name misses the cache.
type SnapshotKey struct {
	ID   string
	Size int64
}

func (k SnapshotKey) String() string {
	return k.ID + ":" + strconv.FormatInt(k.Size, 10)
}

// DeltaCache memoises the delta mapping of a snapshot pair so repeated
// analyses only diff newly captured pairs.
type DeltaCache struct {
	kv KVEngine
}

// NewDeltaCache creates a cache on top of kv. The cache does not own kv.
func NewDeltaCache(kv KVEngine) *DeltaCache {
	return &DeltaCache{kv: kv}
}

func deltaKey(older, newer SnapshotKey) []byte {
	return []byte(deltaKeyPrefix + older.String() + "/" + newer.String())
}

// Get returns the cached deltas for the pair. The boolean is false on a
// miss. An undecodable entry is dropped and reported as a miss.
func (c *DeltaCache) Get(ctx context.Context, older, newer SnapshotKey) (map[int]*domain.Delta, bool, error) {
	key := deltaKey(older, newer)
	raw, err := c.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("delta cache get: %w", err)
	}

	var list []*domain.Delta
	if err := json.Unmarshal(raw, &list); err != nil {
		if derr := c.kv.Delete(ctx, key); derr != nil {
			return nil, false, fmt.Errorf("delta cache drop corrupt entry: %w", derr)
		}
		return nil, false, nil
	}

	deltas := make(map[int]*domain.Delta, len(list))
	for _, d := range list {
		if d != nil {
			deltas[d.Netuid] = d
		}
	}
	return deltas, true, nil
}

// Put stores the deltas for the pair. An empty mapping is cached too: it
// records that nothing changed.
func (c *DeltaCache) Put(ctx context.Context, older, newer SnapshotKey, deltas map[int]*domain.Delta) error {
	list := make([]*domain.Delta, 0, len(deltas))
	for _, d := range deltas {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Netuid < list[j].Netuid })

	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("delta cache encode: %w", err)
	}
	if err := c.kv.Set(ctx, deltaKey(older, newer), raw); err != nil {
		return fmt.Errorf("delta cache put: %w", err)
	}
	return nil
}

// Invalidate removes every entry that references the snapshot id on either
// side. Returns the number of entries removed.
func (c *DeltaCache) Invalidate(ctx context.Context, id string) (int, error) {
	var stale [][]byte
	err := c.kv.Scan(ctx, []byte(deltaKeyPrefix), func(key, _ []byte) bool {
		if pairReferences(key, id) {
			stale = append(stale, key)
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("delta cache scan: %w", err)
	}

	for _, key := range stale {
		if err := c.kv.Delete(ctx, key); err != nil {
			return 0, fmt.Errorf("delta cache delete: %w", err)
		}
	}
	return len(stale), nil
}

func pairReferences(key []byte, id string) bool {
	rest := bytes.TrimPrefix(key, []byte(deltaKeyPrefix))
	older, newer, ok := strings.Cut(string(rest), "/")
	if !ok {
		return false
	}
	return sideID(older) == id || sideID(newer) == id
}

func sideID(side string) string {
	if i := strings.LastIndexByte(side, ':'); i >= 0 {
		return side[:i]
	}
	return side
}
