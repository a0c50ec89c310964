package storage

import (
	"context"
	"time"
)

// KVEngine defines the interface for embedded key-value storage.
//
// The delta cache is the only consumer today. Implementations must be safe
// for concurrent use and durable across process restarts unless configured
// in-memory.
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair. Entries expire after the configured TTL
	// when one is set.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC reclaims value log space. Returns the number of rewrite cycles run.
	GC(ctx context.Context) (int, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close flushes and releases the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// TotalSize is the total disk usage in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size.
	LSMSize uint64

	// ValueLogSize is the value log size.
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64
}

// KVConfig configures an embedded KV engine.
type KVConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	Badger BadgerConfig
}

// BadgerConfig contains Badger-specific tuning parameters. The cache holds
// a few kilobytes per snapshot pair, so the defaults are far smaller than
// badger's own.
type BadgerConfig struct {
	// GCThreshold is the discard ratio passed to RunValueLogGC.
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 8MB
	CacheSize int64

	// MemTableSize is the memtable size in bytes.
	// Default: 8MB
	MemTableSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 16MB
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write.
	// Default: false
	SyncWrites bool

	// TTL expires entries written by Set. Zero keeps them forever.
	// Default: 0
	TTL time.Duration
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCThreshold:      0.5,
		CacheSize:        8 << 20,
		MemTableSize:     8 << 20,
		ValueLogFileSize: 16 << 20,
	}
}
