// Package storage provides the embedded key-value layer of subtrack.
//
//   - kv.go: KVEngine interface and configuration
//   - badger.go: Badger v3 implementation
//   - deltacache.go: per-pair delta cache used by analyze
//
// Snapshot files themselves live in the snapshot subpackage. The cache is
// derived data and can be deleted at any time.
package storage
