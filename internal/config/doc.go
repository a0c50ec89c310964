// Package config defines the subtrack configuration.
//
// Default returns a fully populated Config; sources loaded through
// confloader override it field by field, and Verify rejects values the
// commands cannot work with. Keys:
//
//	network, data_dir
//	chain.{endpoint, api_key, timeout, max_retries, ca_file, rate_limit}
//	analysis.{min_snapshots, sort_by}
//	snapshot.keep
//	cache.{enabled, dir}
//	log.{level, format}
//	metrics.file
package config
