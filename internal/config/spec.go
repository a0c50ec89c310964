// Package config defines the subtrack configuration structure.
package config

import "time"

// Config is the root configuration for subtrack.
type Config struct {
	Network  string          `koanf:"network" yaml:"network"`
	DataDir  string          `koanf:"data_dir" yaml:"data_dir"`
	Chain    ChainSection    `koanf:"chain" yaml:"chain"`
	Analysis AnalysisSection `koanf:"analysis" yaml:"analysis"`
	Snapshot SnapshotSection `koanf:"snapshot" yaml:"snapshot"`
	Cache    CacheSection    `koanf:"cache" yaml:"cache"`
	Log      LogSection      `koanf:"log" yaml:"log"`
	Metrics  MetricsSection  `koanf:"metrics" yaml:"metrics"`
}

// ChainSection configures the subtensor HTTP API client.
type ChainSection struct {
	Endpoint   string        `koanf:"endpoint" yaml:"endpoint"`
	APIKey     string        `koanf:"api_key" yaml:"api_key"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout"`
	MaxRetries int           `koanf:"max_retries" yaml:"max_retries"`

	// CAFile is a PEM bundle, or a directory of them, trusted in addition
	// to the system roots for HTTPS endpoints.
	CAFile string `koanf:"ca_file" yaml:"ca_file"`

	// RateLimit is the request budget in requests per second.
	// Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`
}

// AnalysisSection configures the aggregator and ranking.
type AnalysisSection struct {
	MinSnapshots int    `koanf:"min_snapshots" yaml:"min_snapshots"`
	SortBy       string `koanf:"sort_by" yaml:"sort_by"`
}

// SnapshotSection configures snapshot retention.
type SnapshotSection struct {
	// Keep is the number of newest snapshots retained after each capture.
	// Zero keeps everything.
	Keep int `koanf:"keep" yaml:"keep"`
}

// CacheSection configures the persistent delta cache.
type CacheSection struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// Dir defaults to <data_dir>/.deltacache when empty.
	Dir string `koanf:"dir" yaml:"dir"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// MetricsSection configures metrics export.
type MetricsSection struct {
	// File is the path of a Prometheus textfile written when a command
	// finishes. Empty disables the export.
	File string `koanf:"file" yaml:"file"`
}

// EnvKeys lists every configuration key so environment variables such as
// SUBTRACK_CHAIN_API_KEY resolve to chain.api_key.
func EnvKeys() []string {
	return []string{
		"network",
		"data_dir",
		"chain.endpoint",
		"chain.api_key",
		"chain.timeout",
		"chain.max_retries",
		"chain.ca_file",
		"chain.rate_limit",
		"analysis.min_snapshots",
		"analysis.sort_by",
		"snapshot.keep",
		"cache.enabled",
		"cache.dir",
		"log.level",
		"log.format",
		"metrics.file",
	}
}
