package config

import (
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultNetwork = "finney"
	DefaultDataDir = "snapshots"

	DefaultChainEndpoint   = "http://127.0.0.1:8080"
	DefaultChainTimeout    = 30 * time.Second
	DefaultChainMaxRetries = 3
	DefaultChainRateLimit  = 10

	DefaultMinSnapshots = 2
	DefaultSortBy       = "replacements"

	DefaultCacheDirName = ".deltacache"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Network: DefaultNetwork,
		DataDir: DefaultDataDir,
		Chain: ChainSection{
			Endpoint:   DefaultChainEndpoint,
			Timeout:    DefaultChainTimeout,
			MaxRetries: DefaultChainMaxRetries,
			RateLimit:  DefaultChainRateLimit,
		},
		Analysis: AnalysisSection{
			MinSnapshots: DefaultMinSnapshots,
			SortBy:       DefaultSortBy,
		},
		Cache: CacheSection{
			Enabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// CacheDir returns the delta cache directory, defaulting to a hidden
// directory inside the snapshot directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(c.DataDir, DefaultCacheDirName)
}
