package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if strings.TrimSpace(cfg.Network) == "" {
		return errors.New("network is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if err := verifyChain(&cfg.Chain); err != nil {
		return err
	}
	if err := verifyAnalysis(&cfg.Analysis); err != nil {
		return err
	}
	if cfg.Snapshot.Keep < 0 {
		return errors.New("snapshot.keep must not be negative")
	}
	return verifyLog(&cfg.Log)
}

func verifyChain(cfg *ChainSection) error {
	if cfg.Endpoint == "" {
		return errors.New("chain.endpoint is required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return fmt.Errorf("chain.endpoint is invalid: %w", err)
	}
	if cfg.Timeout <= 0 {
		return errors.New("chain.timeout must be positive")
	}
	if cfg.MaxRetries < 0 {
		return errors.New("chain.max_retries must not be negative")
	}
	if cfg.RateLimit < 0 {
		return errors.New("chain.rate_limit must not be negative")
	}
	return nil
}

func verifyAnalysis(cfg *AnalysisSection) error {
	if cfg.MinSnapshots < DefaultMinSnapshots {
		return fmt.Errorf("analysis.min_snapshots must be at least %d", DefaultMinSnapshots)
	}
	if _, err := domain.ParseSortKey(cfg.SortBy); err != nil {
		return fmt.Errorf("analysis.sort_by: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "text", "console", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", cfg.Format)
	}
	return nil
}
