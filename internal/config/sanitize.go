package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging or printing configuration without exposing secrets.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg

	if sanitized.Chain.APIKey != "" {
		sanitized.Chain.APIKey = maskSecret(sanitized.Chain.APIKey)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
