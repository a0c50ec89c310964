// Package logger is subtrack's structured logging on top of log/slog.
//
// Logs go to stderr so reports on stdout stay machine-readable. Credential
// attributes and URL user info are masked before they reach the handler,
// and every line of one capture run carries the same ULID capture_id.
package logger
