// Package domain defines the core domain models for subtrack.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes have the form ST-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "ST-SNAP-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Chain Errors (CHAIN)
// ============================================================================

var (
	// ErrConnectivity indicates the chain endpoint could not be reached while
	// enumerating subnets. It aborts the whole capture.
	ErrConnectivity = NewDomainError("ST-CHAIN-5030", "chain unreachable")

	// ErrSubnetFetch indicates a single subnet's membership could not be
	// fetched. Captures log and skip it.
	ErrSubnetFetch = NewDomainError("ST-CHAIN-5020", "subnet fetch failed")

	// ErrInvalidMetagraph indicates a metagraph whose UID and hotkey
	// sequences cannot be zipped into an ownership table.
	ErrInvalidMetagraph = NewDomainError("ST-CHAIN-4220", "invalid metagraph")
)

// ============================================================================
// Snapshot Errors (SNAP)
// ============================================================================

var (
	// ErrSnapshotNotFound indicates the snapshot handle does not resolve.
	ErrSnapshotNotFound = NewDomainError("ST-SNAP-4040", "snapshot not found")

	// ErrSnapshotCorrupt indicates the stored snapshot fails to parse.
	ErrSnapshotCorrupt = NewDomainError("ST-SNAP-4220", "snapshot corrupt")

	// ErrSnapshotExists indicates a snapshot already exists for the timestamp.
	ErrSnapshotExists = NewDomainError("ST-SNAP-4090", "snapshot already exists")
)

// ============================================================================
// Analysis Errors (ANLZ)
// ============================================================================

var (
	// ErrInsufficientData indicates fewer snapshots than required for analysis.
	ErrInsufficientData = NewDomainError("ST-ANLZ-4120", "insufficient snapshots")

	// ErrInvalidSortKey indicates an unknown ranking metric.
	ErrInvalidSortKey = NewDomainError("ST-ANLZ-4000", "invalid sort key")
)
