// Package buildinfo exposes build-time information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/subtrack-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Commit and Go version fall back to what the Go toolchain embedded in the
// binary when they were not injected.
package buildinfo
