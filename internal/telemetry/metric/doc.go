// Package metric provides Prometheus metrics for subtrack.
//
// subtrack is a one-shot CLI, so nothing is scraped. Instead each command
// records into a private Registry and, when configured, the registry is
// written to a node_exporter textfile on exit:
//
//   - prometheus.go: Registry construction and textfile output
//
// Metrics include:
//
//   - Capture counters (runs, captured subnets, per-subnet failures)
//   - Snapshot size
//   - Chain API request counts by endpoint and status
//   - Analysis pair and delta cache hit/miss counters
package metric
