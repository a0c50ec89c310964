// Package service provides the domain services of subtrack.
//
// Services contain the business logic and define interfaces for their
// dependencies (chain access, snapshot storage, delta cache), so each can
// be tested against in-memory fakes.
//
// This package contains:
//
//   - Capturer: enumerates subnets, captures ownership tables, persists snapshots
//   - Differ: classifies per-UID ownership changes between two snapshots
//   - Accumulator and Analyzer: fold consecutive deltas into per-subnet statistics
//   - Rank: orders aggregated statistics by a chosen metric
//   - CostService: registration cost report per subnet
//
// The core is single-threaded. Every blocking call takes a context.
package service
