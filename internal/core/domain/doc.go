// Package domain defines the core domain models for subtrack.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Snapshot / SubnetRecord: point-in-time UID to hotkey ownership tables
//   - Delta: per-subnet ownership changes between two snapshots
//   - AggregateStats: per-subnet competition metrics across many deltas
//   - SortKey: the closed set of ranking metrics
//   - RegistrationCost: per-subnet registration economics
//   - Errors: domain-specific error definitions
package domain
