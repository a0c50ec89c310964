// Package command defines the subtrack command-line interface.
//
// Commands are built with urfave/cli/v2. The root Before hook loads the
// configuration (defaults, YAML file, SUBTRACK_* environment, global flags),
// creates the logger and stores an Env in the app metadata; the After hook
// runs the cleanup registered on it (closing the delta cache, writing the
// metrics textfile).
//
//   - snapshot.go: capture, list and prune snapshots
//   - analyze.go: competition ranking over all stored snapshots
//   - compare.go: deltas between two snapshots
//   - costs.go: registration costs per subnet
//   - config.go, version.go: introspection
//   - env.go: per-invocation dependencies (store, chain client, delta cache)
package command
