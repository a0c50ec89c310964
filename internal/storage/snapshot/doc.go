// Package snapshot provides the on-disk snapshot store for subtrack.
//
// Every capture is persisted as one JSON file whose name embeds the capture
// timestamp in a fixed-width UTC form, so lexicographic file name order is
// chronological order:
//
//	snapshot_2026-10-17T09-30-00.000000Z.json
//
//	{
//	  "timestamp": "2026-10-17T09:30:00.000000Z",
//	  "network": "finney",
//	  "capture_id": "01J...",
//	  "subnets": {
//	    "7": {"uid_hotkey_map": {"0": "5F...", "1": "5G..."}, "n_neurons": 2, "block": 4123456}
//	  }
//	}
//
// Subnet ids and UIDs are JSON object keys and therefore strings on disk;
// they are re-parsed as integers on load. Files written by earlier tooling
// (naive ISO-8601 timestamps, no capture_id) load unchanged.
//
// Writes go to a temporary file in the same directory which is synced and
// then hard-linked into place, so readers never observe a partial snapshot
// and an existing snapshot is never overwritten.
package snapshot
