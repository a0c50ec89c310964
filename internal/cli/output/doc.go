// Package output renders subtrack command results.
//
// Every command builds a report value (RankingReport, CompareReport,
// CostReport, CaptureReport, ...) and hands it to a Formatter:
//
//   - table: human-readable tables via text/tabwriter; reports implement
//     TableRenderer to control their own layout, other values fall back to
//     reflection over struct fields
//   - json: indented encoding/json
//   - yaml: gopkg.in/yaml.v3, keyed by the same names as the JSON output
//
// ProgressBar reports capture progress on stderr.
package output
