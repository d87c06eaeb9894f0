// Package logging assembles structured slog loggers and formatting helpers used
// across Mudlark packages.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Run-level code tags lines with a run ID and row index so a
// normalisation pass over a large CSV can be followed in the logs. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
