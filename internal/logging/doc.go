// Package logging assembles structured slog loggers and formatting helpers used
// across cinematch.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so build and lookup code can tag log lines
// with component names and a per-invocation session ID. Component loggers can
// run at their own level through the configured overrides. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
