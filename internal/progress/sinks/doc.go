// Package sinks bundles the progress.Sink implementations shipped with the
// crawler: structured logs, an in-memory ordered log for display, and
// Prometheus counters.
package sinks
