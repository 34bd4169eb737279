// Package progress provides the event primitives, non-blocking hub, and
// emitter interfaces the crawl uses to report progress. Events are delivered
// to pluggable sinks in emission order, so a consumer reading any single sink
// sees the same append-only log the original UI displayed.
package progress
