package sinks

import (
	"context"
	"sync"

	"github.com/casevault/courtcrawler/internal/progress"
)

// StoreSink keeps the ordered, append-only log of progress lines in memory.
// The CLI binary does not attach it; an embedding process that renders the
// log attaches its own StoreSink to the hub and polls Lines. Ordering matches
// emission order exactly.
type StoreSink struct {
	mu       sync.Mutex
	lines    []string
	terminal bool
}

// NewStoreSink constructs an empty StoreSink.
func NewStoreSink() *StoreSink {
	return &StoreSink{}
}

// Consume appends the event's textual line to the log.
func (s *StoreSink) Consume(_ context.Context, evt progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, evt.Line())
	if evt.Terminal() {
		s.terminal = true
	}
	return nil
}

// Lines returns a snapshot of the log in emission order.
func (s *StoreSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Finished reports whether a terminal event has been recorded.
func (s *StoreSink) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}
