// Package pacing inserts the fixed courtesy delays between portal requests.
// Delays live behind an interface so tests inject a zero-delay policy.
package pacing

import (
	"context"
	"fmt"
	"time"
)

// Pacer inserts deliberate waits between outbound requests.
type Pacer interface {
	// PageTurn waits before fetching the next result page of a combination.
	PageTurn(ctx context.Context) error
	// NextCombination waits before starting the next combination.
	NextCombination(ctx context.Context) error
}

// Fixed waits the full configured delay on every call. The delay is
// unconditional: it starts when the wait is requested, no matter how long
// the preceding fetch or upload took.
type Fixed struct {
	pageDelay  time.Duration
	comboDelay time.Duration
}

// NewFixed builds a Fixed pacer. Non-positive delays disable the
// corresponding wait.
func NewFixed(pageDelay, combinationDelay time.Duration) *Fixed {
	return &Fixed{
		pageDelay:  pageDelay,
		comboDelay: combinationDelay,
	}
}

// PageTurn blocks for the page delay or until ctx ends.
func (p *Fixed) PageTurn(ctx context.Context) error {
	if err := wait(ctx, p.pageDelay); err != nil {
		return fmt.Errorf("page pacing wait: %w", err)
	}
	return nil
}

// NextCombination blocks for the combination delay or until ctx ends.
func (p *Fixed) NextCombination(ctx context.Context) error {
	if err := wait(ctx, p.comboDelay); err != nil {
		return fmt.Errorf("combination pacing wait: %w", err)
	}
	return nil
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Nop never waits; used in tests.
type Nop struct{}

// PageTurn returns immediately.
func (Nop) PageTurn(context.Context) error { return nil }

// NextCombination returns immediately.
func (Nop) NextCombination(context.Context) error { return nil }
