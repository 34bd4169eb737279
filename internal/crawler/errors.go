package crawler

import (
	"errors"
	"fmt"
)

// Kind classifies crawl errors. Every kind except KindFatalInit is
// recoverable: the surrounding loop logs it and moves on.
type Kind int

// Error kinds, mirroring the recovery policy applied by the orchestrator.
const (
	KindUnknown Kind = iota
	// KindFetch covers network failures, timeouts, and non-2xx statuses on a
	// page request; the page is skipped.
	KindFetch
	// KindParse marks a malformed page (expected structure missing); the raw
	// body is archived and the page skipped.
	KindParse
	// KindRow marks a malformed individual result row; only that row is
	// skipped.
	KindRow
	// KindDownload covers failures retrieving document bytes; the document is
	// dropped.
	KindDownload
	// KindSink covers blob sink upload failures; the document is dropped.
	KindSink
	// KindFatalInit marks startup failures (blob sink unavailable,
	// combination list unloadable) that abort the whole run.
	KindFatalInit
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindRow:
		return "row"
	case KindDownload:
		return "download"
	case KindSink:
		return "sink"
	case KindFatalInit:
		return "fatal_init"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with its Kind and the operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// E constructs an *Error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Recoverable reports whether the error should be logged and skipped rather
// than abort the run.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	return KindOf(err) != KindFatalInit
}
