// Package progress defines the ordered event stream emitted by the crawl.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the kind of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageComboStart  Stage = "COMBO_START"
	StageFetchStart  Stage = "FETCH_START"
	StageFetch       Stage = "FETCH"
	StageFetchError  Stage = "FETCH_ERROR"
	StagePagination  Stage = "PAGINATION"
	StageExtract     Stage = "EXTRACT"
	StageDuplicate   Stage = "DUPLICATE"
	StageArchive     Stage = "ARCHIVE"
	StageUpload      Stage = "UPLOAD"
	StageUploadError Stage = "UPLOAD_ERROR"
	StageDone        Stage = "CRAWL_DONE"
	StageFailed      Stage = "CRAWL_FAILED"
)

// Terminal messages consumers watch for to detect run termination.
const (
	DoneMessage   = "Crawling completed!"
	FailedMessage = "Error in crawling"
)

// Event captures a single milestone in crawl progress. Events are consumed in
// emission order by every sink.
type Event struct {
	// RunID identifies the crawl run; the Hub stamps it when absent.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// Combination optionally scopes the event to a "category/year" label.
	Combination string
	// Message is the human-readable line shown by the UI log.
	Message string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	switch e.Stage {
	case StageComboStart, StageFetchStart, StageFetch, StageFetchError, StagePagination,
		StageExtract, StageDuplicate, StageArchive, StageUpload,
		StageUploadError, StageDone, StageFailed:
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

// Terminal reports whether the event marks the end of a run.
func (e Event) Terminal() bool {
	return e.Stage == StageDone || e.Stage == StageFailed
}

// Line returns the textual form appended to the UI log.
func (e Event) Line() string {
	return e.Message
}
