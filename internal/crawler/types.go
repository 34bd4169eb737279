// Package crawler implements the crawl orchestration core: the portal
// client, pagination resolution, result extraction, deduplication, document
// download/upload, and the per-combination traversal loop.
package crawler

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Combination is one (category, year) crawl unit. Immutable once loaded.
type Combination struct {
	CategoryID   string
	CategoryName string
	Year         int
}

// Label returns the "category/year" form used in progress events and logs.
func (c Combination) Label() string {
	return fmt.Sprintf("%s/%d", c.CategoryName, c.Year)
}

// PageResult holds one fetched result page. It is consumed immediately by the
// pagination resolver and the extractor and never persisted.
type PageResult struct {
	Doc        *goquery.Document
	RawText    string
	StatusCode int
}

// PdfDescriptor identifies one retrievable judgement document. Uniqueness key
// is PdfURL.
type PdfDescriptor struct {
	CaseNo        string
	Title         string
	JudgementDate string
	PdfURL        string
}

// PageFetcher issues one portal request per (combination, page number).
type PageFetcher interface {
	FetchPage(ctx context.Context, combo Combination, pageNo int) (PageResult, error)
}

// PDFGetter retrieves raw document bytes.
type PDFGetter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Processor downloads a descriptor's document and forwards it to the blob
// sink. A nil error means the upload was confirmed.
type Processor interface {
	Process(ctx context.Context, combo Combination, desc PdfDescriptor) error
}

// Dispatcher hands accepted descriptors to the download/upload pipeline.
type Dispatcher interface {
	// Dispatch enqueues work; it returns false when ctx ended before the
	// descriptor could be accepted.
	Dispatch(ctx context.Context, combo Combination, desc PdfDescriptor) bool
	// Drain blocks until all dispatched work has been processed.
	Drain()
}
