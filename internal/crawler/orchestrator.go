package crawler

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/policy/pacing"
	"github.com/casevault/courtcrawler/internal/progress"
)

// PageCounter resolves how many result pages a first response spans.
type PageCounter interface {
	Resolve(doc *goquery.Document) int
}

// Extractor pulls document descriptors out of a fetched result page.
type Extractor interface {
	Extract(ctx context.Context, combo Combination, pageNo int, page PageResult) ([]PdfDescriptor, error)
}

// Orchestrator drives the crawl: one combination at a time, paginating
// through its result pages and handing discovered documents to the
// dispatcher. Per-combination failures are logged and skipped; only the
// surrounding wiring can abort a run.
type Orchestrator struct {
	fetcher    PageFetcher
	pages      PageCounter
	extractor  Extractor
	dispatcher Dispatcher
	pacer      pacing.Pacer
	emitter    progress.Emitter
	logger     *zap.Logger
}

// NewOrchestrator wires the crawl loop. pacer and emitter may be nil.
func NewOrchestrator(
	fetcher PageFetcher,
	pages PageCounter,
	extractor Extractor,
	dispatcher Dispatcher,
	pacer pacing.Pacer,
	emitter progress.Emitter,
	logger *zap.Logger,
) *Orchestrator {
	if pacer == nil {
		pacer = pacing.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:    fetcher,
		pages:      pages,
		extractor:  extractor,
		dispatcher: dispatcher,
		pacer:      pacer,
		emitter:    emitter,
		logger:     logger,
	}
}

// Run crawls every combination in order, drains in-flight document work, and
// emits the terminal progress event. Cancellation stops new fetches but lets
// already-dispatched documents finish.
func (o *Orchestrator) Run(ctx context.Context, combos []Combination) error {
	for idx, combo := range combos {
		if idx > 0 {
			if err := o.pacer.NextCombination(ctx); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
		o.crawlCombination(ctx, combo, idx+1, len(combos))
	}

	o.dispatcher.Drain()

	if ctx.Err() != nil {
		o.logger.Info("crawl canceled, dispatched work drained")
	}
	o.emit(progress.StageDone, Combination{}, progress.DoneMessage)
	return nil
}

func (o *Orchestrator) crawlCombination(ctx context.Context, combo Combination, idx, total int) {
	o.emit(progress.StageComboStart, combo,
		fmt.Sprintf("Processing category: %s, year: %d (%d/%d)", combo.CategoryName, combo.Year, idx, total))

	seen := NewSeenURLs()

	first, err := o.fetcher.FetchPage(ctx, combo, 1)
	if err != nil {
		o.logger.Warn("skipping combination, first page unavailable",
			zap.String("combination", combo.Label()),
			zap.Error(err),
		)
		return
	}

	if NoRecords(first.RawText) {
		o.emit(progress.StageExtract, combo,
			fmt.Sprintf("No records found for category: %s, year: %d", combo.CategoryName, combo.Year))
		return
	}

	totalPages := o.pages.Resolve(first.Doc)
	o.emit(progress.StagePagination, combo,
		fmt.Sprintf("Found %d pages for category: %s, year: %d", totalPages, combo.CategoryName, combo.Year))

	o.handlePage(ctx, combo, seen, 1, first)

	for pageNo := 2; pageNo <= totalPages; pageNo++ {
		if err := o.pacer.PageTurn(ctx); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		o.emit(progress.StageFetchStart, combo, fmt.Sprintf("Fetching page %d of %d", pageNo, totalPages))

		page, err := o.fetcher.FetchPage(ctx, combo, pageNo)
		if err != nil {
			// Fetcher already emitted the failure; move to the next page.
			continue
		}
		o.handlePage(ctx, combo, seen, pageNo, page)
	}
}

func (o *Orchestrator) handlePage(ctx context.Context, combo Combination, seen *SeenURLs, pageNo int, page PageResult) {
	descs, err := o.extractor.Extract(ctx, combo, pageNo, page)
	if err != nil {
		o.logger.Warn("page extraction failed",
			zap.String("combination", combo.Label()),
			zap.Int("page", pageNo),
			zap.Error(err),
		)
		return
	}

	for _, desc := range descs {
		if !seen.MarkIfNew(desc.PdfURL) {
			o.emit(progress.StageDuplicate, combo,
				fmt.Sprintf("Skipping duplicate PDF: %s", desc.PdfURL))
			continue
		}
		if !o.dispatcher.Dispatch(ctx, combo, desc) {
			return
		}
	}
}

func (o *Orchestrator) emit(stage progress.Stage, combo Combination, message string) {
	if o.emitter == nil {
		return
	}
	evt := progress.Event{
		Stage:   stage,
		Message: message,
	}
	if combo != (Combination{}) {
		evt.Combination = combo.Label()
	}
	o.emitter.Emit(evt)
}
