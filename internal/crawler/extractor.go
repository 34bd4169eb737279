package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/archive"
	"github.com/casevault/courtcrawler/internal/progress"
)

// minRowColumns is the structural marker for a data row in the results table.
const minRowColumns = 5

var noRecordsPhrases = []string{"no records found", "no matching records"}

// NoRecords reports whether the raw page text carries the portal's
// no-results phrase. On page 1 this terminates the combination.
func NoRecords(rawText string) bool {
	lower := strings.ToLower(rawText)
	for _, phrase := range noRecordsPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ResultExtractor parses fetched result pages into PDF descriptors.
type ResultExtractor struct {
	pdfBase *url.URL
	archive archive.Writer
	emitter progress.Emitter
	logger  *zap.Logger
}

// NewResultExtractor constructs an extractor. pdfBaseURL is the absolute base
// that relative judgement links resolve against.
func NewResultExtractor(pdfBaseURL string, arch archive.Writer, emitter progress.Emitter, logger *zap.Logger) (*ResultExtractor, error) {
	base, err := url.Parse(pdfBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pdf base url: %w", err)
	}
	if arch == nil {
		arch = archive.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultExtractor{
		pdfBase: base,
		archive: arch,
		emitter: emitter,
		logger:  logger,
	}, nil
}

// Extract parses one page into descriptors. A no-records page yields an empty
// sequence with no error. A page missing the results table is malformed: the
// raw body is archived and a parse-kind error returned; the caller treats it
// as a skipped page. Malformed rows are skipped individually.
func (e *ResultExtractor) Extract(ctx context.Context, combo Combination, pageNo int, page PageResult) ([]PdfDescriptor, error) {
	if NoRecords(page.RawText) {
		e.emit(progress.StageExtract, combo,
			fmt.Sprintf("No records found for category %s, year %d, page %d", combo.CategoryName, combo.Year, pageNo))
		return nil, nil
	}

	if page.Doc == nil {
		return nil, e.malformed(ctx, combo, pageNo, page, "page body could not be parsed")
	}

	table := e.findResultsTable(page.Doc)
	if table == nil {
		return nil, e.malformed(ctx, combo, pageNo, page, "no results table found")
	}

	var (
		descriptors []PdfDescriptor
		caseInfo    []string
	)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// Header row.
			return
		}
		cols := row.Find("td")
		if cols.Length() < minRowColumns {
			e.logger.Warn("insufficient columns in result row",
				zap.String("combination", combo.Label()),
				zap.Int("page", pageNo),
				zap.Int("columns", cols.Length()),
			)
			e.emit(progress.StageExtract, combo,
				fmt.Sprintf("Insufficient columns in row for category %s, year %d, page %d", combo.CategoryName, combo.Year, pageNo))
			return
		}

		desc, ok := e.parseRow(combo, pageNo, cols)
		if !ok {
			return
		}
		descriptors = append(descriptors, desc)
		caseInfo = append(caseInfo, fmt.Sprintf("%s (%s, %s)", desc.CaseNo, desc.Title, desc.JudgementDate))
	})

	e.emit(progress.StageExtract, combo,
		fmt.Sprintf("Found %d PDFs on page %d: %s", len(descriptors), pageNo, strings.Join(caseInfo, ", ")))
	return descriptors, nil
}

func (e *ResultExtractor) parseRow(combo Combination, pageNo int, cols *goquery.Selection) (PdfDescriptor, bool) {
	href, ok := cols.Eq(4).Find("a").Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		e.logger.Warn("result row lacks a document link",
			zap.String("combination", combo.Label()),
			zap.Int("page", pageNo),
		)
		return PdfDescriptor{}, false
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		e.logger.Warn("result row has an unparsable document link",
			zap.String("combination", combo.Label()),
			zap.Int("page", pageNo),
			zap.Error(err),
		)
		return PdfDescriptor{}, false
	}

	return PdfDescriptor{
		CaseNo:        strings.TrimSpace(cols.Eq(1).Text()),
		Title:         strings.TrimSpace(cols.Eq(2).Text()),
		JudgementDate: strings.TrimSpace(cols.Eq(3).Text()),
		PdfURL:        e.pdfBase.ResolveReference(ref).String(),
	}, true
}

// findResultsTable locates the table whose data rows carry at least
// minRowColumns cells. The portal's markup has shifted classes over time, so
// detection is structural rather than class-based.
func (e *ResultExtractor) findResultsTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		found := false
		candidate.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			if row.Find("td").Length() >= minRowColumns {
				found = true
				return false
			}
			return true
		})
		if found {
			table = candidate
			return false
		}
		return true
	})
	return table
}

func (e *ResultExtractor) malformed(ctx context.Context, combo Combination, pageNo int, page PageResult, reason string) error {
	e.logger.Warn("malformed result page",
		zap.String("combination", combo.Label()),
		zap.Int("page", pageNo),
		zap.String("reason", reason),
	)
	e.emit(progress.StageExtract, combo,
		fmt.Sprintf("No results table found for category %s, year %d, page %d", combo.CategoryName, combo.Year, pageNo))

	path, err := e.archive.SavePage(ctx, combo.CategoryName, combo.Year, pageNo, []byte(page.RawText))
	if err != nil {
		e.logger.Warn("failed to archive malformed page",
			zap.String("combination", combo.Label()),
			zap.Int("page", pageNo),
			zap.Error(err),
		)
	} else if path != "" {
		e.emit(progress.StageArchive, combo, fmt.Sprintf("Saved debug HTML: %s", path))
	}

	return E(KindParse, "extract", fmt.Errorf("%s (category %s, year %d, page %d)", reason, combo.CategoryName, combo.Year, pageNo))
}

func (e *ResultExtractor) emit(stage progress.Stage, combo Combination, message string) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(progress.Event{
		Stage:       stage,
		Combination: combo.Label(),
		Message:     message,
	})
}
