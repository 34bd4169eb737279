package crawler

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// recordsPerPage is fixed by the portal protocol.
const recordsPerPage = 10

var totalRecordsExpr = regexp.MustCompile(`total (\d+) records`)

// PaginationResolver determines how many result pages a combination has.
type PaginationResolver struct {
	logger *zap.Logger
}

// NewPaginationResolver constructs a resolver.
func NewPaginationResolver(logger *zap.Logger) *PaginationResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaginationResolver{logger: logger}
}

// Resolve returns the total page count for the fetched page 1. The banner
// record count is authoritative; a hidden page-count field is the fallback.
// When neither is present the resolver assumes a single page so traversal
// never fails on missing pagination metadata.
func (r *PaginationResolver) Resolve(doc *goquery.Document) int {
	if doc == nil {
		r.logger.Warn("no document to resolve pagination from, assuming 1 page")
		return 1
	}

	banner := doc.Find("div.row.justify-content-center")
	if banner.Length() > 0 {
		if match := totalRecordsExpr.FindStringSubmatch(banner.Text()); match != nil {
			total, err := strconv.Atoi(match[1])
			if err == nil && total >= 0 {
				pages := (total + recordsPerPage - 1) / recordsPerPage
				if pages < 1 {
					pages = 1
				}
				return pages
			}
		}
	}

	if value, ok := doc.Find("input#total_no_page").Attr("value"); ok {
		if pages, err := strconv.Atoi(value); err == nil && pages >= 1 {
			return pages
		}
	}

	r.logger.Warn("no pagination info found, assuming 1 page")
	return 1
}
