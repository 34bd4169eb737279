package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/clock"
	"github.com/casevault/courtcrawler/internal/policy/ratelimit"
	"github.com/casevault/courtcrawler/internal/progress"
)

// Form field names the portal's search endpoint expects.
const (
	formFieldCategory = "cat"
	formFieldYear     = "judgementyr"
	formFieldPage     = "Selected_page"
	formFieldOrder    = "orderby"
	formFieldTime     = "disp"
)

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// PortalFetcher retrieves result pages from the judgements portal and raw
// document bytes from the case-info host. It implements PageFetcher and
// PDFGetter on top of a shared Colly collector that is cloned per request.
type PortalFetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	clk           clock.Clock
	limiter       *ratelimit.Limiter
	emitter       progress.Emitter
	logger        *zap.Logger
}

// NewPortalFetcher builds a PortalFetcher. clk, limiter, and emitter may be
// nil; a nil limiter leaves the request rate uncapped.
func NewPortalFetcher(cfg FetcherConfig, clk clock.Clock, limiter *ratelimit.Limiter, emitter progress.Emitter, logger *zap.Logger) *PortalFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// colly v2.1.0's Async option sets Async=true regardless of its argument,
	// so rely on the synchronous default instead of passing Async(false).
	c := colly.NewCollector()
	c.WithTransport(newHTTPTransport())
	c.IgnoreRobotsTxt = true
	// Every result page is a POST to the same endpoint; revisit checks would
	// refuse the second combination.
	c.AllowURLRevisit = true
	c.SetRequestTimeout(cfg.Timeout)

	return &PortalFetcher{
		cfg:           cfg,
		baseCollector: c,
		clk:           clk,
		limiter:       limiter,
		emitter:       emitter,
		logger:        logger,
	}
}

// FetchPage submits the search form for one (category, year, page) and parses
// the response body into a goquery document.
func (f *PortalFetcher) FetchPage(ctx context.Context, combo Combination, pageNo int) (PageResult, error) {
	form := map[string]string{
		formFieldCategory: combo.CategoryID,
		formFieldYear:     strconv.Itoa(combo.Year),
		formFieldPage:     strconv.Itoa(pageNo),
		formFieldOrder:    "desc",
		formFieldTime:     f.clk.Now().Format("15:04:05"),
	}

	if err := f.waitLimit(ctx, f.cfg.BaseURL); err != nil {
		f.emit(progress.StageFetchError, combo,
			fmt.Sprintf("Error fetching page %d: %v", pageNo, err))
		return PageResult{}, E(KindFetch, "fetch result page", err)
	}

	var (
		result   PageResult
		fetchErr error
	)
	collector := f.newCollector()
	collector.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse response body: %w", err)
			return
		}
		result = PageResult{
			Doc:        doc,
			RawText:    string(r.Body),
			StatusCode: r.StatusCode,
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := f.run(ctx, func() error { return collector.Post(f.cfg.BaseURL, form) }); err != nil {
		fetchErr = err
	}
	if fetchErr != nil {
		f.logger.Warn("page fetch failed",
			zap.String("combination", combo.Label()),
			zap.Int("page", pageNo),
			zap.Error(fetchErr),
		)
		f.emit(progress.StageFetchError, combo,
			fmt.Sprintf("Error fetching page %d: %v", pageNo, fetchErr))
		return PageResult{}, E(KindFetch, "fetch result page", fetchErr)
	}

	f.emit(progress.StageFetch, combo,
		fmt.Sprintf("Status code for page %d: %d", pageNo, result.StatusCode))
	return result, nil
}

// Get downloads the raw bytes at rawURL, typically a judgement PDF.
func (f *PortalFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.waitLimit(ctx, rawURL); err != nil {
		return nil, err
	}

	var (
		body     []byte
		fetchErr error
	)
	collector := f.newCollector()
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := f.run(ctx, func() error { return collector.Visit(rawURL) }); err != nil {
		fetchErr = err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return body, nil
}

func (f *PortalFetcher) waitLimit(ctx context.Context, rawURL string) error {
	if f.limiter == nil {
		return nil
	}
	return f.limiter.Wait(ctx, rawURL)
}

func (f *PortalFetcher) newCollector() *colly.Collector {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
		r.Headers.Set("Connection", "keep-alive")
	})
	return collector
}

func (f *PortalFetcher) run(ctx context.Context, visit func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- visit()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

func (f *PortalFetcher) emit(stage progress.Stage, combo Combination, message string) {
	if f.emitter == nil {
		return
	}
	f.emitter.Emit(progress.Event{
		Stage:       stage,
		Combination: combo.Label(),
		Message:     message,
	})
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
