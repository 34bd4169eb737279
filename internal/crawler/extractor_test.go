package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/progress"
)

type recordingArchive struct {
	mu    sync.Mutex
	calls []string
}

func (a *recordingArchive) SavePage(_ context.Context, categoryName string, year, pageNo int, _ []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := fmt.Sprintf("%s/%d/page_%d.html", categoryName, year, pageNo)
	a.calls = append(a.calls, key)
	return key, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *eventRecorder) Emit(evt progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *eventRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Message)
	}
	return out
}

func resultRow(caseNo, title, date, href string) string {
	link := ""
	if href != "" {
		link = fmt.Sprintf(`<a href="%s">PDF</a>`, href)
	}
	return fmt.Sprintf(
		`<tr><td>1</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
		caseNo, title, date, link,
	)
}

func resultsTable(rows ...string) string {
	return `<table class="table table-hover table-bordered text-center">` +
		`<tr><th>S.No</th><th>Case No</th><th>Title</th><th>Date</th><th>Judgement</th></tr>` +
		strings.Join(rows, "") +
		`</table>`
}

func resultsPage(rows ...string) string {
	return `<html><body>` + resultsTable(rows...) + `</body></html>`
}

func newTestExtractor(t *testing.T) (*ResultExtractor, *recordingArchive, *eventRecorder) {
	t.Helper()
	arch := &recordingArchive{}
	rec := &eventRecorder{}
	ex, err := NewResultExtractor("https://dhccaseinfo.nic.in/", arch, rec, zap.NewNop())
	require.NoError(t, err)
	return ex, arch, rec
}

func pageFromHTML(t *testing.T, html string) PageResult {
	t.Helper()
	return PageResult{Doc: docFromHTML(t, html), RawText: html, StatusCode: 200}
}

var testCombo = Combination{CategoryID: "31", CategoryName: "Civil", Year: 2023}

func TestExtractValidRows(t *testing.T) {
	t.Parallel()

	ex, arch, _ := newTestExtractor(t)
	page := pageFromHTML(t, resultsPage(
		resultRow("CS(OS) 101/2023", " State vs Sharma ", "12-01-2023", "judgements/101.pdf"),
		resultRow("CS(OS) 102/2023", "Union vs Verma", "15-01-2023", "/judgements/102.pdf"),
	))

	descs, err := ex.Extract(context.Background(), testCombo, 1, page)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	require.Equal(t, "CS(OS) 101/2023", descs[0].CaseNo)
	require.Equal(t, "State vs Sharma", descs[0].Title)
	require.Equal(t, "12-01-2023", descs[0].JudgementDate)
	require.Equal(t, "https://dhccaseinfo.nic.in/judgements/101.pdf", descs[0].PdfURL)
	require.Equal(t, "https://dhccaseinfo.nic.in/judgements/102.pdf", descs[1].PdfURL)

	require.Empty(t, arch.calls)
}

func TestExtractNoRecordsMixedCase(t *testing.T) {
	t.Parallel()

	ex, arch, _ := newTestExtractor(t)
	html := `<html><body><p>No Matching Records</p></body></html>`
	page := pageFromHTML(t, html)

	descs, err := ex.Extract(context.Background(), testCombo, 1, page)
	require.NoError(t, err)
	require.Empty(t, descs)
	require.Empty(t, arch.calls)
	require.True(t, NoRecords(page.RawText))
}

func TestExtractSkipsShortRowKeepsOthers(t *testing.T) {
	t.Parallel()

	ex, _, rec := newTestExtractor(t)
	page := pageFromHTML(t, resultsPage(
		`<tr><td>1</td><td>CS 1/2023</td><td>Partial</td></tr>`,
		resultRow("CS 2/2023", "Complete", "01-02-2023", "judgements/2.pdf"),
	))

	descs, err := ex.Extract(context.Background(), testCombo, 1, page)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Equal(t, "CS 2/2023", descs[0].CaseNo)

	var sawRowWarning bool
	for _, msg := range rec.messages() {
		if strings.Contains(msg, "Insufficient columns") {
			sawRowWarning = true
		}
	}
	require.True(t, sawRowWarning)
}

func TestExtractSkipsRowWithoutAnchor(t *testing.T) {
	t.Parallel()

	ex, _, _ := newTestExtractor(t)
	page := pageFromHTML(t, resultsPage(
		resultRow("CS 1/2023", "No Link", "01-02-2023", ""),
		resultRow("CS 2/2023", "Has Link", "02-02-2023", "judgements/2.pdf"),
	))

	descs, err := ex.Extract(context.Background(), testCombo, 1, page)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Equal(t, "CS 2/2023", descs[0].CaseNo)
}

func TestExtractMalformedPageArchivesAndReturnsParseError(t *testing.T) {
	t.Parallel()

	ex, arch, rec := newTestExtractor(t)
	page := pageFromHTML(t, `<html><body><p>maintenance notice</p></body></html>`)

	descs, err := ex.Extract(context.Background(), testCombo, 2, page)
	require.Empty(t, descs)
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
	require.True(t, Recoverable(err))

	require.Equal(t, []string{"Civil/2023/page_2.html"}, arch.calls)

	var sawArchiveEvent bool
	for _, evt := range rec.events {
		if evt.Stage == progress.StageArchive {
			sawArchiveEvent = true
		}
	}
	require.True(t, sawArchiveEvent)
}

func TestExtractNilDocIsMalformed(t *testing.T) {
	t.Parallel()

	ex, arch, _ := newTestExtractor(t)
	page := PageResult{Doc: nil, RawText: "<html>half a page"}

	_, err := ex.Extract(context.Background(), testCombo, 4, page)
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
	require.Len(t, arch.calls, 1)
}

func TestNoRecordsPhrases(t *testing.T) {
	t.Parallel()

	require.True(t, NoRecords("NO RECORDS FOUND"))
	require.True(t, NoRecords("sorry, No Matching Records for your query"))
	require.False(t, NoRecords("47 records"))
}
