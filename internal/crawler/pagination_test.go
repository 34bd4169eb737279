package crawler

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestResolveFromBanner(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())
	doc := docFromHTML(t, `<html><body>
		<div class="row justify-content-center">Displaying total 47 records</div>
	</body></html>`)

	require.Equal(t, 5, resolver.Resolve(doc))
}

func TestResolveBannerExactMultiple(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())
	doc := docFromHTML(t, `<div class="row justify-content-center">total 20 records</div>`)

	require.Equal(t, 2, resolver.Resolve(doc))
}

func TestResolveBannerSingleRecord(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())
	doc := docFromHTML(t, `<div class="row justify-content-center">total 1 records</div>`)

	require.Equal(t, 1, resolver.Resolve(doc))
}

func TestResolveFallbackHiddenField(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())
	doc := docFromHTML(t, `<html><body>
		<input type="hidden" id="total_no_page" value="7"/>
	</body></html>`)

	require.Equal(t, 7, resolver.Resolve(doc))
}

func TestResolveBannerTakesPrecedenceOverHiddenField(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())
	doc := docFromHTML(t, `<html><body>
		<div class="row justify-content-center">total 12 records</div>
		<input type="hidden" id="total_no_page" value="99"/>
	</body></html>`)

	require.Equal(t, 2, resolver.Resolve(doc))
}

func TestResolveDefaultsToOnePage(t *testing.T) {
	t.Parallel()

	resolver := NewPaginationResolver(zap.NewNop())

	require.Equal(t, 1, resolver.Resolve(docFromHTML(t, `<html><body><p>nothing here</p></body></html>`)))
	require.Equal(t, 1, resolver.Resolve(docFromHTML(t, `<input id="total_no_page" value="garbage"/>`)))
	require.Equal(t, 1, resolver.Resolve(nil))
}
