package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Josh596/Punchng.com-webscraping/page"
	"github.com/Josh596/Punchng.com-webscraping/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionURL = "https://punchng.com/topics/news/"

// listingPage renders a listing page with the given article slugs and
// numbered pagination controls 1..totalPages, marking current as the current
// page.
func listingPage(current, totalPages int, slugs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, slug := range slugs {
		fmt.Fprintf(&b, `<h1 class="entry-title"><a href="https://punchng.com/%s/">%s</a></h1>`, slug, slug)
	}
	b.WriteString(`<nav class="navigation">`)
	for p := 1; p <= totalPages; p++ {
		if p == current {
			fmt.Fprintf(&b, `<span aria-current="page" class="page-numbers current">%d</span>`, p)
			continue
		}
		fmt.Fprintf(&b, `<a class="page-numbers" href="%spage/%d/">%d</a>`, sectionURL, p, p)
	}
	if current < totalPages {
		fmt.Fprintf(&b, `<a class="next page-numbers" href="%spage/%d/">Next</a>`, sectionURL, current+1)
	}
	b.WriteString("</nav></body></html>")
	return b.String()
}

func pageURL(p int) string {
	return fmt.Sprintf("%spage/%d/", sectionURL, p)
}

func newTestEnumerator(f page.Fetcher) *Enumerator {
	site := scraper.PunchSiteConfig()
	return NewEnumerator(f, site.ArticleTitleClass, site.PaginationClass, nil)
}

// tenPageSection builds a section exposing ten listing pages with two
// articles each.
func tenPageSection() map[string]string {
	pages := map[string]string{
		sectionURL: listingPage(1, 10, "p1-a", "p1-b"),
	}
	for p := 2; p <= 10; p++ {
		pages[pageURL(p)] = listingPage(p, 10, fmt.Sprintf("p%d-a", p), fmt.Sprintf("p%d-b", p))
	}
	return pages
}

// TestEnumerate_SinglePage verifies links from a section without pagination
func TestEnumerate_SinglePage(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: listingPage(1, 1, "one", "two", "three"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://punchng.com/one/",
		"https://punchng.com/two/",
		"https://punchng.com/three/",
	}, links)
	assert.Len(t, f.calls, 1)
}

// TestEnumerate_PageLimitBound verifies at most pageLimit pages are fetched
// even when the section has more
func TestEnumerate_PageLimitBound(t *testing.T) {
	for _, articleLimit := range []int{1, 2, 100} {
		f := newFakeFetcher(tenPageSection())

		links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, articleLimit, 5)
		require.NoError(t, err)

		assert.Len(t, f.calls, 5, "articleLimit=%d", articleLimit)
		assert.Equal(t, []string{sectionURL, pageURL(2), pageURL(3), pageURL(4), pageURL(5)}, f.calls)

		expected := 5 * min(articleLimit, 2)
		assert.Len(t, links, expected, "articleLimit=%d", articleLimit)
	}
}

// TestEnumerate_PageOrder verifies pages are processed in pagination order
// with per-page document order
func TestEnumerate_PageOrder(t *testing.T) {
	f := newFakeFetcher(tenPageSection())

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://punchng.com/p1-a/",
		"https://punchng.com/p1-b/",
		"https://punchng.com/p2-a/",
		"https://punchng.com/p2-b/",
		"https://punchng.com/p3-a/",
		"https://punchng.com/p3-b/",
	}, links)
}

// TestEnumerate_ArticleLimit verifies the per-page limit
func TestEnumerate_ArticleLimit(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: listingPage(1, 1, "a", "b", "c", "d"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/a/", "https://punchng.com/b/"}, links)
}

// TestEnumerate_FewerPagesThanLimit verifies short sections are not an error
func TestEnumerate_FewerPagesThanLimit(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: listingPage(1, 2, "a"),
		pageURL(2): listingPage(2, 2, "b"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/a/", "https://punchng.com/b/"}, links)
	assert.Len(t, f.calls, 2)
}

// TestEnumerate_NoRecursion verifies later pages' pagination is ignored
func TestEnumerate_NoRecursion(t *testing.T) {
	// Page 1 only lists page 2; page 2 lists 3 and 4
	first := `<h1 class="entry-title"><a href="https://punchng.com/a/">a</a></h1>` +
		`<a class="page-numbers" href="` + pageURL(2) + `">2</a>`
	second := `<h1 class="entry-title"><a href="https://punchng.com/b/">b</a></h1>` +
		`<a class="page-numbers" href="` + pageURL(3) + `">3</a>` +
		`<a class="page-numbers" href="` + pageURL(4) + `">4</a>`
	f := newFakeFetcher(map[string]string{
		sectionURL: first,
		pageURL(2): second,
		pageURL(3): listingPage(3, 4, "c"),
		pageURL(4): listingPage(4, 4, "d"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/a/", "https://punchng.com/b/"}, links)
	assert.Equal(t, []string{sectionURL, pageURL(2)}, f.calls)
}

// TestEnumerate_SkipsControlsWithoutTarget verifies controls lacking href are
// ignored
func TestEnumerate_SkipsControlsWithoutTarget(t *testing.T) {
	first := `<h1 class="entry-title"><a href="https://punchng.com/a/">a</a></h1>` +
		`<a class="page-numbers">2</a>` +
		`<a class="page-numbers" href="` + pageURL(3) + `">3</a>`
	f := newFakeFetcher(map[string]string{
		sectionURL: first,
		pageURL(3): listingPage(3, 3, "c"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/a/", "https://punchng.com/c/"}, links)
}

// TestEnumerate_RelativeLinks verifies links resolve against the page URL
func TestEnumerate_RelativeLinks(t *testing.T) {
	first := `<h1 class="entry-title"><a href="/story-one/">one</a></h1>` +
		`<a class="page-numbers" href="page/2/">2</a>`
	f := newFakeFetcher(map[string]string{
		sectionURL: first,
		pageURL(2): `<h1 class="entry-title"><a href="story-two/">two</a></h1>`,
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://punchng.com/story-one/",
		"https://punchng.com/topics/news/page/2/story-two/",
	}, links)
}

// TestEnumerate_TitlesWithoutLinks verifies titles without anchors are
// skipped
func TestEnumerate_TitlesWithoutLinks(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: `<h1 class="entry-title">Plain</h1><h1 class="entry-title"><a href="https://punchng.com/a/">a</a></h1>`,
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/a/"}, links)
}

// TestEnumerate_Idempotent verifies repeated runs give the same sequence
func TestEnumerate_Idempotent(t *testing.T) {
	pages := tenPageSection()
	e := newTestEnumerator(newFakeFetcher(pages))

	first, err := e.Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	second, err := e.Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestEnumerate_DuplicatesKept verifies links repeated across pages are not
// deduplicated
func TestEnumerate_DuplicatesKept(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: listingPage(1, 2, "same"),
		pageURL(2): listingPage(2, 2, "same"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://punchng.com/same/", "https://punchng.com/same/"}, links)
}

// TestEnumerate_FirstPageFailure verifies a failed listing fetch is returned
func TestEnumerate_FirstPageFailure(t *testing.T) {
	f := newFakeFetcher(map[string]string{})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	assert.Nil(t, links)
	require.Error(t, err)

	var transportErr *page.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

// TestEnumerate_LaterPageFailure verifies a failed later page aborts the
// section
func TestEnumerate_LaterPageFailure(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		sectionURL: listingPage(1, 3, "a"),
		pageURL(2): listingPage(2, 3, "b"),
	})

	links, err := newTestEnumerator(f).Enumerate(context.Background(), sectionURL, 100, 5)
	assert.Nil(t, links)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing page 3")
}
