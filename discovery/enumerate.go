package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Josh596/Punchng.com-webscraping/page"
	"github.com/sirupsen/logrus"
)

// Enumerator collects article links from a section's listing pages.
type Enumerator struct {
	fetcher           page.Fetcher
	articleTitleClass string
	paginationClass   string
	log               logrus.FieldLogger
}

// NewEnumerator creates an enumerator. The class names select article title
// elements and pagination controls on listing pages.
func NewEnumerator(fetcher page.Fetcher, articleTitleClass, paginationClass string, log logrus.FieldLogger) *Enumerator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Enumerator{
		fetcher:           fetcher,
		articleTitleClass: articleTitleClass,
		paginationClass:   paginationClass,
		log:               log,
	}
}

// Enumerate returns article links from sectionURL and from pages 2 through
// pageLimit of its pagination, taking at most articleLimit links per page.
// Only the first page's pagination controls are followed. Links keep
// per-page document order and are not deduplicated. Any fetch failure
// aborts the whole section.
func (e *Enumerator) Enumerate(ctx context.Context, sectionURL string, articleLimit, pageLimit int) ([]string, error) {
	first, err := e.fetcher.Fetch(ctx, sectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page 1 of %s: %w", sectionURL, err)
	}

	links := e.articleLinks(first, articleLimit)

	for _, next := range e.paginationTargets(first, pageLimit) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := e.fetcher.Fetch(ctx, next.url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing page %d of %s: %w", next.index, sectionURL, err)
		}
		links = append(links, e.articleLinks(doc, articleLimit)...)
	}

	return links, nil
}

// articleLinks maps up to limit article title elements to their links.
func (e *Enumerator) articleLinks(doc page.Document, limit int) []string {
	titles := doc.FindAllByClassWithLimit(e.articleTitleClass, limit)

	links := make([]string, 0, len(titles))
	for _, title := range titles {
		anchor, ok := title.FindFirstByTag("a")
		if !ok {
			e.log.WithField("page", doc.URL()).Debug("article title without link")
			continue
		}
		href, _ := anchor.Attr("href")
		if href == "" {
			continue
		}
		links = append(links, resolve(doc.URL(), href))
	}

	return links
}

type pageTarget struct {
	index int
	url   string
}

// paginationTargets returns the numbered controls p with 1 < p <= pageLimit.
// Controls carrying extra classes (the current page, "Next") and controls
// without a target are ignored.
func (e *Enumerator) paginationTargets(doc page.Document, pageLimit int) []pageTarget {
	controls := doc.FindAllWhere(func(el page.Element) bool {
		if !page.HasExactClasses(el, e.paginationClass) {
			return false
		}
		p := ToPageIndex(el.Text())
		return 1 < p && p <= pageLimit
	})

	targets := make([]pageTarget, 0, len(controls))
	for _, control := range controls {
		href, _ := control.Attr("href")
		if href == "" {
			continue
		}
		targets = append(targets, pageTarget{
			index: ToPageIndex(control.Text()),
			url:   resolve(doc.URL(), href),
		})
	}

	return targets
}

// resolve makes href absolute against base. Unparseable values are returned
// unchanged.
func resolve(base, href string) string {
	if base == "" {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
