package discovery

import (
	"context"
	"errors"
	"net/http"

	"github.com/Josh596/Punchng.com-webscraping/page"
)

// fakeFetcher serves fixed HTML per URL and records every request.
type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (page.Document, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, &page.TransportError{URL: url, StatusCode: http.StatusNotFound, Err: errors.New("not found")}
	}
	return page.ParseString(url, html)
}
