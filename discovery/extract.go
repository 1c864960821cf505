package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/page"
	"github.com/Josh596/Punchng.com-webscraping/scraper"
)

// TagSeparator joins an article's tags into a single output field.
const TagSeparator = "|"

// ArticleRecord is the metadata extracted from one article inside the
// trailing window.
type ArticleRecord struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	DatePublished string   `json:"date_published"`
	Section       string   `json:"section"`
}

var recordHeader = []string{"title", "author", "tags", "date_published", "section"}

// Header returns the output column names.
func (r ArticleRecord) Header() []string {
	return append([]string(nil), recordHeader...)
}

// Values returns the output row, in Header order.
func (r ArticleRecord) Values() []string {
	return []string{
		r.Title,
		r.Author,
		strings.Join(r.Tags, TagSeparator),
		r.DatePublished,
		r.Section,
	}
}

// Extractor reads article pages.
type Extractor struct {
	fetcher    page.Fetcher
	site       scraper.SiteConfig
	classifier Classifier
	windowDays int
}

// NewExtractor creates an extractor keeping articles published within the
// last windowDays days.
func NewExtractor(fetcher page.Fetcher, site scraper.SiteConfig, windowDays int) *Extractor {
	return &Extractor{
		fetcher:    fetcher,
		site:       site,
		classifier: NewClassifier(site),
		windowDays: windowDays,
	}
}

// Extract fetches articleURL and returns its record. Articles published
// outside the window are skipped: the record and the error are both nil.
// The returned record's Section is left empty for the caller.
func (x *Extractor) Extract(ctx context.Context, articleURL string, now time.Time) (*ArticleRecord, error) {
	doc, err := x.fetcher.Fetch(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	return x.ExtractDocument(doc, now)
}

// ExtractDocument is Extract for an already fetched page.
func (x *Extractor) ExtractDocument(doc page.Document, now time.Time) (*ArticleRecord, error) {
	dateText, err := x.publishDate(doc)
	if err != nil {
		return nil, err
	}

	recent, err := IsWithinTrailingWindow(dateText, x.windowDays, now)
	if err != nil {
		return nil, err
	}
	if !recent {
		return nil, nil
	}

	titleEl, ok := doc.FindByRegionID(x.site.TitleID)
	if !ok {
		return nil, &StructureError{Element: "#" + x.site.TitleID, URL: doc.URL()}
	}
	title := normalizeSpace(titleEl.Text())
	if title == "" {
		return nil, &StructureError{Element: "#" + x.site.TitleID + " text", URL: doc.URL()}
	}

	authorEl, ok := firstByClass(doc, x.site.AuthorClass)
	if !ok {
		return nil, &StructureError{Element: "." + x.site.AuthorClass, URL: doc.URL()}
	}

	return &ArticleRecord{
		Title:         title,
		Author:        normalizeSpace(authorEl.Text()),
		Tags:          x.tags(doc),
		DatePublished: dateText,
	}, nil
}

// publishDate reads the text of the first date tag inside the date element.
func (x *Extractor) publishDate(doc page.Document) (string, error) {
	dateEl, ok := firstByClass(doc, x.site.DateClass)
	if !ok {
		return "", &StructureError{Element: "." + x.site.DateClass, URL: doc.URL()}
	}

	inner, ok := dateEl.FindFirstByTag(x.site.DateTag)
	if !ok {
		return "", &StructureError{Element: "." + x.site.DateClass + " " + x.site.DateTag, URL: doc.URL()}
	}

	return strings.TrimSpace(inner.Text()), nil
}

// tags returns the labels of tag links inside the tags region. A page
// without the region has no tags.
func (x *Extractor) tags(doc page.Document) []string {
	tags := []string{}

	region, ok := firstByClass(doc, x.site.TagsClass)
	if !ok {
		return tags
	}

	links := region.FindAllWhere(func(el page.Element) bool {
		href, _ := el.Attr("href")
		return x.classifier.IsTagLink(href)
	})
	for _, link := range links {
		tags = append(tags, strings.TrimSpace(link.Text()))
	}

	return tags
}

func firstByClass(doc page.Document, class string) (page.Element, bool) {
	found := doc.FindAllByClassWithLimit(class, 1)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
