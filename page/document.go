// Package page is the fetch-and-parse boundary of the crawler. The crawl core
// sees pages only through the Document and Element interfaces declared here.
package page

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a single node of a parsed page.
type Element interface {
	// Tag returns the lower-case element name, e.g. "a".
	Tag() string
	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)
	// Classes returns the element's class list in attribute order.
	Classes() []string
	// Text returns the combined text of the element and its descendants.
	Text() string
	// FindFirstByTag returns the first descendant with the given tag name.
	FindFirstByTag(tag string) (Element, bool)
	// FindAllWhere returns every descendant satisfying pred, in document
	// order.
	FindAllWhere(pred func(Element) bool) []Element
}

// Document is a parsed page.
type Document interface {
	// URL is the address the document was loaded from. May be empty.
	URL() string
	// FindByRegionID returns the first element whose id attribute equals id.
	FindByRegionID(id string) (Element, bool)
	// FindAllByClassWithLimit returns up to limit elements whose class list
	// contains class, in document order. A limit of zero or less means no
	// limit.
	FindAllByClassWithLimit(class string, limit int) []Element
	// FindAllWhere returns every element satisfying pred, in document order.
	FindAllWhere(pred func(Element) bool) []Element
}

type document struct {
	url string
	doc *goquery.Document
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(url string, doc *goquery.Document) Document {
	return &document{url: url, doc: doc}
}

// Parse reads HTML from r and returns a Document for it.
func Parse(url string, r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewDocument(url, doc), nil
}

// ParseString is Parse for an in-memory HTML string.
func ParseString(url, html string) (Document, error) {
	return Parse(url, strings.NewReader(html))
}

func (d *document) URL() string {
	return d.url
}

func (d *document) FindByRegionID(id string) (Element, bool) {
	// Compare the attribute directly so ids needing CSS escaping still match
	sel := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &element{sel: sel}, true
}

func (d *document) FindAllByClassWithLimit(class string, limit int) []Element {
	var found []Element
	d.doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !s.HasClass(class) {
			return true
		}
		found = append(found, &element{sel: s})
		return limit <= 0 || len(found) < limit
	})
	return found
}

func (d *document) FindAllWhere(pred func(Element) bool) []Element {
	return findAllWhere(d.doc.Selection, pred)
}

type element struct {
	sel *goquery.Selection
}

func (e *element) Tag() string {
	return goquery.NodeName(e.sel)
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) Classes() []string {
	class, _ := e.sel.Attr("class")
	return strings.Fields(class)
}

func (e *element) Text() string {
	return e.sel.Text()
}

func (e *element) FindFirstByTag(tag string) (Element, bool) {
	sel := e.sel.Find(tag).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &element{sel: sel}, true
}

func (e *element) FindAllWhere(pred func(Element) bool) []Element {
	return findAllWhere(e.sel, pred)
}

func findAllWhere(root *goquery.Selection, pred func(Element) bool) []Element {
	var found []Element
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		el := &element{sel: s}
		if pred(el) {
			found = append(found, el)
		}
	})
	return found
}

// HasExactClasses reports whether el's class list is exactly classes, in
// order. An element with class="page-numbers current" does not have the
// exact class list ["page-numbers"].
func HasExactClasses(el Element, classes ...string) bool {
	return slices.Equal(el.Classes(), classes)
}
