package discovery

import (
	"strings"

	"github.com/Josh596/Punchng.com-webscraping/page"
)

// Section is a topical category linked from the homepage navigation.
type Section struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// DiscoverSections returns the section links inside the navigation region
// identified by navigationID, in document order. Duplicates are kept. A
// missing navigation region is a *StructureError: an empty result would
// otherwise look like a quiet site.
func DiscoverSections(doc page.Document, navigationID string, classifier Classifier) ([]Section, error) {
	nav, ok := doc.FindByRegionID(navigationID)
	if !ok {
		return nil, &StructureError{Element: "#" + navigationID, URL: doc.URL()}
	}

	links := nav.FindAllWhere(func(el page.Element) bool {
		href, _ := el.Attr("href")
		return classifier.IsSectionLink(href)
	})

	sections := make([]Section, 0, len(links))
	for _, link := range links {
		href, _ := link.Attr("href")
		sections = append(sections, Section{
			URL:   href,
			Label: strings.TrimSpace(link.Text()),
		})
	}

	return sections, nil
}
