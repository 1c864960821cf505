package discovery

import (
	"strconv"
	"strings"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/scraper"
)

// DateLayout is the publish date format used by the site, e.g. "9 April
// 2022".
const DateLayout = "2 January 2006"

// Classifier decides which links point at sections and which at tags.
type Classifier struct {
	SectionPrefix string
	TagPrefix     string
}

// NewClassifier returns a classifier using the prefixes from site.
func NewClassifier(site scraper.SiteConfig) Classifier {
	return Classifier{
		SectionPrefix: site.SectionPrefix,
		TagPrefix:     site.TagPrefix,
	}
}

// IsSectionLink reports whether href starts with the section prefix.
func (c Classifier) IsSectionLink(href string) bool {
	return hasLinkPrefix(href, c.SectionPrefix)
}

// IsTagLink reports whether href starts with the tag prefix.
func (c Classifier) IsTagLink(href string) bool {
	return hasLinkPrefix(href, c.TagPrefix)
}

func hasLinkPrefix(href, prefix string) bool {
	return href != "" && prefix != "" && strings.HasPrefix(href, prefix)
}

// IsWithinTrailingWindow parses dateText with DateLayout and reports whether
// the date is strictly after now minus windowDays days. A date exactly
// windowDays before now is outside the window. Text that does not match the
// layout, including empty text, returns a *ParseError.
func IsWithinTrailingWindow(dateText string, windowDays int, now time.Time) (bool, error) {
	published, err := time.Parse(DateLayout, dateText)
	if err != nil {
		return false, &ParseError{Text: dateText, Layout: DateLayout, Err: err}
	}

	cutoff := now.UTC().AddDate(0, 0, -windowDays)
	return published.After(cutoff), nil
}

// ToPageIndex converts a pagination label to a page number. Labels that are
// not integers ("Next", "…", "") map to 0.
func ToPageIndex(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}
