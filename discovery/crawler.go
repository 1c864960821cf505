package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/page"
	"github.com/Josh596/Punchng.com-webscraping/scraper"
	"github.com/Josh596/Punchng.com-webscraping/sink"
	"github.com/sirupsen/logrus"
)

// Units of work a failure can be attributed to.
const (
	UnitRun     = "run"
	UnitSection = "section"
	UnitArticle = "article"
)

// Failure is an error isolated to one section or article. The crawl
// continued past it.
type Failure struct {
	Unit string
	URL  string
	Err  error
}

// Result summarizes a crawl run.
type Result struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	Sections        []Section
	SectionsFailed  int
	ArticlesSeen    int
	RecordsWritten  int
	ArticlesSkipped int
	ArticlesFailed  int
	Failures        []Failure
}

// Crawler runs the section → listing → article pipeline and writes records
// to a sink.
type Crawler struct {
	fetcher    page.Fetcher
	sink       sink.Sink
	site       scraper.SiteConfig
	limits     scraper.Limits
	log        logrus.FieldLogger
	now        func() time.Time
	classifier Classifier
	enumerator *Enumerator
	extractor  *Extractor
}

// CrawlerOption customizes a Crawler.
type CrawlerOption func(*Crawler)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log logrus.FieldLogger) CrawlerOption {
	return func(c *Crawler) {
		c.log = log
	}
}

// WithClock sets the clock read once at the start of each run.
func WithClock(now func() time.Time) CrawlerOption {
	return func(c *Crawler) {
		c.now = now
	}
}

// NewCrawler creates a crawler for site.
func NewCrawler(
	fetcher page.Fetcher,
	out sink.Sink,
	site scraper.SiteConfig,
	limits scraper.Limits,
	opts ...CrawlerOption,
) *Crawler {
	c := &Crawler{
		fetcher: fetcher,
		sink:    out,
		site:    site,
		limits:  limits,
		log:     logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.classifier = NewClassifier(site)
	c.enumerator = NewEnumerator(fetcher, site.ArticleTitleClass, site.PaginationClass, c.log)
	c.extractor = NewExtractor(fetcher, site, limits.WindowDays)

	return c
}

// Run performs one crawl. The output table is reset first. Failures while
// resetting the sink, loading the homepage, discovering sections or writing
// a record end the run and are returned; failures inside one section or one
// article are recorded in the Result and the crawl moves on. The Result is
// returned in both cases.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	// One reference point for every window comparison in this run
	now := c.now().UTC()
	result := &Result{StartedAt: now}
	defer func() { result.FinishedAt = c.now().UTC() }()

	if err := c.sink.Reset(); err != nil {
		return result, fmt.Errorf("failed to reset output: %w", err)
	}

	home, err := c.fetcher.Fetch(ctx, c.site.RootURL)
	if err != nil {
		return result, fmt.Errorf("failed to fetch homepage: %w", err)
	}

	sections, err := DiscoverSections(home, c.site.NavigationID, c.classifier)
	if err != nil {
		return result, fmt.Errorf("failed to discover sections: %w", err)
	}
	result.Sections = sections
	c.log.WithField("count", len(sections)).Info("Discovered sections")

	for _, section := range sections {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := c.crawlSection(ctx, section, now, result); err != nil {
			return result, err
		}
	}

	c.log.WithFields(logrus.Fields{
		"records":         result.RecordsWritten,
		"skipped":         result.ArticlesSkipped,
		"failed_articles": result.ArticlesFailed,
		"failed_sections": result.SectionsFailed,
	}).Info("Crawl finished")

	return result, nil
}

// crawlSection processes one section. Only errors that must end the run are
// returned.
func (c *Crawler) crawlSection(ctx context.Context, section Section, now time.Time, result *Result) error {
	log := c.log.WithField("section", section.Label)
	log.WithField("url", section.URL).Info("Crawling section")

	links, err := c.enumerator.Enumerate(ctx, section.URL, c.limits.ArticleLimit, c.limits.PageLimit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.WithError(err).Warn("Skipping section")
		result.SectionsFailed++
		result.Failures = append(result.Failures, Failure{Unit: UnitSection, URL: section.URL, Err: err})
		return nil
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.ArticlesSeen++
		log.WithField("url", link).Info("Article")

		record, err := c.extractor.Extract(ctx, link, now)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.WithError(err).WithField("url", link).Warn("Skipping article")
			result.ArticlesFailed++
			result.Failures = append(result.Failures, Failure{Unit: UnitArticle, URL: link, Err: err})
			continue
		}
		if record == nil {
			// Outside the window: routine, not a failure
			log.WithField("url", link).Debug("Article outside window")
			result.ArticlesSkipped++
			continue
		}

		record.Section = section.Label
		if err := c.sink.Append(record); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", link, err)
		}
		result.RecordsWritten++
	}

	return nil
}

// FailureKind classifies err for reporting: "structure", "parse",
// "transport" or "other".
func FailureKind(err error) string {
	var structureErr *StructureError
	var parseErr *ParseError
	var transportErr *page.TransportError

	switch {
	case errors.As(err, &structureErr):
		return "structure"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "other"
	}
}
