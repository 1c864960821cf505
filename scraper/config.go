package scraper

// Default Punch markup hooks. The crawler only relies on these stable
// identifiers and classes, never on layout.
const (
	DefaultRootURL           = "https://punchng.com/"
	DefaultSectionPrefix     = "https://punchng.com/topics"
	DefaultTagPrefix         = "https://punchng.com/tags"
	DefaultNavigationID      = "primary-menu"
	DefaultArticleTitleClass = "entry-title"
	DefaultPaginationClass   = "page-numbers"
	DefaultDateClass         = "entry-date"
	DefaultDateTag           = "span"
	DefaultTitleID           = "huge_trend_title_count"
	DefaultAuthorClass       = "entry-author"
	DefaultTagsClass         = "entry-tags"
)

// SiteConfig describes where the crawler finds each piece of information on
// the site's homepage, listing pages and article pages.
type SiteConfig struct {
	RootURL       string `yaml:"root_url" json:"root_url"`
	SectionPrefix string `yaml:"section_prefix" json:"section_prefix"`
	TagPrefix     string `yaml:"tag_prefix" json:"tag_prefix"`

	// Homepage
	NavigationID string `yaml:"navigation_id" json:"navigation_id"`

	// Listing pages
	ArticleTitleClass string `yaml:"article_title_class" json:"article_title_class"`
	PaginationClass   string `yaml:"pagination_class" json:"pagination_class"`

	// Article pages
	DateClass   string `yaml:"date_class" json:"date_class"`
	DateTag     string `yaml:"date_tag" json:"date_tag"`
	TitleID     string `yaml:"title_id" json:"title_id"`
	AuthorClass string `yaml:"author_class" json:"author_class"`
	TagsClass   string `yaml:"tags_class" json:"tags_class"`
}

// Limits bounds a single crawl run.
type Limits struct {
	ArticleLimit int `yaml:"article_limit" json:"article_limit"` // Links taken per listing page
	PageLimit    int `yaml:"page_limit" json:"page_limit"`       // Highest listing page number visited
	WindowDays   int `yaml:"window_days" json:"window_days"`     // Trailing publish window
}

// PunchSiteConfig returns the markup configuration for punchng.com.
func PunchSiteConfig() SiteConfig {
	return SiteConfig{
		RootURL:           DefaultRootURL,
		SectionPrefix:     DefaultSectionPrefix,
		TagPrefix:         DefaultTagPrefix,
		NavigationID:      DefaultNavigationID,
		ArticleTitleClass: DefaultArticleTitleClass,
		PaginationClass:   DefaultPaginationClass,
		DateClass:         DefaultDateClass,
		DateTag:           DefaultDateTag,
		TitleID:           DefaultTitleID,
		AuthorClass:       DefaultAuthorClass,
		TagsClass:         DefaultTagsClass,
	}
}

// DefaultLimits returns the limits used by a standard run: 100 links per
// listing page, pages 1 through 5, and a 30 day window.
func DefaultLimits() Limits {
	return Limits{
		ArticleLimit: 100,
		PageLimit:    5,
		WindowDays:   30,
	}
}
