package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/scraper"
	"github.com/Josh596/Punchng.com-webscraping/sink"
	"github.com/sirupsen/logrus"
)

// Defaults for values outside scraper.SiteConfig and scraper.Limits.
const (
	DefaultFetchTimeout      = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultHistoryDSN        = "punchscrape.db"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// Config is the full crawler configuration.
type Config struct {
	Site    scraper.SiteConfig `yaml:"site"`
	Limits  scraper.Limits     `yaml:"limits"`
	Fetch   FetchConfig        `yaml:"fetch"`
	Output  OutputConfig       `yaml:"output"`
	History HistoryConfig      `yaml:"history"`
	Log     LogConfig          `yaml:"log"`
}

// FetchConfig controls the HTTP fetcher.
type FetchConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// OutputConfig selects where records are written. An empty Path means the
// default file for Type.
type OutputConfig struct {
	Type string `yaml:"type"` // "csv" or "sqlite"
	Path string `yaml:"path"`
}

// ResolvedPath returns Path, or the default file for Type when Path is empty.
func (o OutputConfig) ResolvedPath() string {
	if o.Path != "" {
		return o.Path
	}
	return sink.DefaultPath(o.Type)
}

// HistoryConfig locates the run history database. An empty DSN disables
// history.
type HistoryConfig struct {
	DSN string `yaml:"dsn"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the configuration for crawling punchng.com.
func Default() *Config {
	return &Config{
		Site:   scraper.PunchSiteConfig(),
		Limits: scraper.DefaultLimits(),
		Fetch: FetchConfig{
			Timeout:           DefaultFetchTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Output: OutputConfig{
			Type: sink.TypeCSV,
		},
		History: HistoryConfig{
			DSN: DefaultHistoryDSN,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// ApplyEnv overrides fields from PUNCH_* environment variables read through
// getenv. Unset or empty variables leave the field alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("PUNCH_ROOT_URL", &c.Site.RootURL)
	setString("PUNCH_OUTPUT_TYPE", &c.Output.Type)
	setString("PUNCH_OUTPUT_PATH", &c.Output.Path)
	setString("PUNCH_HISTORY_DSN", &c.History.DSN)
	setString("PUNCH_USER_AGENT", &c.Fetch.UserAgent)
	setString("PUNCH_LOG_LEVEL", &c.Log.Level)
	setString("PUNCH_LOG_FORMAT", &c.Log.Format)

	if err := setInt("PUNCH_ARTICLE_LIMIT", &c.Limits.ArticleLimit); err != nil {
		return err
	}
	if err := setInt("PUNCH_PAGE_LIMIT", &c.Limits.PageLimit); err != nil {
		return err
	}
	if err := setInt("PUNCH_WINDOW_DAYS", &c.Limits.WindowDays); err != nil {
		return err
	}

	if v := getenv("PUNCH_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PUNCH_FETCH_TIMEOUT: %w", err)
		}
		c.Fetch.Timeout = d
	}
	if v := getenv("PUNCH_REQUESTS_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PUNCH_REQUESTS_PER_SECOND: %w", err)
		}
		c.Fetch.RequestsPerSecond = f
	}

	return nil
}

// Validate checks that the configuration can drive a crawl.
func (c *Config) Validate() error {
	var errs []error

	if c.Site.RootURL == "" {
		errs = append(errs, errors.New("site.root_url is required"))
	} else if u, err := url.Parse(c.Site.RootURL); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("site.root_url must be an absolute URL: %q", c.Site.RootURL))
	}
	if c.Site.SectionPrefix == "" {
		errs = append(errs, errors.New("site.section_prefix is required"))
	}
	if c.Site.NavigationID == "" {
		errs = append(errs, errors.New("site.navigation_id is required"))
	}

	if c.Limits.ArticleLimit <= 0 {
		errs = append(errs, fmt.Errorf("limits.article_limit must be positive, got %d", c.Limits.ArticleLimit))
	}
	if c.Limits.PageLimit <= 0 {
		errs = append(errs, fmt.Errorf("limits.page_limit must be positive, got %d", c.Limits.PageLimit))
	}
	if c.Limits.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("limits.window_days must be positive, got %d", c.Limits.WindowDays))
	}

	if c.Fetch.Timeout < 0 {
		errs = append(errs, errors.New("fetch.timeout must not be negative"))
	}
	if c.Fetch.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("fetch.requests_per_second must not be negative"))
	}

	switch c.Output.Type {
	case sink.TypeCSV, sink.TypeSQLite:
	default:
		errs = append(errs, fmt.Errorf("output.type must be csv or sqlite, got %q", c.Output.Type))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
