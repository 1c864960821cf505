package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/config"
	"github.com/Josh596/Punchng.com-webscraping/discovery"
	"github.com/Josh596/Punchng.com-webscraping/logging"
	"github.com/Josh596/Punchng.com-webscraping/page"
	"github.com/Josh596/Punchng.com-webscraping/runs"
	"github.com/Josh596/Punchng.com-webscraping/sink"
	"github.com/sirupsen/logrus"
)

// crawlFlags holds the crawl command line. Only flags that were set on the
// command line override the loaded configuration.
type crawlFlags struct {
	fs *flag.FlagSet

	configPath   string
	root         string
	output       string
	outputType   string
	historyDSN   string
	logLevel     string
	articleLimit int
	pageLimit    int
	windowDays   int
}

func parseCrawlFlags(args []string) (*crawlFlags, error) {
	f := &crawlFlags{fs: flag.NewFlagSet("crawl", flag.ContinueOnError)}

	f.fs.StringVar(&f.configPath, "config", getEnv("PUNCH_CONFIG", config.DefaultConfigPath), "Path to YAML config file (PUNCH_CONFIG)")
	f.fs.StringVar(&f.root, "root", "", "Homepage URL to crawl")
	f.fs.StringVar(&f.output, "output", "", "Output file path")
	f.fs.StringVar(&f.outputType, "output-type", "", "Output type: csv, sqlite")
	f.fs.StringVar(&f.historyDSN, "history", "", "Path to run history database; \"none\" disables history")
	f.fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.fs.IntVar(&f.articleLimit, "article-limit", 0, "Maximum article links taken per listing page")
	f.fs.IntVar(&f.pageLimit, "page-limit", 0, "Highest listing page number visited per section")
	f.fs.IntVar(&f.windowDays, "window-days", 0, "Keep articles published within this many days")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	if f.fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", f.fs.Args())
	}

	return f, nil
}

// apply copies every explicitly set flag onto cfg.
func (f *crawlFlags) apply(cfg *config.Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "root":
			cfg.Site.RootURL = f.root
		case "output":
			cfg.Output.Path = f.output
		case "output-type":
			cfg.Output.Type = f.outputType
		case "history":
			cfg.History.DSN = f.historyDSN
			if f.historyDSN == "none" {
				cfg.History.DSN = ""
			}
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "article-limit":
			cfg.Limits.ArticleLimit = f.articleLimit
		case "page-limit":
			cfg.Limits.PageLimit = f.pageLimit
		case "window-days":
			cfg.Limits.WindowDays = f.windowDays
		}
	})
}

func handleCrawl(args []string) int {
	flags, err := parseCrawlFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration:\n%v\n", err)
		return 1
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Setup signal handling so an interrupted crawl still records its run
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, run, err := crawl(ctx, cfg, log)
	if result != nil {
		printCrawlSummary(result, run)
	}
	if err != nil {
		log.WithError(err).Error("Crawl failed")
		return 1
	}

	return 0
}

// crawl runs one crawl as described by cfg. When history is enabled the run
// and its failures are recorded, and the stored run is returned.
func crawl(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*discovery.Result, *runs.Run, error) {
	out, err := sink.Open(cfg.Output.Type, cfg.Output.ResolvedPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	defer out.Close()

	var store *runs.Store
	var run *runs.Run
	if cfg.History.DSN != "" {
		store, err = runs.NewStore(cfg.History.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open run history: %w", err)
		}
		defer store.Close()

		run, err = store.StartRun(cfg.Site.RootURL, time.Now().UTC())
		if err != nil {
			return nil, nil, err
		}
		log = log.WithField("run_id", run.RunID.String())
	}

	fetcher := page.NewHTTPFetcher(page.FetcherOptions{
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           cfg.Fetch.Timeout,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	})

	log.WithFields(logrus.Fields{
		"root":   cfg.Site.RootURL,
		"output": cfg.Output.ResolvedPath(),
	}).Info("Starting crawl")

	crawler := discovery.NewCrawler(fetcher, out, cfg.Site, cfg.Limits, discovery.WithLogger(log))
	result, runErr := crawler.Run(ctx)

	if store != nil {
		if err := recordRun(store, run, result, runErr); err != nil {
			// History is secondary to the crawl output
			log.WithError(err).Warn("Failed to record run history")
		}
	}

	return result, run, runErr
}

// recordRun stores the outcome of a crawl against run.
func recordRun(store *runs.Store, run *runs.Run, result *discovery.Result, runErr error) error {
	finishedAt := time.Now().UTC()
	if result != nil && !result.FinishedAt.IsZero() {
		finishedAt = result.FinishedAt
	}

	var errs []error
	if result != nil {
		for _, failure := range result.Failures {
			err := store.RecordFailure(runs.FailureRecord{
				RunID:      run.RunID,
				Unit:       failure.Unit,
				URL:        failure.URL,
				Kind:       discovery.FailureKind(failure.Err),
				Message:    failure.Err.Error(),
				OccurredAt: finishedAt,
			})
			if err != nil {
				errs = append(errs, err)
			}
		}

		run.SectionsFound = len(result.Sections)
		run.SectionsFailed = result.SectionsFailed
		run.ArticlesSeen = result.ArticlesSeen
		run.RecordsWritten = result.RecordsWritten
		run.ArticlesSkipped = result.ArticlesSkipped
		run.ArticlesFailed = result.ArticlesFailed
	}

	run.Status = runs.StatusCompleted
	run.FinishedAt = &finishedAt
	if runErr != nil {
		message := runErr.Error()
		run.Status = runs.StatusFailed
		run.LastError = &message

		err := store.RecordFailure(runs.FailureRecord{
			RunID:      run.RunID,
			Unit:       discovery.UnitRun,
			URL:        run.RootURL,
			Kind:       discovery.FailureKind(runErr),
			Message:    message,
			OccurredAt: finishedAt,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if err := store.FinishRun(run); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
