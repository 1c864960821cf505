package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/discovery"
	"github.com/Josh596/Punchng.com-webscraping/runs"
)

const timeLayout = "2006-01-02 15:04:05"

// printCrawlSummary prints the outcome of a crawl to stdout
func printCrawlSummary(result *discovery.Result, run *runs.Run) {
	fmt.Println()
	if run != nil {
		fmt.Printf("Run:              %s\n", run.RunID)
	}
	fmt.Printf("Sections:         %d (%d failed)\n", len(result.Sections), result.SectionsFailed)
	fmt.Printf("Articles seen:    %d\n", result.ArticlesSeen)
	fmt.Printf("Records written:  %d\n", result.RecordsWritten)
	fmt.Printf("Outside window:   %d\n", result.ArticlesSkipped)
	fmt.Printf("Articles failed:  %d\n", result.ArticlesFailed)
	fmt.Printf("Duration:         %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}

// printRunsTable prints runs in human-readable table format
func printRunsTable(w io.Writer, runList []runs.Run) {
	if len(runList) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	// Print table header
	fmt.Fprintf(w, "%-36s %-10s %-19s %8s %8s %8s\n", "ID", "STATUS", "STARTED", "SECTIONS", "RECORDS", "FAILED")
	fmt.Fprintln(w, strings.Repeat("-", 94))

	for _, run := range runList {
		fmt.Fprintf(w, "%-36s %-10s %-19s %8d %8d %8d\n",
			run.RunID,
			run.Status,
			run.StartedAt.Local().Format(timeLayout),
			run.SectionsFound,
			run.RecordsWritten,
			run.SectionsFailed+run.ArticlesFailed,
		)
	}
}

// printRunDetail prints one run and its failures
func printRunDetail(w io.Writer, run *runs.Run, failures []runs.FailureRecord) {
	fmt.Fprintf(w, "Run:          %s\n", run.RunID)
	fmt.Fprintf(w, "Root URL:     %s\n", run.RootURL)
	fmt.Fprintf(w, "Status:       %s\n", run.Status)
	fmt.Fprintf(w, "Started:      %s\n", run.StartedAt.Local().Format(timeLayout))
	if run.FinishedAt != nil {
		fmt.Fprintf(w, "Finished:     %s\n", run.FinishedAt.Local().Format(timeLayout))
	} else {
		fmt.Fprintln(w, "Finished:     -")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Counts:")
	fmt.Fprintf(w, "  Sections:         %d (%d failed)\n", run.SectionsFound, run.SectionsFailed)
	fmt.Fprintf(w, "  Articles seen:    %d\n", run.ArticlesSeen)
	fmt.Fprintf(w, "  Records written:  %d\n", run.RecordsWritten)
	fmt.Fprintf(w, "  Outside window:   %d\n", run.ArticlesSkipped)
	fmt.Fprintf(w, "  Articles failed:  %d\n", run.ArticlesFailed)

	if run.LastError != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Error: %s\n", *run.LastError)
	}

	if len(failures) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Failures (%d):\n", len(failures))
	for _, failure := range failures {
		fmt.Fprintf(w, "  [%s/%s] %s\n", failure.Unit, failure.Kind, failure.URL)
		fmt.Fprintf(w, "    %s\n", failure.Message)
	}
}

// printJSON prints v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
