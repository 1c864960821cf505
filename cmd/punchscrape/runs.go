package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Josh596/Punchng.com-webscraping/config"
	"github.com/Josh596/Punchng.com-webscraping/runs"
	"github.com/google/uuid"
)

// errHistoryDisabled is returned when the configuration has no history
// database.
var errHistoryDisabled = errors.New("run history is disabled (history.dsn is empty)")

func printRunsUsage() {
	fmt.Println("punchscrape runs -- Inspect crawl history")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  punchscrape runs <action> [-config path] [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list       List recent runs")
	fmt.Println("  show       Show a run and its failures")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("The history database is read from the same config file and")
	fmt.Println("environment as crawl.")
}

func handleRunsCommand(action string, args []string) {
	var err error

	switch action {
	case "list":
		err = handleRunsList(os.Stdout, args)
	case "show":
		err = handleRunsShow(os.Stdout, args)
	case "help", "--help", "-h":
		printRunsUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown runs command: %s\n\n", action)
		printRunsUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openHistory opens the run store named by the configuration at configPath.
// A store that was never written is reported instead of created.
func openHistory(configPath string) (*runs.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn := cfg.History.DSN
	if dsn == "" {
		return nil, errHistoryDisabled
	}
	if _, err := os.Stat(dsn); os.IsNotExist(err) {
		return nil, fmt.Errorf("no run history at %s", dsn)
	}

	store, err := runs.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	return store, nil
}

func runsFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", getEnv("PUNCH_CONFIG", config.DefaultConfigPath), "Path to YAML config file (PUNCH_CONFIG)")
	return fs, configPath
}

func handleRunsList(w io.Writer, args []string) error {
	// Parse flags for list command
	fs, configPath := runsFlagSet("runs list")
	limit := fs.Int("limit", 20, "Maximum number of runs to display (0 for all)")
	format := fs.String("format", "table", "Output format: table, json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "table" && *format != "json" {
		return fmt.Errorf("unknown format: %s", *format)
	}

	store, err := openHistory(*configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runList, err := store.ListRuns(*limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if *format == "json" {
		return printJSON(w, map[string]any{"runs": runList, "total": len(runList)})
	}
	printRunsTable(w, runList)
	return nil
}

func handleRunsShow(w io.Writer, args []string) error {
	fs, configPath := runsFlagSet("runs show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("run ID is required\nUsage: punchscrape runs show [-config path] <run-id>")
	}

	// Parse UUID
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	store, err := openHistory(*configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	failures, err := store.ListFailures(id)
	if err != nil {
		return fmt.Errorf("failed to list failures: %w", err)
	}

	printRunDetail(w, run, failures)
	return nil
}
