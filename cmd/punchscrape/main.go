package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "crawl":
		os.Exit(handleCrawl(os.Args[2:]))
	case "runs":
		if len(os.Args) < 3 {
			printRunsUsage()
			os.Exit(1)
		}
		handleRunsCommand(os.Args[2], os.Args[3:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("punchscrape - Punch news section crawler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  punchscrape <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  crawl      Crawl every section and write recent articles")
	fmt.Println("  runs       Inspect the history of past crawls")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PUNCH_CONFIG         Path to YAML config file (default: punchscrape.yaml)")
	fmt.Println("  PUNCH_ROOT_URL       Homepage to crawl (default: https://punchng.com/)")
	fmt.Println("  PUNCH_OUTPUT_TYPE    Output type: csv or sqlite (default: csv)")
	fmt.Println("  PUNCH_OUTPUT_PATH    Output file (default: news_data.csv, news_data.db for sqlite)")
	fmt.Println("  PUNCH_HISTORY_DSN    Path to run history database (default: punchscrape.db)")
	fmt.Println("  PUNCH_LOG_LEVEL      Log level (default: info)")
	fmt.Println()
	fmt.Println("Variables may also be set in a .env file in the working directory.")
}
