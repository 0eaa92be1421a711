package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"pgexport/internal/classify"
	"pgexport/internal/common"
	"pgexport/internal/export"
	"pgexport/internal/imagesink"
	"pgexport/internal/jobqueue"
	"pgexport/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		jobsPath = flag.String("jobs", "jobs.xlsx", "path to the job workbook")
	)
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			printError("Error: cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	// No workbook means no job source; that is the one fatal condition.
	store, err := jobqueue.Load(*jobsPath, logger)
	if err != nil {
		logger.Error("failed to open job workbook", "path", *jobsPath, "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	connector := repository.NewPostgresConnector(cfg.Database, logger)
	sink := imagesink.NewSink(cfg.Paths.ImagesDir, logger)
	classifier := classify.NewClassifier(sink, logger)
	exporter := export.NewService(connector, classifier, cfg.Paths.OutputDir, logger)

	runner := jobqueue.NewRunner(store, exporter, logger)
	stats, err := runner.Run(ctx)
	if err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete",
		"scanned", stats.Scanned,
		"skipped", stats.Skipped,
		"done", stats.Done,
		"failed", stats.Failed)

	fmt.Printf("Export run complete!\n")
	fmt.Printf("- Rows scanned: %d\n", stats.Scanned)
	fmt.Printf("- Skipped: %d\n", stats.Skipped)
	fmt.Printf("- Exported: %d\n", stats.Done)
	fmt.Printf("- Failed: %d\n", stats.Failed)
}
