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
	"pgexport/internal/naming"
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
		file = flag.String("file", "query.sql", "path to the SQL file to run")
		name = flag.String("name", "", "output CSV name (optional, derived from the query when empty)")
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

	queryBytes, err := os.ReadFile(*file)
	if err != nil {
		printError("Error: cannot read query file: %v\n", err)
		os.Exit(1)
	}
	query := string(queryBytes)

	csvName := *name
	if csvName == "" {
		csvName = naming.Derive(query)
	}
	csvName = naming.EnsureUnique(csvName, cfg.Paths.OutputDir)

	connector := repository.NewPostgresConnector(cfg.Database, logger)
	sink := imagesink.NewSink(cfg.Paths.ImagesDir, logger)
	classifier := classify.NewClassifier(sink, logger)
	exporter := export.NewService(connector, classifier, cfg.Paths.OutputDir, logger)

	rows, err := exporter.Export(ctx, query, csvName)
	if err != nil {
		logger.Error("export failed", "name", csvName, "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("CSV created: %s/%s.csv (%d rows)\n", cfg.Paths.OutputDir, csvName, rows)
}
