// Package export streams query results into CSV files, one artifact per job.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pgexport/internal/classify"
	"pgexport/internal/common"
	"pgexport/internal/repository"
)

// BatchSize is the number of rows between CSV flushes. Fetching and writing
// in bounded batches keeps peak memory flat regardless of result-set size,
// and a crash mid-export leaves a valid CSV up to the last flushed batch.
const BatchSize = 5000

// Service executes one query per call and writes output/<name>.csv.
type Service struct {
	connector  repository.Connector
	classifier *classify.Classifier
	outputDir  string
	logger     *slog.Logger
}

func NewService(connector repository.Connector, classifier *classify.Classifier, outputDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{connector: connector, classifier: classifier, outputDir: outputDir, logger: logger}
}

// Export runs the query on a fresh connection and streams the result into
// output/<name>.csv: header first, then one line per row in driver order.
// Returns the number of data rows written. The connection, the rows handle
// and the file are closed on every exit path.
func (s *Service) Export(ctx context.Context, query, name string) (int, error) {
	start := time.Now()

	db, err := s.connector.Connect(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, common.NewAppError("QUERY_FAILED", err.Error(), common.ErrQuery)
	}
	defer rows.Close()

	// Column schema is fixed for the duration of this execution.
	columns, err := rows.Columns()
	if err != nil {
		return 0, common.NewAppError("QUERY_FAILED", err.Error(), common.ErrQuery)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.outputDir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	record := make([]string, len(columns))

	count := 0
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return count, common.NewAppError("QUERY_FAILED", err.Error(), common.ErrQuery)
		}
		for i, col := range columns {
			cell, err := s.classifier.Classify(classify.FromDriver(values[i]), col)
			if err != nil {
				return count, err
			}
			record[i] = cell
		}
		if err := w.Write(record); err != nil {
			return count, fmt.Errorf("write row: %w", err)
		}
		count++
		if count%BatchSize == 0 {
			w.Flush()
			if err := w.Error(); err != nil {
				return count, fmt.Errorf("flush csv: %w", err)
			}
			s.logger.Debug("batch flushed", "name", name, "rows", count)
		}
	}
	if err := rows.Err(); err != nil {
		return count, common.NewAppError("QUERY_FAILED", err.Error(), common.ErrQuery)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return count, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("export.csv.ok",
		"name", name,
		"rows", count,
		"path", path,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return count, nil
}
