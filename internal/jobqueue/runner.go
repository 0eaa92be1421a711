package jobqueue

import (
	"context"
	"log/slog"

	"pgexport/constants"
)

// Exporter runs one query and writes its CSV, returning the row count. Any
// error it returns is converted to an Error status at the job boundary and
// never aborts the run.
type Exporter interface {
	Export(ctx context.Context, query, name string) (int, error)
}

// Stats summarizes one run over the queue.
type Stats struct {
	Scanned int
	Skipped int
	Done    int
	Failed  int
}

// Runner drives the per-row state machine:
//
//	empty/Processing -> Processing -> Done | Error(msg)
//
// Jobs execute strictly sequentially in row order, and the workbook is
// persisted after every transition so a crash leaves at most one row in
// Processing.
type Runner struct {
	store    *Store
	exporter Exporter
	logger   *slog.Logger
}

func NewRunner(store *Store, exporter Exporter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, exporter: exporter, logger: logger}
}

const msgNameMissing = "CSV name missing"

// Run processes every pending job. Per-job failures are recorded in the
// status cell and the run continues; only store failures (the queue
// artifact itself) abort, since without durable transitions the recovery
// contract is void.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	jobs, err := r.store.Jobs()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, job := range jobs {
		stats.Scanned++

		if job.Query == "" {
			// Not a job at all; leave the row untouched.
			stats.Skipped++
			continue
		}
		if constants.IsTerminal(job.Status) {
			stats.Skipped++
			continue
		}
		if job.Status == string(constants.JobStatusProcessing) {
			r.logger.Warn("re-attempting interrupted job", "row", job.RowID, "name", job.CSVName)
		}
		if job.CSVName == "" {
			if err := r.transition(job.RowID, constants.ErrorStatus(msgNameMissing)); err != nil {
				return stats, err
			}
			stats.Failed++
			continue
		}

		// Mark Processing before running so a crash mid-export is
		// distinguishable from never-attempted on the next run.
		if err := r.transition(job.RowID, string(constants.JobStatusProcessing)); err != nil {
			return stats, err
		}

		r.logger.Info("job started", "row", job.RowID, "name", job.CSVName)
		rows, exportErr := r.exporter.Export(ctx, job.Query, job.CSVName)
		if exportErr != nil {
			r.logger.Error("job failed", "row", job.RowID, "name", job.CSVName, "error", exportErr)
			if err := r.transition(job.RowID, constants.ErrorStatus(exportErr.Error())); err != nil {
				return stats, err
			}
			stats.Failed++
			continue
		}

		if err := r.transition(job.RowID, string(constants.JobStatusDone)); err != nil {
			return stats, err
		}
		r.logger.Info("job finished", "row", job.RowID, "name", job.CSVName, "rows", rows)
		stats.Done++
	}
	return stats, nil
}

// transition writes one status cell and persists the workbook immediately.
func (r *Runner) transition(rowID int, status string) error {
	if err := r.store.SetStatus(rowID, status); err != nil {
		return err
	}
	return r.store.Persist()
}
