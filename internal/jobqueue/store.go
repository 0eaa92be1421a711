// Package jobqueue treats a spreadsheet as a persistent job queue: each row
// names a query, a target CSV name, and a status cell that records progress
// across process restarts.
package jobqueue

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"pgexport/internal/common"
)

// Job is one queued export task. Identity is the row position in the
// backing sheet; rows are mutated in place (status only) and never deleted.
type Job struct {
	RowID   int // 1-based sheet row
	Query   string
	CSVName string
	Status  string
}

// Store is the loaded snapshot of the workbook plus the handle needed to
// write status transitions back. It is the only shared mutable artifact in
// the system and is persisted after every transition.
type Store struct {
	f      *excelize.File
	path   string
	sheet  string
	logger *slog.Logger

	colQuery  int
	colName   int
	colStatus int
}

// Default column layout when the header row carries no recognizable names.
const (
	defaultColQuery  = 1
	defaultColName   = 2
	defaultColStatus = 3
)

// Load opens the workbook and resolves the query/csv_name/status columns
// from the header row. A missing or unreadable workbook is a startup
// failure: no job may run without a job source.
func Load(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("JOB_SOURCE", "cannot open job workbook "+path, common.ErrStartup)
	}
	s := &Store{
		f:         f,
		path:      path,
		sheet:     f.GetSheetName(0),
		logger:    logger,
		colQuery:  defaultColQuery,
		colName:   defaultColName,
		colStatus: defaultColStatus,
	}
	s.resolveColumns()
	logger.Info("job workbook loaded", "path", path, "sheet", s.sheet)
	return s, nil
}

// resolveColumns matches header cells case-insensitively; unmatched columns
// keep the A/B/C defaults.
func (s *Store) resolveColumns() {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil || len(rows) == 0 {
		return
	}
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "query", "sql":
			s.colQuery = i + 1
		case "csv_name", "csv name", "name", "output":
			s.colName = i + 1
		case "status":
			s.colStatus = i + 1
		}
	}
}

// Jobs returns every data row in sheet order. Cells beyond a row's ragged
// end read as empty.
func (s *Store) Jobs() ([]Job, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, common.WrapError(err, "read job rows")
	}
	jobs := make([]Job, 0, len(rows))
	for i := 1; i < len(rows); i++ { // skip header
		row := rows[i]
		jobs = append(jobs, Job{
			RowID:   i + 1,
			Query:   strings.TrimSpace(cellAt(row, s.colQuery)),
			CSVName: strings.TrimSpace(cellAt(row, s.colName)),
			Status:  strings.TrimSpace(cellAt(row, s.colStatus)),
		})
	}
	return jobs, nil
}

func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// SetStatus writes a job's status cell in the loaded snapshot. Call Persist
// to make the transition durable.
func (s *Store) SetStatus(rowID int, status string) error {
	cell, err := excelize.CoordinatesToCellName(s.colStatus, rowID)
	if err != nil {
		return err
	}
	return s.f.SetCellValue(s.sheet, cell, status)
}

// Persist writes the workbook back to disk. Called after every single
// status transition so an interruption loses at most one job's state.
func (s *Store) Persist() error {
	if err := s.f.Save(); err != nil {
		return common.WrapError(err, "persist job workbook")
	}
	return nil
}

func (s *Store) Close() error {
	return s.f.Close()
}
