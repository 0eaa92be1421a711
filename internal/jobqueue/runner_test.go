package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pgexport/internal/common"
)

// fakeExporter records calls and fails for names registered in failWith.
type fakeExporter struct {
	calls    []string
	failWith map[string]error
}

func (f *fakeExporter) Export(_ context.Context, query, name string) (int, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.failWith[name]; ok {
		return 0, err
	}
	return 1, nil
}

// writeWorkbook builds a jobs workbook with a header row and the given
// (query, csv_name, status) rows.
func writeWorkbook(t *testing.T, rows [][3]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range []string{"query", "csv_name", "status"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

// statusCells reopens the persisted workbook and returns the status column
// for the given number of data rows.
func statusCells(t *testing.T, path string, n int) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		v, err := f.GetCellValue(sheet, fmt.Sprintf("C%d", i+2))
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func runQueue(t *testing.T, path string, exp *fakeExporter) Stats {
	t.Helper()
	store, err := Load(path, nil)
	require.NoError(t, err)
	defer store.Close()
	stats, err := NewRunner(store, exp, nil).Run(context.Background())
	require.NoError(t, err)
	return stats
}

func TestRunProcessesPendingJobs(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT 1", "one", ""},
		{"SELECT 2", "two", ""},
	})
	exp := &fakeExporter{}

	stats := runQueue(t, path, exp)

	assert.Equal(t, Stats{Scanned: 2, Done: 2}, stats)
	assert.Equal(t, []string{"one", "two"}, exp.calls, "jobs run sequentially in row order")
	assert.Equal(t, []string{"Done", "Done"}, statusCells(t, path, 2))
}

func TestRunSkipsRowsWithoutQuery(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"", "orphan-name", ""},
		{"SELECT 1", "one", ""},
	})
	exp := &fakeExporter{}

	stats := runQueue(t, path, exp)

	assert.Equal(t, Stats{Scanned: 2, Skipped: 1, Done: 1}, stats)
	assert.Equal(t, []string{"one"}, exp.calls)
	// the query-less row is not even marked
	assert.Equal(t, []string{"", "Done"}, statusCells(t, path, 2))
}

func TestRunMarksMissingNameWithoutExecuting(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT 1", "", ""},
	})
	exp := &fakeExporter{}

	stats := runQueue(t, path, exp)

	assert.Equal(t, Stats{Scanned: 1, Failed: 1}, stats)
	assert.Empty(t, exp.calls)
	assert.Equal(t, []string{"Error: CSV name missing"}, statusCells(t, path, 1))
}

func TestRunRecordsFailureAndContinues(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT broken", "bad", ""},
		{"SELECT 1", "good", ""},
	})
	exp := &fakeExporter{failWith: map[string]error{
		"bad": errors.New("relation does not exist"),
	}}

	stats := runQueue(t, path, exp)

	assert.Equal(t, Stats{Scanned: 2, Done: 1, Failed: 1}, stats)
	assert.Equal(t, []string{"bad", "good"}, exp.calls, "one bad query must not abort the batch")
	assert.Equal(t, []string{"Error: relation does not exist", "Done"}, statusCells(t, path, 2))
}

func TestRunIsIdempotent(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT 1", "one", ""},
		{"SELECT broken", "bad", ""},
	})
	first := &fakeExporter{failWith: map[string]error{"bad": errors.New("boom")}}
	runQueue(t, path, first)
	before := statusCells(t, path, 2)

	second := &fakeExporter{}
	stats := runQueue(t, path, second)

	assert.Empty(t, second.calls, "no job re-executes once terminal")
	assert.Equal(t, Stats{Scanned: 2, Skipped: 2}, stats)
	assert.Equal(t, before, statusCells(t, path, 2), "second run changes no status")
}

func TestRunReattemptsInterruptedJob(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT 1", "stale", "Processing"},
	})
	exp := &fakeExporter{}

	stats := runQueue(t, path, exp)

	assert.Equal(t, []string{"stale"}, exp.calls, "stale Processing means an interrupted run")
	assert.Equal(t, Stats{Scanned: 1, Done: 1}, stats)
	assert.Equal(t, []string{"Done"}, statusCells(t, path, 1))
}

func TestRunLeavesUnknownStatusAlone(t *testing.T) {
	path := writeWorkbook(t, [][3]string{
		{"SELECT 1", "held", "on hold per ops"},
	})
	exp := &fakeExporter{}

	stats := runQueue(t, path, exp)

	assert.Empty(t, exp.calls)
	assert.Equal(t, Stats{Scanned: 1, Skipped: 1}, stats)
	assert.Equal(t, []string{"on hold per ops"}, statusCells(t, path, 1))
}

func TestLoadMissingWorkbookIsStartupError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStartup))
}
