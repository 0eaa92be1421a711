package constants

import "strings"

// JobStatus is the canonical status text written to a job row's status cell.
type JobStatus string

// Stable values (store these exact strings in the workbook).
const (
	JobStatusProcessing JobStatus = "Processing" // export in progress; stale value means an interrupted run
	JobStatusDone       JobStatus = "Done"       // terminal success
	JobStatusError      JobStatus = "Error"      // terminal failure; cell holds "Error: <message>"
)

// ErrorStatus formats a terminal failure status with its message.
func ErrorStatus(message string) string {
	return string(JobStatusError) + ": " + message
}

// IsTerminal reports whether a status cell value ends a job's lifecycle.
// Done and Error are terminal; so is any other non-empty text we did not
// write, since clobbering it would lose operator notes. A stale Processing
// marks an interrupted run and is re-attempted.
func IsTerminal(status string) bool {
	s := strings.TrimSpace(status)
	if s == "" || s == string(JobStatusProcessing) {
		return false
	}
	return true
}
