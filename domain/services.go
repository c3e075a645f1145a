package domain

import "context"

// StatusService resolves feature ids to baseline support records.
//
// GetStatus never fails: it always returns a best-effort record carrying
// the requested id, with its Source tag indicating provenance. Implementations
// must bound their own concurrency against the remote service.
type StatusService interface {
	// GetStatus returns the support record for featureID
	GetStatus(ctx context.Context, featureID string) *StatusRecord

	// Close releases the underlying transport resources
	Close()
}

// ReportExporter serializes a report to a file path
type ReportExporter interface {
	// Export writes the report as JSON, creating parent directories
	Export(report *Report, path string) error
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress output is being rendered
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}
