package jobregistry

import "time"

// JobState is the lifecycle state of one external-job execution.
//
// NOTE: These values are persisted in job.json and are part of the stable
// on-disk contract.
type JobState string

const (
	JobStateRunning JobState = "running"
	JobStateSuccess JobState = "success"
	JobStateFailed  JobState = "failed"
	JobStateUnknown JobState = "unknown"
)

// JobKind identifies which external tool an execution launched.
type JobKind string

const (
	JobKindImport JobKind = "import"
	JobKindSpark  JobKind = "spark"
)

// JobRecord is the persistent record written to job.json.
//
// Command always holds the masked rendering; secrets never reach disk.
// The schema is designed for backward-compatible extension (additive fields).
type JobRecord struct {
	JobID     string    `json:"job_id"`
	Name      string    `json:"name,omitempty"`
	Kind      JobKind   `json:"kind"`
	State     JobState  `json:"state"`
	Command   string    `json:"command,omitempty"`
	PID       int       `json:"pid,omitempty"`
	ExitCode  *int      `json:"exit_code,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
