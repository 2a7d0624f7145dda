// Package output provides JSONL output for job executions.
//
// Output is structured as typed record envelopes describing the rendered
// command, render diagnostics, and the final outcome. Each line is a
// self-contained JSON object that can be parsed independently, so downstream
// tooling can tail a job's output without buffering the whole run.
//
// Secrets never appear in records: the command record carries the masked
// rendering only.
package output

import (
	"encoding/json"
	"errors"
	"time"
)

// Record type constants define the envelope types for JSONL output.
// These follow the pattern: kylo.<type>.v<version>
const (
	// TypeCommand identifies rendered-command records.
	TypeCommand = "kylo.command.v1"

	// TypeDiagnostic identifies render diagnostic records.
	TypeDiagnostic = "kylo.diagnostic.v1"

	// TypeOutcome identifies final outcome records.
	TypeOutcome = "kylo.outcome.v1"

	// TypeError identifies error records.
	TypeError = "kylo.error.v1"
)

// Record is the envelope for all JSONL output.
//
// Each line of JSONL output contains a Record with a type-specific payload
// in the Data field. The type field determines how to interpret the Data
// payload.
type Record struct {
	// Type identifies the record type (e.g., "kylo.outcome.v1").
	Type string `json:"type"`

	// TS is the timestamp when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// JobID is the correlation ID for this execution.
	JobID string `json:"job_id"`

	// Kind identifies the job type ("import" or "spark").
	Kind string `json:"kind"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// CommandRecord is the data payload describing the command about to run.
//
// Command is always the masked rendering; credential values are replaced
// before the record is built.
type CommandRecord struct {
	// Name is the job name from the manifest.
	Name string `json:"name"`

	// Command is the masked command line.
	Command string `json:"command"`
}

// DiagnosticRecord is the data payload for a single render diagnostic.
//
// Diagnostics report configuration that was silently adjusted during
// rendering, such as an ignored non-positive mapper count.
type DiagnosticRecord struct {
	Message string `json:"message"`
}

// OutcomeRecord is the data payload for the final job outcome.
type OutcomeRecord struct {
	// Name is the job name from the manifest.
	Name string `json:"name"`

	// State is the terminal state: "success" or "failure".
	State string `json:"state"`

	// ExitCode is the child process exit code, or -1 when no process ran.
	ExitCode int `json:"exit_code"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration_ns"`

	// DurationHuman is a human-readable duration string.
	DurationHuman string `json:"duration"`

	// Error describes the failure, if any.
	Error string `json:"error,omitempty"`
}

// ErrorRecord is the data payload for errors outside the child process,
// such as manifest or security failures.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`
}

// Error codes for ErrorRecord.
const (
	// ErrCodeSecurity indicates cluster authentication failed.
	ErrCodeSecurity = "SECURITY_FAILED"

	// ErrCodeManifest indicates the manifest could not be loaded.
	ErrCodeManifest = "MANIFEST_INVALID"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal = "INTERNAL"
)

// Writer errors.
var (
	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("writer is closed")
)

// WriteError wraps errors that occur during write operations.
type WriteError struct {
	Op  string // Operation that failed (e.g., "marshal_data", "write")
	Err error  // Underlying error
}

func (e *WriteError) Error() string {
	return "output: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
