// Package launcher runs external job processes and classifies their outcome.
//
// One process per invocation, launched synchronously: the caller blocks until
// the child exits while two drainer goroutines forward every stdout/stderr
// line to the log sink. Run never returns an error; every launch ends in
// exactly one SUCCESS or FAILURE outcome.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shahjs01/kylo/pkg/jobregistry"
)

// State is the terminal classification of one execution.
type State string

const (
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Spec describes a ready-to-launch external process.
//
// MaskedCommand is the loggable rendering of the invocation; it is what
// reaches the job registry and the logs. Args carry the real values.
// JobID, when set, is used as the execution's correlation ID; otherwise one
// is generated.
type Spec struct {
	JobID         string
	Name          string
	Kind          jobregistry.JobKind
	Path          string
	Args          []string
	Env           []string
	Dir           string
	MaskedCommand string
}

// Outcome is created when the launcher observes process termination (or a
// launch failure) and consumed once by the caller's outcome routing.
type Outcome struct {
	JobID    string
	State    State
	ExitCode int
	Err      error
}

// Succeeded reports whether the execution ended with exit code 0.
func (o Outcome) Succeeded() bool { return o.State == StateSuccess }

// Launcher launches external processes and records executions in the job
// registry when one is configured.
type Launcher struct {
	log      *zap.Logger
	registry *jobregistry.Store
}

func New(log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{log: log}
}

// WithRegistry enables per-execution job records under the store's root.
func (l *Launcher) WithRegistry(store *jobregistry.Store) *Launcher {
	l.registry = store
	return l
}

// Run launches the process described by spec and blocks until it exits.
//
// Both output streams are drained concurrently; the drainers are joined
// before the outcome is returned, so every line the child wrote has reached
// the log sink by then. Context cancellation while waiting is classified as
// FAILURE but does not kill the child; its fate is left with the operating
// system (known limitation). No timeout is enforced on the child.
func (l *Launcher) Run(ctx context.Context, spec Spec) Outcome {
	jobID := spec.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}
	log := l.log.With(zap.String("job_id", jobID), zap.String("job_name", spec.Name))

	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Env = spec.Env
	cmd.Dir = spec.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return l.finish(jobID, spec, nil, Outcome{JobID: jobID, State: StateFailure, ExitCode: -1, Err: err}, log)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return l.finish(jobID, spec, nil, Outcome{JobID: jobID, State: StateFailure, ExitCode: -1, Err: err}, log)
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to start external process", zap.String("path", spec.Path), zap.Error(err))
		return l.finish(jobID, spec, nil, Outcome{JobID: jobID, State: StateFailure, ExitCode: -1, Err: err}, log)
	}

	started := l.writeRunning(jobID, spec, cmd.Process.Pid, log)

	var drains sync.WaitGroup
	drains.Add(2)
	go l.drain(&drains, "stdout", stdout, log)
	go l.drain(&drains, "stderr", stderr, log)

	log.Info("Waiting for external job to complete", zap.Int("pid", cmd.Process.Pid))

	waitCh := make(chan error, 1)
	go func() {
		// Drainers must hit EOF before Wait closes the pipes.
		drains.Wait()
		waitCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		log.Warn("Interrupted while waiting for external job", zap.Error(ctx.Err()))
		return l.finish(jobID, spec, started, Outcome{JobID: jobID, State: StateFailure, ExitCode: -1, Err: ctx.Err()}, log)
	case waitErr := <-waitCh:
		outcome := classify(jobID, waitErr)
		if outcome.Succeeded() {
			log.Info("Completed with status", zap.Int("exit_code", outcome.ExitCode))
		} else {
			log.Info("Completed with failed status", zap.Int("exit_code", outcome.ExitCode), zap.Error(outcome.Err))
		}
		return l.finish(jobID, spec, started, outcome, log)
	}
}

func classify(jobID string, waitErr error) Outcome {
	if waitErr == nil {
		return Outcome{JobID: jobID, State: StateSuccess, ExitCode: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return Outcome{JobID: jobID, State: StateFailure, ExitCode: exitErr.ExitCode(), Err: waitErr}
	}
	return Outcome{JobID: jobID, State: StateFailure, ExitCode: -1, Err: waitErr}
}

// drain forwards every line of one stream to the log sink at INFO until the
// stream closes. The two drainers share nothing but the sink.
func (l *Launcher) drain(wg *sync.WaitGroup, stream string, r io.Reader, log *zap.Logger) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		log.Info(scanner.Text(), zap.String("stream", stream))
	}
	if err := scanner.Err(); err != nil {
		log.Warn("Stream drain ended with error", zap.String("stream", stream), zap.Error(err))
	}
}

// writeRunning records the execution start; registry failures never affect
// the launch.
func (l *Launcher) writeRunning(jobID string, spec Spec, pid int, log *zap.Logger) *jobregistry.JobRecord {
	if l.registry == nil {
		return nil
	}
	now := time.Now().UTC()
	rec := &jobregistry.JobRecord{
		JobID:     jobID,
		Name:      spec.Name,
		Kind:      spec.Kind,
		State:     jobregistry.JobStateRunning,
		Command:   spec.MaskedCommand,
		PID:       pid,
		CreatedAt: now,
		StartedAt: &now,
	}
	if err := l.registry.Write(rec); err != nil {
		log.Warn("Failed to write job record", zap.Error(err))
		return nil
	}
	return rec
}

func (l *Launcher) finish(jobID string, spec Spec, started *jobregistry.JobRecord, outcome Outcome, log *zap.Logger) Outcome {
	if l.registry == nil {
		return outcome
	}

	rec := started
	if rec == nil {
		now := time.Now().UTC()
		rec = &jobregistry.JobRecord{
			JobID:     jobID,
			Name:      spec.Name,
			Kind:      spec.Kind,
			Command:   spec.MaskedCommand,
			CreatedAt: now,
		}
	}

	ended := time.Now().UTC()
	rec.EndedAt = &ended
	exit := outcome.ExitCode
	rec.ExitCode = &exit
	if outcome.Succeeded() {
		rec.State = jobregistry.JobStateSuccess
	} else {
		rec.State = jobregistry.JobStateFailed
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	if err := l.registry.Write(rec); err != nil {
		log.Warn("Failed to update job record", zap.Error(err))
	}
	return outcome
}
