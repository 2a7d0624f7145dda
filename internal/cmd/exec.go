package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shahjs01/kylo/internal/config"
	"github.com/shahjs01/kylo/internal/observability"
	"github.com/shahjs01/kylo/pkg/jobregistry"
	"github.com/shahjs01/kylo/pkg/launcher"
	"github.com/shahjs01/kylo/pkg/manifest"
	"github.com/shahjs01/kylo/pkg/output"
	"github.com/shahjs01/kylo/pkg/pipeline"
	"github.com/shahjs01/kylo/pkg/security"
)

// loadJobManifest loads the manifest and folds in process configuration
// defaults for fields the manifest leaves unset.
func loadJobManifest(path string) (*manifest.Manifest, error) {
	m, err := manifest.Load(path)
	if err != nil {
		observability.CLILogger.Error("Failed to load manifest",
			zap.String("path", path),
			zap.Error(err))
		return nil, exitError(foundry.ExitInvalidArgument, "Invalid manifest", err)
	}
	applyConfigDefaults(m, runtimeConfig)
	return m, nil
}

// applyConfigDefaults fills manifest fields left at their defaults from the
// process configuration. Manifest values always win.
func applyConfigDefaults(m *manifest.Manifest, cfg *config.Config) {
	if cfg == nil {
		return
	}

	if m.Import != nil {
		if m.Import.SystemPath == manifest.DefaultSystemPath && cfg.Sqoop.SystemPath != "" {
			m.Import.SystemPath = cfg.Sqoop.SystemPath
		}
		if m.Import.Mappers == manifest.DefaultMappers && cfg.Sqoop.DefaultMappers > 0 {
			m.Import.Mappers = cfg.Sqoop.DefaultMappers
		}
	}

	if m.Spark != nil {
		sp := m.Spark
		if sp.Master == "" {
			sp.Master = cfg.Spark.Master
		}
		if sp.SparkHome == "" {
			sp.SparkHome = cfg.Spark.Home
		}
		if sp.DriverMemory == "" {
			sp.DriverMemory = cfg.Spark.DriverMemory
		}
		if sp.ExecutorMemory == "" {
			sp.ExecutorMemory = cfg.Spark.ExecutorMemory
		}
		if sp.NumExecutors == "" && cfg.Spark.NumExecutors > 0 {
			sp.NumExecutors = fmt.Sprintf("%d", cfg.Spark.NumExecutors)
		}
		if sp.ExecutorCores == "" && cfg.Spark.ExecutorCores > 0 {
			sp.ExecutorCores = fmt.Sprintf("%d", cfg.Spark.ExecutorCores)
		}
		if sp.NetworkTimeout == "" && cfg.Spark.NetworkTimeout > 0 {
			sp.NetworkTimeout = fmt.Sprintf("%ds", int(cfg.Spark.NetworkTimeout.Seconds()))
		}
	}
}

// newEngine assembles the execution engine: security gate, launcher, and the
// job registry under the configured root.
func newEngine(log *zap.Logger) *pipeline.Engine {
	gate := security.NewGate(security.NewSiteFileLoader(), &security.KinitAuthenticator{Log: log}, log)

	l := launcher.New(log)
	if runtimeConfig != nil && runtimeConfig.Registry.Root != "" {
		l.WithRegistry(jobregistry.NewStore(runtimeConfig.Registry.Root))
	}

	return pipeline.NewEngine(gate, l, log)
}

// executeJob runs the job described by the manifest and streams JSONL records
// to the destination. renderOnly prints the masked command without launching.
func executeJob(ctx context.Context, m *manifest.Manifest, renderOnly bool, dest string) error {
	log := observability.CLILogger
	jobID := uuid.New().String()

	masked, diags, err := renderManifest(m, log)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Failed to render command", err)
	}

	if renderOnly {
		for _, d := range diags {
			log.Warn("Render diagnostic", zap.String("diagnostic", d))
		}
		fmt.Println(masked)
		return nil
	}

	writer, cleanup, err := createWriter(dest, jobID, m.Kind)
	if err != nil {
		log.Error("Failed to create writer", zap.Error(err))
		return exitError(foundry.ExitFileWriteError, "Failed to create output", err)
	}
	defer cleanup()

	if err := writer.WriteCommand(ctx, &output.CommandRecord{Name: m.Name, Command: masked}); err != nil {
		log.Warn("Failed to write command record", zap.Error(err))
	}
	for _, d := range diags {
		if err := writer.WriteDiagnostic(ctx, &output.DiagnosticRecord{Message: d}); err != nil {
			log.Warn("Failed to write diagnostic record", zap.Error(err))
		}
	}

	log.Info("Starting job",
		zap.String("job_id", jobID),
		zap.String("name", m.Name),
		zap.String("kind", m.Kind))

	engine := newEngine(log)
	creds := m.Credentials()
	start := time.Now()

	var outcome launcher.Outcome
	switch m.Kind {
	case manifest.KindImport:
		b, berr := m.ImportBuilder(log)
		if berr != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid manifest", berr)
		}
		outcome = engine.ExecuteImport(ctx, jobID, b, creds, nil)
	case manifest.KindSpark:
		b, berr := m.SparkBuilder(log)
		if berr != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid manifest", berr)
		}
		outcome = engine.ExecuteSpark(ctx, jobID, b, creds, nil)
	default:
		return exitError(foundry.ExitInvalidArgument, "Invalid manifest", fmt.Errorf("unsupported job kind: %s", m.Kind))
	}

	duration := time.Since(start)
	rec := &output.OutcomeRecord{
		Name:          m.Name,
		State:         string(outcome.State),
		ExitCode:      outcome.ExitCode,
		Duration:      duration,
		DurationHuman: duration.Round(time.Millisecond).String(),
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	if err := writer.WriteOutcome(ctx, rec); err != nil {
		log.Warn("Failed to write outcome record", zap.Error(err))
	}

	if !outcome.Succeeded() {
		failErr := outcome.Err
		if failErr == nil {
			failErr = fmt.Errorf("exit code %d", outcome.ExitCode)
		}
		if ctx.Err() != nil {
			log.Warn("Job interrupted",
				zap.String("job_id", outcome.JobID),
				zap.Error(failErr))
			return exitError(foundry.ExitSignalInt, "Job interrupted", failErr)
		}
		log.Error("Job failed",
			zap.String("job_id", outcome.JobID),
			zap.Int("exit_code", outcome.ExitCode),
			zap.Error(failErr))
		return exitError(foundry.ExitExternalServiceUnavailable, "Job failed", failErr)
	}

	log.Info("Job completed",
		zap.String("job_id", outcome.JobID),
		zap.Int("exit_code", outcome.ExitCode),
		zap.Duration("duration", duration))
	return nil
}

// renderManifest produces the masked command line for the manifest's job
// kind, plus any render diagnostics.
func renderManifest(m *manifest.Manifest, log *zap.Logger) (string, []string, error) {
	switch m.Kind {
	case manifest.KindImport:
		b, err := m.ImportBuilder(log)
		if err != nil {
			return "", nil, err
		}
		rendered := b.Build()
		return rendered.Masked(), rendered.Diagnostics(), nil
	case manifest.KindSpark:
		b, err := m.SparkBuilder(log)
		if err != nil {
			return "", nil, err
		}
		inv := b.Build()
		return inv.SubmitPath() + " " + strings.Join(inv.Argv(), " "), nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported job kind: %s", m.Kind)
	}
}

// createWriter creates an output writer for the destination.
// Returns the writer, a cleanup function, and any error.
func createWriter(dest, jobID, kind string) (output.Writer, func(), error) {
	if dest == "" || dest == "stdout" {
		w := output.NewJSONLWriter(os.Stdout, jobID, kind)
		return w, func() { _ = w.Close() }, nil
	}

	path := strings.TrimPrefix(dest, "file:")

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	w := output.NewJSONLWriter(f, jobID, kind)
	cleanup := func() {
		_ = w.Close()
		_ = f.Close()
	}
	return w, cleanup, nil
}
