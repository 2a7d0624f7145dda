package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shahjs01/kylo/pkg/jobregistry"
	"github.com/shahjs01/kylo/pkg/launcher"
	"github.com/shahjs01/kylo/pkg/security"
	"github.com/shahjs01/kylo/pkg/spark"
	"github.com/shahjs01/kylo/pkg/sqoop"
)

// Shell runs rendered command strings; sqoop invocations go through it so
// the rendered quoting is tokenized exactly once, by the shell itself.
const Shell = "/bin/sh"

// Engine executes import and spark jobs end to end: security gate, build,
// launch, outcome routing.
type Engine struct {
	gate     *security.Gate
	launcher *launcher.Launcher
	log      *zap.Logger
}

func NewEngine(gate *security.Gate, l *launcher.Launcher, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{gate: gate, launcher: l, log: log}
}

// ExecuteImport renders the sqoop command and runs it. The unit of work is
// routed exactly once; security failures short-circuit before any process
// is launched. jobID is the execution correlation ID; pass "" to have one
// generated.
func (e *Engine) ExecuteImport(ctx context.Context, jobID string, b *sqoop.Builder, creds security.Credentials, uow UnitOfWork) (outcome launcher.Outcome) {
	defer e.route(uow, &outcome)

	if d := e.checkSecurity(ctx, creds); d.Failed() {
		return securityFailure(jobID, d)
	}

	rendered := b.Build()
	for _, diag := range rendered.Diagnostics() {
		e.log.Warn("Import command diagnostic", zap.String("diagnostic", diag))
	}
	e.log.Info("Executing import job", zap.String("command", rendered.Masked()))

	return e.launcher.Run(ctx, launcher.Spec{
		JobID:         jobID,
		Name:          b.JobName(),
		Kind:          jobregistry.JobKindImport,
		Path:          Shell,
		Args:          []string{"-c", rendered.Command()},
		MaskedCommand: rendered.Masked(),
	})
}

// ExecuteSpark runs a spark job through spark-submit. When the gate reports
// Authenticated, the principal and keytab are injected into the invocation's
// runtime settings before building.
func (e *Engine) ExecuteSpark(ctx context.Context, jobID string, b *spark.Builder, creds security.Credentials, uow UnitOfWork) (outcome launcher.Outcome) {
	defer e.route(uow, &outcome)

	d := e.checkSecurity(ctx, creds)
	if d.Failed() {
		return securityFailure(jobID, d)
	}
	if d.Authenticated() {
		b.SetAuthenticated(creds.Principal, creds.Keytab)
	}

	inv := b.Build()
	argv := inv.Argv()
	e.log.Info("Executing spark job",
		zap.String("app_name", inv.AppName()),
		zap.String("submit", inv.SubmitPath()),
		zap.Strings("argv", argv))

	return e.launcher.Run(ctx, launcher.Spec{
		JobID:         jobID,
		Name:          inv.AppName(),
		Kind:          jobregistry.JobKindSpark,
		Path:          inv.SubmitPath(),
		Args:          argv,
		MaskedCommand: inv.SubmitPath() + " " + strings.Join(argv, " "),
	})
}

// checkSecurity applies the gate; a nil gate means no security subsystem is
// wired and authentication is never required.
func (e *Engine) checkSecurity(ctx context.Context, creds security.Credentials) security.Decision {
	if e.gate == nil {
		return security.Decision{State: security.StateNotRequired}
	}
	return e.gate.Check(ctx, creds)
}

// route hands the unit of work to exactly one outcome. A panic anywhere in
// the execution path is converted to a failure outcome rather than escaping
// the engine boundary.
func (e *Engine) route(uow UnitOfWork, outcome *launcher.Outcome) {
	if r := recover(); r != nil {
		e.log.Error("Recovered from panic during job execution", zap.Any("panic", r))
		*outcome = launcher.Outcome{
			State:    launcher.StateFailure,
			ExitCode: -1,
			Err:      fmt.Errorf("job execution panic: %v", r),
		}
	}
	if uow == nil {
		return
	}
	if outcome.Succeeded() {
		uow.RouteSuccess()
	} else {
		uow.RouteFailure()
	}
}

func securityFailure(jobID string, d security.Decision) launcher.Outcome {
	err := d.Err
	if err == nil {
		err = errors.New(d.Reason)
	}
	return launcher.Outcome{JobID: jobID, State: launcher.StateFailure, ExitCode: -1, Err: err}
}
