// Package cmd implements the kylo command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/shahjs01/kylo/internal/config"
	"github.com/shahjs01/kylo/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "kylo",
	Short: "Secure external job execution engine",
	Long: `kylo renders, launches, and tracks external data jobs.

An import job extracts a relational table into HDFS through a rendered
sqoop command; a spark job submits an application through spark-submit.
Jobs are declared in YAML or JSON manifests, authenticated against secured
clusters before launch, and recorded in a local job registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionInfo holds build-time version metadata, set via SetVersionInfo.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// runtimeConfig is resolved once per invocation in the persistent pre-run.
var runtimeConfig *config.Config

var (
	rootLogLevel   string
	rootLogProfile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Override log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&rootLogProfile, "log-profile", "", "Override log profile (STRUCTURED|console)")

	rootCmd.PersistentPreRunE = initRuntime
	rootCmd.Version = versionString()
}

// SetVersionInfo records build-time version metadata. Called from main with
// values injected via ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = versionString()
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
}

// initRuntime loads configuration and wires the process logger before any
// subcommand runs.
func initRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Failed to load configuration", err)
	}

	if rootLogLevel != "" {
		cfg.Logging.Level = rootLogLevel
	}
	if rootLogProfile != "" {
		cfg.Logging.Profile = rootLogProfile
	}

	if err := observability.Init(cfg.Logging.Level, cfg.Logging.Profile); err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid logging configuration", err)
	}

	runtimeConfig = cfg
	return nil
}

// Execute runs the CLI. Interrupt and termination signals cancel the command
// context so waiting commands can classify the interruption.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	return rootCmd.ExecuteContext(ctx)
}

// cliError carries a foundry exit code alongside the failure so main can use
// it as the process exit status.
type cliError struct {
	code    int
	message string
	err     error
}

func (e *cliError) Error() string {
	return fmt.Sprintf("%s: %v (exit code %d)", e.message, e.err, e.code)
}

func (e *cliError) Unwrap() error { return e.err }

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return &cliError{code: code, message: message, err: err}
}

// ExitCode returns the process exit status for err: the foundry code when err
// came from exitError, 1 for any other failure.
func ExitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
