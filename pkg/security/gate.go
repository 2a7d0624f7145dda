// Package security decides whether an external job invocation must
// authenticate against the target cluster, and performs the authentication
// through an injected Authenticator. A Failed decision is terminal: the
// caller must route its unit of work to the failure path without launching
// the external process.
package security

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// State is the terminal position of the gate's decision machine.
type State string

const (
	// StateNotRequired: no credentials supplied, or the cluster reports
	// security disabled.
	StateNotRequired   State = "not_required"
	StateAuthenticated State = "authenticated"
	StateFailed        State = "failed"
)

// Decision is computed once per invocation.
type Decision struct {
	State  State
	Reason string
	Err    error
}

// Authenticated reports whether credential settings must be injected into
// the invocation.
func (d Decision) Authenticated() bool { return d.State == StateAuthenticated }

// Failed reports whether the invocation must be short-circuited.
func (d Decision) Failed() bool { return d.State == StateFailed }

// Credentials is the caller-supplied security configuration. ResourceConfig
// is a comma-separated list of cluster site files.
type Credentials struct {
	Principal      string
	Keytab         string
	ResourceConfig string
}

func (c Credentials) empty() bool {
	return strings.TrimSpace(c.Principal) == "" &&
		strings.TrimSpace(c.Keytab) == "" &&
		strings.TrimSpace(c.ResourceConfig) == ""
}

// ClusterConfig is the loaded cluster security configuration.
type ClusterConfig struct {
	// SecurityEnabled is true when the cluster enforces authentication.
	SecurityEnabled bool
	// Properties holds the raw site-file properties for diagnostics.
	Properties map[string]string
}

// ConfigLoader loads cluster configuration from resource file paths.
type ConfigLoader interface {
	Load(ctx context.Context, resourcePaths []string) (*ClusterConfig, error)
}

// Authenticator performs the credential handshake. The protocol itself lives
// outside this module.
type Authenticator interface {
	Authenticate(ctx context.Context, principal string, keytab string) error
}

// Gate is the authentication decision machine guarding process launch.
type Gate struct {
	loader ConfigLoader
	auth   Authenticator
	log    *zap.Logger
}

func NewGate(loader ConfigLoader, auth Authenticator, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{loader: loader, auth: auth, log: log}
}

// Check runs the decision machine for one invocation:
//
//   - all credential fields empty: NotRequired, proceed unauthenticated
//   - resource config loads and reports security disabled: NotRequired even
//     when a principal/keytab was supplied (long-standing behavior, kept)
//   - security enabled with principal or keytab missing: Failed
//   - authentication error: Failed with the underlying error
//   - otherwise: Authenticated
func (g *Gate) Check(ctx context.Context, creds Credentials) Decision {
	if creds.empty() {
		g.log.Debug("No security credentials supplied; skipping authentication")
		return Decision{State: StateNotRequired}
	}

	paths := splitResourcePaths(creds.ResourceConfig)
	cfg, err := g.loader.Load(ctx, paths)
	if err != nil {
		g.log.Error("Failed to load cluster security configuration", zap.Error(err))
		return Decision{
			State:  StateFailed,
			Reason: fmt.Sprintf("load cluster configuration: %v", err),
			Err:    err,
		}
	}

	if !cfg.SecurityEnabled {
		g.log.Info("Cluster reports security disabled; proceeding unauthenticated")
		return Decision{State: StateNotRequired}
	}

	if strings.TrimSpace(creds.Principal) == "" || strings.TrimSpace(creds.Keytab) == "" {
		g.log.Error("Principal or keytab missing on a security-enabled cluster")
		return Decision{State: StateFailed, Reason: "missing credentials"}
	}

	g.log.Info("User authentication initiated", zap.String("principal", creds.Principal))
	if err := g.auth.Authenticate(ctx, creds.Principal, creds.Keytab); err != nil {
		g.log.Error("User authentication failed", zap.Error(err))
		return Decision{
			State:  StateFailed,
			Reason: fmt.Sprintf("authentication failed: %v", err),
			Err:    err,
		}
	}

	g.log.Info("User authenticated successfully", zap.String("principal", creds.Principal))
	return Decision{State: StateAuthenticated}
}

func splitResourcePaths(resourceConfig string) []string {
	var paths []string
	for _, p := range strings.Split(resourceConfig, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
