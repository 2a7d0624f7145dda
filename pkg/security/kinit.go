package security

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// KinitAuthenticator obtains a ticket by shelling out to kinit with the
// supplied keytab and principal. The Kerberos handshake itself stays in the
// external tool; this wrapper only interprets its exit status.
type KinitAuthenticator struct {
	// Path is the kinit executable; defaults to "kinit" on PATH.
	Path string
	// Timeout bounds one authentication attempt.
	Timeout time.Duration

	Log *zap.Logger
}

const defaultKinitTimeout = 30 * time.Second

func (a *KinitAuthenticator) Authenticate(ctx context.Context, principal string, keytab string) error {
	path := a.Path
	if path == "" {
		path = "kinit"
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultKinitTimeout
	}
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-kt", keytab, principal)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("kinit failed",
			zap.String("principal", principal),
			zap.String("output", strings.TrimSpace(string(out))),
			zap.Error(err))
		return fmt.Errorf("kinit for %s: %w", principal, err)
	}

	log.Debug("kinit succeeded", zap.String("principal", principal))
	return nil
}
