// Package spark builds ready-to-launch spark-submit invocations from typed
// options. The builder performs no I/O; turning an Invocation into a running
// process is the launcher's job.
package spark

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Runtime setting keys passed through --conf.
const (
	ConfDriverMemory      = "spark.driver.memory"
	ConfExecutorMemory    = "spark.executor.memory"
	ConfExecutorInstances = "spark.executor.instances"
	ConfExecutorCores     = "spark.executor.cores"
	ConfNetworkTimeout    = "spark.network.timeout"
	ConfYarnKeytab        = "spark.yarn.keytab"
	ConfYarnPrincipal     = "spark.yarn.principal"
)

// Builder accumulates options for one spark-submit invocation. Setters are
// order-insensitive; conf entries render in a fixed order so identical
// option sets always build identical invocations.
type Builder struct {
	log *zap.Logger

	appResource string
	mainClass   string
	master      string
	appName     string
	sparkHome   string

	driverMemory   string
	executorMemory string
	numExecutors   string
	executorCores  string
	networkTimeout string

	args []string

	principal string
	keytab    string
	authed    bool

	extraConf []confEntry
}

type confEntry struct {
	key   string
	value string
}

func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// SetAppResource sets the path to the artifact containing the job.
func (b *Builder) SetAppResource(path string) *Builder {
	b.appResource = strings.TrimSpace(path)
	return b
}

// SetMainClass sets the qualified entry-point class.
func (b *Builder) SetMainClass(class string) *Builder {
	b.mainClass = strings.TrimSpace(class)
	return b
}

// SetMaster sets the cluster target (local, yarn, ...).
func (b *Builder) SetMaster(master string) *Builder {
	b.master = strings.TrimSpace(master)
	return b
}

// SetAppName sets the application name shown in the cluster UI.
func (b *Builder) SetAppName(name string) *Builder {
	b.appName = name
	return b
}

// SetSparkHome sets the installation directory holding bin/spark-submit.
func (b *Builder) SetSparkHome(home string) *Builder {
	b.sparkHome = home
	return b
}

func (b *Builder) SetDriverMemory(mem string) *Builder {
	b.driverMemory = mem
	return b
}

func (b *Builder) SetExecutorMemory(mem string) *Builder {
	b.executorMemory = mem
	return b
}

func (b *Builder) SetNumExecutors(n string) *Builder {
	b.numExecutors = n
	return b
}

func (b *Builder) SetExecutorCores(n string) *Builder {
	b.executorCores = n
	return b
}

// SetNetworkTimeout configures the external tool's internal socket timeout.
// It does not bound the launcher's wait on the child process.
func (b *Builder) SetNetworkTimeout(timeout string) *Builder {
	b.networkTimeout = timeout
	return b
}

// SetMainArgs splits a comma-separated argument list into application args.
// The split performs no further escaping; arguments containing commas cannot
// be expressed. Known limitation, kept for compatibility with existing job
// definitions.
func (b *Builder) SetMainArgs(args string) *Builder {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		b.args = nil
		return b
	}
	b.args = strings.Split(trimmed, ",")
	return b
}

// SetAuthenticated injects the Kerberos principal and keytab runtime
// settings. Only called after the security gate reports Authenticated.
func (b *Builder) SetAuthenticated(principal string, keytab string) *Builder {
	b.principal = principal
	b.keytab = keytab
	b.authed = true
	b.log.Info("Kerberos settings will be injected into spark invocation",
		zap.String("principal", principal))
	return b
}

// SetConf appends an arbitrary runtime setting. Entries render after the
// builder's own settings, in insertion order.
func (b *Builder) SetConf(key string, value string) *Builder {
	b.extraConf = append(b.extraConf, confEntry{key: key, value: value})
	return b
}

// Build produces the immutable launch descriptor. It never fails; missing
// values simply render as empty settings the external tool will reject,
// mirroring the pre-validated-input contract of the command builder.
func (b *Builder) Build() *Invocation {
	conf := make([]confEntry, 0, 8+len(b.extraConf))
	conf = append(conf,
		confEntry{key: ConfDriverMemory, value: b.driverMemory},
		confEntry{key: ConfExecutorMemory, value: b.executorMemory},
		confEntry{key: ConfExecutorInstances, value: b.numExecutors},
		confEntry{key: ConfExecutorCores, value: b.executorCores},
		confEntry{key: ConfNetworkTimeout, value: b.networkTimeout},
	)
	if b.authed {
		conf = append(conf,
			confEntry{key: ConfYarnKeytab, value: b.keytab},
			confEntry{key: ConfYarnPrincipal, value: b.principal},
		)
	}
	conf = append(conf, b.extraConf...)

	return &Invocation{
		submitPath:  filepath.Join(b.sparkHome, "bin", "spark-submit"),
		appResource: b.appResource,
		mainClass:   b.mainClass,
		master:      b.master,
		appName:     b.appName,
		conf:        conf,
		args:        append([]string(nil), b.args...),
	}
}
