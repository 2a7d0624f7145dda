package spark

// Invocation is the fully-resolved, ready-to-execute description of one
// spark-submit run. Produced exactly once per builder; never mutated.
type Invocation struct {
	submitPath  string
	appResource string
	mainClass   string
	master      string
	appName     string
	conf        []confEntry
	args        []string
}

// SubmitPath returns the spark-submit binary derived from the spark home.
func (i *Invocation) SubmitPath() string { return i.submitPath }

// AppResource returns the job artifact path.
func (i *Invocation) AppResource() string { return i.appResource }

// MainClass returns the entry-point class.
func (i *Invocation) MainClass() string { return i.mainClass }

// AppName returns the cluster UI application name.
func (i *Invocation) AppName() string { return i.appName }

// Conf returns the runtime setting for key, or "" when absent.
func (i *Invocation) Conf(key string) string {
	for _, e := range i.conf {
		if e.key == key {
			return e.value
		}
	}
	return ""
}

// HasConf reports whether the runtime setting is present at all.
func (i *Invocation) HasConf(key string) bool {
	for _, e := range i.conf {
		if e.key == key {
			return true
		}
	}
	return false
}

// Args returns the application arguments.
func (i *Invocation) Args() []string {
	return append([]string(nil), i.args...)
}

// Argv renders the spark-submit argument vector, excluding the binary
// itself. Deterministic: conf entries keep their build order.
func (i *Invocation) Argv() []string {
	argv := make([]string, 0, 8+2*len(i.conf)+len(i.args))
	argv = append(argv, "--master", i.master)
	if i.mainClass != "" {
		argv = append(argv, "--class", i.mainClass)
	}
	if i.appName != "" {
		argv = append(argv, "--name", i.appName)
	}
	for _, e := range i.conf {
		if e.value == "" {
			continue
		}
		argv = append(argv, "--conf", e.key+"="+e.value)
	}
	argv = append(argv, i.appResource)
	argv = append(argv, i.args...)
	return argv
}
