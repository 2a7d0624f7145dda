// Package pipeline ties the security gate, the invocation builders, and the
// process launcher into the execution engine embedded in the orchestration
// platform. Each submitted unit of work is handed to exactly one of its two
// outcomes, success or failure, no matter what fails along the way.
package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// UnitOfWork is the caller's routing handle. Implementations perform the
// pipeline framework's own routing action; this engine only decides which of
// the two is taken, exactly once per execution.
type UnitOfWork interface {
	RouteSuccess()
	RouteFailure()
}

// exprPattern matches ${key} references inside option values.
var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Properties resolves named option keys to string values with inline
// ${key} expression substitution against the same map.
type Properties map[string]string

// maxExpansionDepth bounds reference chains so cycles terminate.
const maxExpansionDepth = 10

// Resolve returns the value for key with all ${...} references expanded.
// Unknown references expand to the empty string.
func (p Properties) Resolve(key string) string {
	return p.expand(p[key], 0)
}

// Expand substitutes ${key} references inside an arbitrary value. Values
// without references pass through unchanged.
func (p Properties) Expand(value string) string {
	return p.expand(value, 0)
}

func (p Properties) expand(value string, depth int) string {
	if depth >= maxExpansionDepth || !strings.Contains(value, "${") {
		return value
	}
	return exprPattern.ReplaceAllStringFunc(value, func(m string) string {
		ref := strings.TrimSuffix(strings.TrimPrefix(m, "${"), "}")
		return p.expand(p[ref], depth+1)
	})
}

// ResolveInt resolves key as an integer, falling back to def when the value
// is absent or malformed.
func (p Properties) ResolveInt(key string, def int) int {
	v := strings.TrimSpace(p.Resolve(key))
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}
