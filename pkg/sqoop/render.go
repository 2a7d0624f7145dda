package sqoop

import "strings"

// Rendered is one immutable command rendering. The real command reaches the
// invocation; the masked form is the only one that should ever be logged.
type Rendered struct {
	command string
	masked  string
	diags   []string
}

// Command returns the executable command string, secrets included.
func (r Rendered) Command() string { return r.command }

// Masked returns the command with secret-bearing values replaced by the
// mask token.
func (r Rendered) Masked() string { return r.masked }

// Diagnostics returns non-fatal findings accumulated while building:
// ignored option values, omitted flags, decryption failures.
func (r Rendered) Diagnostics() []string {
	return append([]string(nil), r.diags...)
}

// String returns the masked command so accidental logging stays safe.
func (r Rendered) String() string { return r.masked }

// renderer writes the real and masked command strings in one pass so the two
// can never drift apart.
type renderer struct {
	cmd    strings.Builder
	masked strings.Builder
}

func newRenderer() *renderer {
	return &renderer{}
}

// token emits a bare token followed by a space.
func (r *renderer) token(tok string) {
	r.cmd.WriteString(tok)
	r.cmd.WriteString(" ")
	r.masked.WriteString(tok)
	r.masked.WriteString(" ")
}

// flagValue emits `flag "value" `. Non-secret values are trimmed before
// quoting; secret values are passed through verbatim and masked in the
// masked rendering.
func (r *renderer) flagValue(flag string, value string, isSecret bool) {
	if !isSecret {
		value = strings.TrimSpace(value)
	}
	r.cmd.WriteString(flag)
	r.cmd.WriteString(` "`)
	r.cmd.WriteString(value)
	r.cmd.WriteString(`" `)

	r.masked.WriteString(flag)
	r.masked.WriteString(` "`)
	if isSecret {
		r.masked.WriteString(MaskToken)
	} else {
		r.masked.WriteString(value)
	}
	r.masked.WriteString(`" `)
}

// property emits a `-Dname="value" ` system property.
func (r *renderer) property(prop string, value string, isSecret bool) {
	r.cmd.WriteString(prop)
	r.cmd.WriteString(`="`)
	r.cmd.WriteString(value)
	r.cmd.WriteString(`" `)

	r.masked.WriteString(prop)
	r.masked.WriteString(`="`)
	if isSecret {
		r.masked.WriteString(MaskToken)
	} else {
		r.masked.WriteString(value)
	}
	r.masked.WriteString(`" `)
}

// finalFlagValue emits `flag "value"` with no trailing space; used for the
// last token of the command.
func (r *renderer) finalFlagValue(flag string, value string) {
	value = strings.TrimSpace(value)
	r.cmd.WriteString(flag)
	r.cmd.WriteString(` "`)
	r.cmd.WriteString(value)
	r.cmd.WriteString(`"`)

	r.masked.WriteString(flag)
	r.masked.WriteString(` "`)
	r.masked.WriteString(value)
	r.masked.WriteString(`"`)
}

func (r *renderer) command() string       { return r.cmd.String() }
func (r *renderer) maskedCommand() string { return r.masked.String() }
