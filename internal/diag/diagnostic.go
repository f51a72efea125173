package diag

import (
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// Note points at a secondary location: the previous holder of a script
// name, a conflicting marker, a type in an initialization cycle.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one resolver, linker or driver finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// key identifies a diagnostic for deduplication. Notes take part so that two
// collisions reported at the same type against different members both survive.
func (d *Diagnostic) key() string {
	var b strings.Builder
	b.WriteString(d.Code.ID())
	b.WriteByte('|')
	b.WriteString(d.Severity.Label())
	b.WriteByte('|')
	b.WriteString(d.Primary.String())
	b.WriteByte('|')
	b.WriteString(d.Message)
	for _, n := range d.Notes {
		b.WriteByte('|')
		b.WriteString(n.Span.String())
		b.WriteByte('=')
		b.WriteString(n.Msg)
	}
	return b.String()
}
