// Package semantics decides, for every type and member of a program, the
// name it gets in the emitted script and the strategy used to implement and
// call it.
package semantics

import "github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"

// Options tune resolution for a whole compilation.
type Options struct {
	// Minimize forces minimized names in every module, in addition to the
	// modules that request it themselves.
	Minimize bool
}

// Context carries the per-compilation collaborators of the resolver.
type Context struct {
	Reporter diag.Reporter
	Options  Options
}

func NewContext(r diag.Reporter, opts Options) *Context {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Context{Reporter: r, Options: opts}
}
