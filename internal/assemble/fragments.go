// Package assemble builds the per-type statement scaffolding of a module
// from resolved semantics and compiled member bodies, and lays the types out
// into one statement list.
package assemble

import (
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// TypeFragments holds the generated statements of one type, split by the
// role they play during initialization.
type TypeFragments struct {
	Type model.TypeID
	Name string

	// Definition creates the type's constructor function and type name.
	Definition []jsast.Stmt
	NamedCtors []jsast.Stmt
	// StaticMethods also carries static accessors and static factories.
	StaticMethods []jsast.Stmt
	// Instance is the prototype member table passed to the registration call.
	Instance     []jsast.Property
	DefaultValue []jsast.Stmt
	Registration []jsast.Stmt
	Reflection   []jsast.Stmt
	StaticInit   []jsast.Stmt

	// External types install members on an object the module does not own
	// (mixin targets, the global object); no namespace is created for them.
	External bool
	// Inline types are emitted in full at their declaration position and do
	// not take part in static initialization ordering.
	Inline bool
	// Order is the declaration index inside the module.
	Order int
}

// InstanceStmts wraps the instance member functions so that they can be
// scanned like statements.
func (f *TypeFragments) InstanceStmts() []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(f.Instance))
	for _, p := range f.Instance {
		out = append(out, &jsast.SExpr{Value: p.Value})
	}
	return out
}

// Statements is every statement of the type in emission order, registration
// and static initialization included.
func (f *TypeFragments) Statements() []jsast.Stmt {
	var out []jsast.Stmt
	out = append(out, f.Definition...)
	out = append(out, f.NamedCtors...)
	out = append(out, f.StaticMethods...)
	out = append(out, f.DefaultValue...)
	out = append(out, f.Registration...)
	out = append(out, f.Reflection...)
	out = append(out, f.StaticInit...)
	return out
}
