// Package fragment holds the opaque statement fragments the code generator
// produces for member bodies, addressed by symbol.
package fragment

import (
	"sort"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// Set is the collection of generated fragments of one compilation. It is
// filled by the loader and read by the assembler; the assembler clones what
// it splices, so a Set can be reused across runs.
type Set struct {
	bodies     map[model.MemberID]*jsast.Function
	fieldInits map[model.MemberID]jsast.Expr
	staticInit map[model.TypeID][]jsast.Stmt
}

func NewSet() *Set {
	return &Set{
		bodies:     make(map[model.MemberID]*jsast.Function),
		fieldInits: make(map[model.MemberID]jsast.Expr),
		staticInit: make(map[model.TypeID][]jsast.Stmt),
	}
}

// SetBody records the compiled body of a method, constructor or accessor.
func (s *Set) SetBody(id model.MemberID, fn *jsast.Function) { s.bodies[id] = fn }

// Body returns the compiled body of id.
func (s *Set) Body(id model.MemberID) (*jsast.Function, bool) {
	fn, ok := s.bodies[id]
	return fn, ok
}

// SetFieldInit records the initializer expression of a field.
func (s *Set) SetFieldInit(id model.MemberID, e jsast.Expr) { s.fieldInits[id] = e }

func (s *Set) FieldInit(id model.MemberID) (jsast.Expr, bool) {
	e, ok := s.fieldInits[id]
	return e, ok
}

// AddStaticInit appends statements to the static initializer of a type.
func (s *Set) AddStaticInit(id model.TypeID, stmts ...jsast.Stmt) {
	s.staticInit[id] = append(s.staticInit[id], stmts...)
}

func (s *Set) StaticInit(id model.TypeID) []jsast.Stmt { return s.staticInit[id] }

// Members lists every member with a body or initializer, ascending by id.
func (s *Set) Members() []model.MemberID {
	seen := make(map[model.MemberID]bool, len(s.bodies)+len(s.fieldInits))
	out := make([]model.MemberID, 0, len(s.bodies)+len(s.fieldInits))
	for id := range s.bodies {
		seen[id] = true
		out = append(out, id)
	}
	for id := range s.fieldInits {
		if !seen[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of member fragments.
func (s *Set) Len() int { return len(s.bodies) + len(s.fieldInits) }
