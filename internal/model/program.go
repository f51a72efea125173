package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// Program is the typed symbol graph of one compilation. It is built once by
// a Builder and treated as read-only afterwards.
type Program struct {
	Files *source.FileSet

	modules []Module
	types   []Type
	members []Member

	moduleByName map[string]ModuleID
	typeByKey    map[string]TypeID
	memberByKey  map[string]MemberID
}

// Module returns the module for id, or nil.
func (p *Program) Module(id ModuleID) *Module {
	if !id.IsValid() || int(id) >= len(p.modules) {
		return nil
	}
	return &p.modules[id]
}

// Type returns the type for id, or nil.
func (p *Program) Type(id TypeID) *Type {
	if !id.IsValid() || int(id) >= len(p.types) {
		return nil
	}
	return &p.types[id]
}

// Member returns the member for id, or nil.
func (p *Program) Member(id MemberID) *Member {
	if !id.IsValid() || int(id) >= len(p.members) {
		return nil
	}
	return &p.members[id]
}

// ModuleByName looks a module up by name.
func (p *Program) ModuleByName(name string) (ModuleID, bool) {
	id, ok := p.moduleByName[name]
	return id, ok
}

// TypeByKey looks a type up by its document key.
func (p *Program) TypeByKey(key string) (TypeID, bool) {
	id, ok := p.typeByKey[key]
	return id, ok
}

// MemberByKey looks a member up by its document key.
func (p *Program) MemberByKey(key string) (MemberID, bool) {
	id, ok := p.memberByKey[key]
	return id, ok
}

// Modules lists all module ids sorted by module name.
func (p *Program) Modules() []ModuleID {
	out := make([]ModuleID, 0, len(p.modules)-1)
	for i := 1; i < len(p.modules); i++ {
		out = append(out, p.modules[i].ID)
	}
	sort.Slice(out, func(i, j int) bool {
		return p.modules[out[i]].Name < p.modules[out[j]].Name
	})
	return out
}

// TypeCount reports the number of types excluding the sentinel.
func (p *Program) TypeCount() int { return len(p.types) - 1 }

// MemberCount reports the number of members excluding the sentinel.
func (p *Program) MemberCount() int { return len(p.members) - 1 }

// Types lists all type ids in declaration order.
func (p *Program) Types() []TypeID {
	out := make([]TypeID, 0, len(p.types)-1)
	for i := 1; i < len(p.types); i++ {
		out = append(out, p.types[i].ID)
	}
	return out
}

// SortedTypes lists all type ids ordered by module name, then fully
// qualified name. This is the processing order of the resolver.
func (p *Program) SortedTypes() []TypeID {
	out := p.Types()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := p.Type(out[i]), p.Type(out[j])
		ma, mb := p.Module(a.Module).Name, p.Module(b.Module).Name
		if ma != mb {
			return ma < mb
		}
		fa, fb := p.FullName(a.ID), p.FullName(b.ID)
		if fa != fb {
			return fa < fb
		}
		return a.Order < b.Order
	})
	return out
}

// FullName renders the fully qualified source name: namespace, enclosing
// types joined by '+', and a backtick arity suffix for generic types.
func (p *Program) FullName(id TypeID) string {
	t := p.Type(id)
	if t == nil {
		return ""
	}
	name := t.Name
	if t.Arity > 0 {
		name += "`" + strconv.Itoa(t.Arity)
	}
	if t.Declaring.IsValid() {
		return p.FullName(t.Declaring) + "+" + name
	}
	if t.Namespace == "" {
		return name
	}
	return t.Namespace + "." + name
}

// MemberName renders Owner.Member for messages.
func (p *Program) MemberName(id MemberID) string {
	m := p.Member(id)
	if m == nil {
		return ""
	}
	return p.FullName(m.Owner) + "." + m.Name
}

// Outermost returns the top-level type enclosing id (id itself when not nested).
func (p *Program) Outermost(id TypeID) TypeID {
	for {
		t := p.Type(id)
		if t == nil || !t.Declaring.IsValid() {
			return id
		}
		id = t.Declaring
	}
}

// IsTypeExternallyVisible reports whether the type and every enclosing type is public.
func (p *Program) IsTypeExternallyVisible(id TypeID) bool {
	for id.IsValid() {
		t := p.Type(id)
		if !t.Has(TypePublic) {
			return false
		}
		id = t.Declaring
	}
	return true
}

// IsMemberExternallyVisible reports whether code outside the module can see the member.
func (p *Program) IsMemberExternallyVisible(id MemberID) bool {
	m := p.Member(id)
	if m == nil {
		return false
	}
	if m.Accessor.IsValid() {
		return p.IsMemberExternallyVisible(m.Accessor)
	}
	if m.Access != AccessPublic && m.Access != AccessProtected && m.Access != AccessProtectedInternal {
		return false
	}
	return p.IsTypeExternallyVisible(m.Owner)
}

// DirectBases returns the base type (when valid) followed by the declared
// capability types in declaration order.
func (p *Program) DirectBases(id TypeID) []TypeID {
	t := p.Type(id)
	if t == nil {
		return nil
	}
	out := make([]TypeID, 0, 1+len(t.Interfaces))
	if t.Base.IsValid() {
		out = append(out, t.Base)
	}
	return append(out, t.Interfaces...)
}

// Ancestors returns every transitive base and capability type of id, sorted
// by declaration order and without duplicates.
func (p *Program) Ancestors(id TypeID) []TypeID {
	seen := make(map[TypeID]bool)
	var walk func(TypeID)
	walk = func(cur TypeID) {
		for _, b := range p.DirectBases(cur) {
			if seen[b] {
				continue
			}
			seen[b] = true
			walk(b)
		}
	}
	walk(id)
	out := make([]TypeID, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return p.types[out[i]].Order < p.types[out[j]].Order })
	return out
}

// DerivesFrom reports whether sub equals base or has base among its ancestors.
func (p *Program) DerivesFrom(sub, base TypeID) bool {
	if sub == base {
		return true
	}
	for _, b := range p.DirectBases(sub) {
		if p.DerivesFrom(b, base) {
			return true
		}
	}
	return false
}

// PreservesMemberCase reports whether members of id keep their declared case
// through a type marker or the module-level marker.
func (p *Program) PreservesMemberCase(id TypeID) bool {
	t := p.Type(id)
	if t == nil {
		return false
	}
	if t.Markers.Has(MarkerPreserveMemberCase) {
		return true
	}
	mod := p.Module(t.Module)
	return mod != nil && mod.Has(ModulePreserveMemberCase)
}

// ParamTypes joins the parameter type names for ordinal comparisons.
func (m *Member) ParamTypes() string {
	parts := make([]string, len(m.Params))
	for i, prm := range m.Params {
		parts[i] = prm.Type
	}
	return strings.Join(parts, ",")
}
