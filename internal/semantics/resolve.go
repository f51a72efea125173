package semantics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type counterKey struct {
	module    model.ModuleID
	namespace string
}

type resolver struct {
	ctx   *Context
	prog  *model.Program
	table *Table

	typeState   []visitState
	memberState []visitState
	counters    map[counterKey]int
}

// Resolve computes the records of every type and member of prog. Types are
// processed by module name and full name, bases and enclosing types first;
// members of a type are resolved after the members of all its ancestors.
func Resolve(ctx *Context, prog *model.Program) *Table {
	if ctx == nil {
		ctx = NewContext(nil, Options{})
	}
	r := &resolver{
		ctx:         ctx,
		prog:        prog,
		table:       newTable(prog),
		typeState:   make([]visitState, prog.TypeCount()+1),
		memberState: make([]visitState, prog.TypeCount()+1),
		counters:    make(map[counterKey]int),
	}
	order := prog.SortedTypes()
	for _, id := range order {
		r.resolveType(id)
	}
	for _, id := range order {
		r.resolveMembers(id)
	}
	return r.table
}

func (r *resolver) report(code diag.Code, sev diag.Severity, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.NewReportBuilder(r.ctx.Reporter, sev, code, sp, fmt.Sprintf(format, args...))
}

func (r *resolver) minimize(mod model.ModuleID) bool {
	if r.ctx.Options.Minimize {
		return true
	}
	m := r.prog.Module(mod)
	return m != nil && m.Has(model.ModuleMinimize)
}

// reportMarkers turns the conflict lists of a decision into diagnostics.
func reportMarkers[S comparable](r *resolver, d Decision[S], ms model.Markers, what string, shape func(model.MarkerKind) diag.Code) {
	for _, k := range d.Ignored {
		m, _ := ms.Get(k)
		b := r.report(diag.SemMarkerConflict, diag.SevWarning, m.Span, "%s: marker %s is ignored because %s takes precedence", what, k, winnerName(d.Marker))
		if w, ok := ms.Get(d.Marker); ok {
			b.WithNote(w.Span, "winning marker")
		}
		b.Emit()
	}
	for _, k := range d.Misapplied {
		m, _ := ms.Get(k)
		code := diag.SemMarkerConflict
		if shape != nil {
			code = shape(k)
		}
		r.report(code, diag.SevError, m.Span, "%s: marker %s does not apply to this declaration", what, k).Emit()
	}
}

func winnerName(k model.MarkerKind) string {
	if k == model.MarkerInvalid {
		return "the declaration shape"
	}
	return k.String()
}

func (r *resolver) resolveType(id model.TypeID) {
	switch r.typeState[id] {
	case visited:
		return
	case visiting:
		// Inheritance cycles are rejected by the front end; break them here.
		return
	}
	r.typeState[id] = visiting
	t := r.prog.Type(id)
	for _, dep := range append([]model.TypeID{t.Declaring}, r.prog.DirectBases(id)...) {
		if dep.IsValid() {
			r.resolveType(dep)
		}
	}
	defer func() { r.typeState[id] = visited }()

	what := "type " + r.prog.FullName(id)
	declaringNotUsable := false
	if t.Declaring.IsValid() {
		_, declaringNotUsable = r.table.Type(t.Declaring).(NotUsableType)
	}
	d := DecideType(TypeFacts{
		Markers:            t.Markers.Set(),
		DeclaringNotUsable: declaringNotUsable,
		Delegate:           t.Kind == model.TypeDelegate,
	})
	reportMarkers(r, d, t.Markers, what, nil)
	info := TypeInfo{Strategy: d.Strategy}
	if d.Strategy == TypeNotUsable {
		r.table.setType(id, NotUsableType{}, info)
		return
	}
	info.Strategy = r.validateTypeShape(t, d.Strategy)
	if t.Markers.Has(model.MarkerSerializable) {
		info.Serializable = r.validateSerializable(t)
	}
	info.NamedValues = t.Kind == model.TypeEnum && t.Markers.Has(model.MarkerNamedValues)

	rec := NormalType{
		IgnoreGenericArgs: t.Markers.Has(model.MarkerIgnoreGenericArguments),
		GenerateCode:      info.Strategy != TypeImported && !t.Has(model.TypeRoot),
	}
	switch info.Strategy {
	case TypeGlobalMethods:
		rec.Name = ""
	case TypeMixin:
		m, _ := t.Markers.Get(model.MarkerMixin)
		rec.Name = m.Arg
	default:
		rec.Name = r.typeName(t)
	}
	r.table.setType(id, rec, info)
}

// validateTypeShape checks the structural requirements of the special type
// strategies and downgrades to a normal type on violation.
func (r *resolver) validateTypeShape(t *model.Type, s TypeStrategy) TypeStrategy {
	what := "type " + r.prog.FullName(t.ID)
	switch s {
	case TypeGlobalMethods:
		if !t.Has(model.TypeStatic) {
			m, _ := t.Markers.Get(model.MarkerGlobalMethods)
			r.report(diag.SemGlobalMethodsNotStatic, diag.SevError, m.Span, "%s: global methods require a static type", what).Emit()
			return TypeNormal
		}
	case TypeMixin:
		m, _ := t.Markers.Get(model.MarkerMixin)
		if !t.Has(model.TypeStatic) {
			r.report(diag.SemMixinNotStatic, diag.SevError, m.Span, "%s: mixins must be static", what).Emit()
			return TypeNormal
		}
		for _, mid := range t.Members {
			mem := r.prog.Member(mid)
			if mem.Kind != model.MemberMethod {
				r.report(diag.SemMixinNonMethod, diag.SevError, mem.Span, "%s: mixin member %s is not a method", what, mem.Name).
					WithNote(m.Span, "mixin declared here").Emit()
				return TypeNormal
			}
		}
		if !jsname.IsValidNestedIdentifier(m.Arg) {
			r.report(diag.SemInvalidScriptName, diag.SevError, m.Span, "%s: mixin target %q is not a valid identifier path", what, m.Arg).Emit()
			return TypeNormal
		}
	case TypeResources:
		m, _ := t.Markers.Get(model.MarkerResources)
		ok := t.Has(model.TypeStatic)
		for _, mid := range t.Members {
			mem := r.prog.Member(mid)
			if mem.Kind != model.MemberField || !mem.Has(model.MemberConst) || mem.Constant == nil {
				ok = false
			}
		}
		if !ok {
			r.report(diag.SemResourcesShape, diag.SevError, m.Span, "%s: resources must be static and declare only constant fields", what).Emit()
			return TypeNormal
		}
	}
	return s
}

// validateSerializable reports every rule a serializable type breaks and
// returns whether the marker stays in effect.
func (r *resolver) validateSerializable(t *model.Type) bool {
	what := "type " + r.prog.FullName(t.ID)
	marker, _ := t.Markers.Get(model.MarkerSerializable)
	ok := true
	if t.Kind != model.TypeClass && t.Kind != model.TypeStruct {
		r.report(diag.SemSerializableBase, diag.SevError, marker.Span, "%s: only classes and structs can be serializable", what).Emit()
		return false
	}
	if base := r.prog.Type(t.Base); base != nil && !base.Has(model.TypeRoot) && !r.table.Info(t.Base).Serializable {
		r.report(diag.SemSerializableBase, diag.SevError, marker.Span,
			"%s: serializable type must derive from the root object or another serializable type, not %s", what, r.prog.FullName(t.Base)).Emit()
		ok = false
	}
	if len(t.Interfaces) > 0 {
		r.report(diag.SemSerializableInterfaces, diag.SevError, marker.Span, "%s: serializable type cannot implement interfaces", what).Emit()
		ok = false
	}
	for _, mid := range t.Members {
		m := r.prog.Member(mid)
		if m.Origin == model.OriginSynthetic {
			continue
		}
		if m.Has(model.MemberVirtual) || m.Has(model.MemberOverride) || m.Has(model.MemberAbstract) {
			r.report(diag.SemSerializableVirtual, diag.SevError, m.Span, "%s: member %s cannot be virtual, abstract or override", what, m.Name).Emit()
			ok = false
		}
		if m.Kind == model.MemberEvent && !m.IsStatic() {
			r.report(diag.SemSerializableInstanceEvnt, diag.SevError, m.Span, "%s: instance event %s is not allowed", what, m.Name).Emit()
			ok = false
		}
	}
	return ok
}

// typeName derives the dotted script name of a type.
func (r *resolver) typeName(t *model.Type) string {
	what := "type " + r.prog.FullName(t.ID)
	prefix := r.namespacePrefix(t)
	ms := t.Markers.Set()
	for {
		d := DecideTypeName(TypeNameFacts{
			Markers:  ms,
			Minimize: r.minimize(t.Module),
			Visible:  r.prog.IsTypeExternallyVisible(t.ID),
			Imported: t.Markers.Has(model.MarkerImported) || t.Has(model.TypeRoot),
		})
		switch d.Strategy {
		case TypeNameExplicit:
			m, _ := t.Markers.Get(model.MarkerScriptName)
			if !jsname.IsValidNestedIdentifier(m.Arg) {
				r.report(diag.SemInvalidScriptName, diag.SevError, m.Span, "%s: %q is not a valid script name", what, m.Arg).Emit()
				ms &^= model.Of(model.MarkerScriptName)
				continue
			}
			if strings.Contains(m.Arg, ".") {
				return m.Arg
			}
			return prefix + m.Arg
		case TypeNameMinimized:
			key := counterKey{module: t.Module, namespace: r.prog.Type(r.prog.Outermost(t.ID)).Namespace}
			n := r.counters[key]
			r.counters[key] = n + 1
			return r.outerPrefix(t) + jsname.MinimizedName(n)
		}
		name := t.Name
		if t.Arity > 0 && !t.Markers.Has(model.MarkerIgnoreGenericArguments) {
			name += "$" + strconv.Itoa(t.Arity)
		}
		return prefix + name
	}
}

// namespacePrefix is the enclosing path of t: the declaring type's name for
// nested types, otherwise the namespace, each followed by a separator.
func (r *resolver) namespacePrefix(t *model.Type) string {
	if t.Declaring.IsValid() {
		if dn, ok := r.table.TypeName(t.Declaring); ok && dn != "" {
			return dn + "$"
		}
	}
	return r.outerPrefix(t)
}

func (r *resolver) outerPrefix(t *model.Type) string {
	outer := r.prog.Type(r.prog.Outermost(t.ID))
	ns := outer.Namespace
	if m, ok := outer.Markers.Get(model.MarkerScriptNamespace); ok {
		ns = m.Arg
	}
	if m, ok := t.Markers.Get(model.MarkerScriptNamespace); ok {
		ns = m.Arg
	}
	if t.Markers.Has(model.MarkerIgnoreNamespace) || outer.Markers.Has(model.MarkerIgnoreNamespace) {
		ns = ""
	}
	if ns == "" {
		return ""
	}
	return ns + "."
}
