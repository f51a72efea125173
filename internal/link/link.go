// Package link turns an assembled module body into the final program: type
// references become script expressions, locals that would hide the
// linker's identifiers are renamed and the body is wrapped in its module
// convention.
package link

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/assemble"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/semantics"
)

// Format is a module convention.
type Format uint8

const (
	// FormatClosure wraps the body in an immediately invoked function.
	FormatClosure Format = iota
	// FormatCommonJS prepends synchronous require bindings.
	FormatCommonJS
	// FormatAMD wraps the body in a define call.
	FormatAMD
)

func (f Format) String() string {
	switch f {
	case FormatClosure:
		return "closure"
	case FormatCommonJS:
		return "commonjs"
	case FormatAMD:
		return "amd"
	}
	return "unknown"
}

// Placeholder replaces references the linker cannot resolve.
const Placeholder = "$Unresolved"

// Options tune linking.
type Options struct {
	// Runtime is the identifier the runtime library is bound to.
	Runtime string
	// RuntimeModule is the loader name of the runtime library.
	RuntimeModule string
}

func (o Options) withDefaults() Options {
	if o.Runtime == "" {
		o.Runtime = "ss"
	}
	if o.RuntimeModule == "" {
		o.RuntimeModule = o.Runtime
	}
	return o
}

// Dependency is one imported module.
type Dependency struct {
	Module model.ModuleID
	// Name is the loader name passed to require or define.
	Name  string
	Alias string
}

// Result is a linked module.
type Result struct {
	Body         []jsast.Stmt
	Format       Format
	Dependencies []Dependency
	// Renames maps each renamed local to its replacement, per original name.
	Renames map[string][]string
}

// Linker links the modules of one resolved program.
type Linker struct {
	table    *semantics.Table
	prog     *model.Program
	reporter diag.Reporter
	opts     Options
}

func New(table *semantics.Table, r diag.Reporter, opts Options) *Linker {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Linker{table: table, prog: table.Program(), reporter: r, opts: opts.withDefaults()}
}

// target is a type reference resolved to a root identifier plus a path.
type target struct {
	root string
	path []string
	// dep is set for references through a module alias.
	dep model.ModuleID
	// introduced roots may collide with locals.
	introduced bool
}

// unit holds the state of linking one module.
type unit struct {
	l       *Linker
	mod     *model.Module
	targets map[model.TypeID]target
	deps    map[model.ModuleID]*Dependency
	warned  map[model.ModuleID]bool
	// exports and runtime record whether the body needs those bindings.
	exports bool
	runtime bool
}

// Link links the body of one module. The statements are rewritten in place.
func (l *Linker) Link(module model.ModuleID, body []jsast.Stmt) *Result {
	u := &unit{
		l:       l,
		mod:     l.prog.Module(module),
		targets: make(map[model.TypeID]target),
		deps:    make(map[model.ModuleID]*Dependency),
		warned:  make(map[model.ModuleID]bool),
	}
	t := newTracker()
	introduced := map[string]bool{l.opts.Runtime: true, assemble.ExportsName: true}

	// Gather declarations, references and uses of introduced names.
	type use struct {
		at   *scope
		name string
		dep  model.ModuleID
	}
	var uses []use
	jsast.Walk(body, t.visitor(
		func(s *scope, name string) string {
			s.declared[name] = true
			return name
		},
		func(s *scope, e jsast.Expr) jsast.Expr {
			switch e := e.(type) {
			case *jsast.EIdentifier:
				s.refs[e.Name] = true
			case *jsast.ETypeRef:
				switch tg := u.resolve(e.Type); {
				case tg.dep.IsValid():
					uses = append(uses, use{at: s, dep: tg.dep})
				case tg.introduced:
					introduced[tg.root] = true
					uses = append(uses, use{at: s, name: tg.root})
				}
			case *jsast.ERuntime:
				uses = append(uses, use{at: s, name: l.opts.Runtime})
			}
			return e
		}))
	t.root.collectUsed()
	u.assignAliases(t.root, introduced)

	rn := &renamer{introduced: introduced, chosen: map[string]bool{}}
	for _, us := range uses {
		name := us.name
		if us.dep.IsValid() {
			name = u.deps[us.dep].Alias
		}
		if d := us.at.lookup(name); d != nil && d != t.root {
			rn.rename(d, name)
		}
	}
	rn.assign(t.order)

	t.replay()
	jsast.Walk(body, t.visitor(
		func(s *scope, name string) string {
			if repl := s.renames[name]; repl != "" {
				return repl
			}
			return name
		},
		func(s *scope, e jsast.Expr) jsast.Expr {
			switch e := e.(type) {
			case *jsast.EIdentifier:
				if d := s.lookup(e.Name); d != nil && d.renames[e.Name] != "" {
					return jsast.Ident(d.renames[e.Name])
				}
				if e.Name == assemble.ExportsName && s.lookup(e.Name) == nil {
					u.exports = true
				}
			case *jsast.ETypeRef:
				return u.expr(e.Type)
			case *jsast.ERuntime:
				u.runtime = true
				return jsast.Dot(jsast.Ident(l.opts.Runtime), e.Member)
			}
			return e
		}))

	res := &Result{Renames: map[string][]string{}}
	for _, s := range t.order {
		for from, to := range s.renames {
			res.Renames[from] = append(res.Renames[from], to)
		}
	}
	for _, list := range res.Renames {
		slices.Sort(list)
	}
	for _, d := range u.deps {
		res.Dependencies = append(res.Dependencies, *d)
	}
	slices.SortFunc(res.Dependencies, func(a, b Dependency) int { return strings.Compare(a.Alias, b.Alias) })
	res.Format, res.Body = u.wrap(body, res.Dependencies)
	return res
}

// resolve maps a type to the expression root that reaches it.
func (u *unit) resolve(id model.TypeID) target {
	if tg, ok := u.targets[id]; ok {
		return tg
	}
	tg := u.resolveUncached(id)
	u.targets[id] = tg
	return tg
}

func (u *unit) resolveUncached(id model.TypeID) target {
	l := u.l
	t := l.prog.Type(id)
	rec, ok := l.table.Type(id).(semantics.NormalType)
	if t == nil || !ok {
		sp := u.mod.Span
		what := fmt.Sprintf("type #%d", id)
		if t != nil {
			sp, what = t.Span, "type "+l.prog.FullName(id)
		}
		diag.ReportError(l.reporter, diag.LnkInternalTypeSemantics, sp,
			fmt.Sprintf("reference to %s, which has no script representation", what)).Emit()
		return target{root: Placeholder}
	}
	var segs []string
	if rec.Name != "" {
		segs = strings.Split(rec.Name, ".")
	}
	owner := l.prog.Module(t.Module)
	foreign := t.Module != u.mod.ID && rec.GenerateCode
	switch {
	case foreign && owner.ScriptModule != "":
		if !u.warned[owner.ID] && !slices.Contains(u.mod.References, owner.ID) {
			u.warned[owner.ID] = true
			diag.ReportWarning(l.reporter, diag.LnkUnknownModule, t.Span,
				fmt.Sprintf("type %s belongs to module %s, which %s does not reference", l.prog.FullName(id), owner.Name, u.mod.Name)).Emit()
		}
		if u.deps[owner.ID] == nil {
			u.deps[owner.ID] = &Dependency{Module: owner.ID, Name: owner.ScriptModule}
		}
		return target{dep: owner.ID, path: segs}
	case len(segs) == 0 && (foreign || !rec.GenerateCode):
		// Members of a global script's export surface are plain globals.
		return target{root: l.opts.Runtime, path: []string{"global"}, introduced: true}
	case len(segs) == 0:
		return target{root: assemble.ExportsName, introduced: true}
	}
	return target{root: segs[0], path: segs[1:], introduced: true}
}

// assignAliases names every imported module. Aliases avoid each other,
// introduced roots and every name the body uses.
func (u *unit) assignAliases(root *scope, introduced map[string]bool) {
	ids := make([]model.ModuleID, 0, len(u.deps))
	for id := range u.deps {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b model.ModuleID) int {
		return strings.Compare(u.deps[a].Name, u.deps[b].Name)
	})
	for _, id := range ids {
		d := u.deps[id]
		d.Alias = jsname.UniqueName("$"+jsname.Sanitize(d.Name), func(c string) bool {
			return root.used[c] || introduced[c]
		})
		introduced[d.Alias] = true
	}
}

func (u *unit) expr(id model.TypeID) jsast.Expr {
	tg := u.resolve(id)
	root := tg.root
	if tg.dep.IsValid() {
		root = u.deps[tg.dep].Alias
	}
	switch root {
	case assemble.ExportsName:
		u.exports = true
	case u.l.opts.Runtime:
		u.runtime = true
	}
	return jsast.Dot(jsast.Ident(root), tg.path...)
}

func strict() jsast.Stmt { return &jsast.SDirective{Value: "use strict"} }

// wrap applies the module convention.
func (u *unit) wrap(body []jsast.Stmt, deps []Dependency) (Format, []jsast.Stmt) {
	rt := u.l.opts.Runtime
	switch {
	case len(deps) > 0 && u.mod.Has(model.ModuleAsync):
		names := []jsast.Expr{jsast.Str(u.l.opts.RuntimeModule)}
		params := []string{rt}
		for _, d := range deps {
			names = append(names, jsast.Str(d.Name))
			params = append(params, d.Alias)
		}
		inner := []jsast.Stmt{strict()}
		if u.exports {
			inner = append(inner, &jsast.SVar{Decls: []jsast.Decl{{Name: assemble.ExportsName, Value: &jsast.EObject{}}}})
		}
		inner = append(inner, body...)
		if u.exports {
			inner = append(inner, &jsast.SReturn{Value: jsast.Ident(assemble.ExportsName)})
		}
		return FormatAMD, []jsast.Stmt{&jsast.SExpr{Value: jsast.Call(jsast.Ident("define"),
			&jsast.EArray{Items: names}, jsast.Fn(params, inner...))}}
	case len(deps) > 0:
		out := []jsast.Stmt{strict()}
		if u.runtime {
			out = append(out, require(rt, u.l.opts.RuntimeModule))
		}
		for _, d := range deps {
			out = append(out, require(d.Alias, d.Name))
		}
		return FormatCommonJS, append(out, body...)
	}
	inner := []jsast.Stmt{strict()}
	if u.exports {
		inner = append(inner, &jsast.SVar{Decls: []jsast.Decl{{Name: assemble.ExportsName, Value: jsast.Dot(jsast.Ident(rt), "global")}}})
	}
	inner = append(inner, body...)
	return FormatClosure, []jsast.Stmt{&jsast.SExpr{Value: jsast.Call(jsast.Fn(nil, inner...))}}
}

func require(alias, name string) jsast.Stmt {
	return &jsast.SVar{Decls: []jsast.Decl{{Name: alias, Value: jsast.Call(jsast.Ident("require"), jsast.Str(name))}}}
}
