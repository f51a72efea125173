package assemble

import (
	"slices"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/dag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// ExportsName is the identifier of a module's export surface.
const ExportsName = "exports"

// Prologue creates the namespace objects the module's types are assigned
// into. Roots are exported; deeper levels hang off their parent. External
// types are skipped: their target already exists.
func Prologue(types []*TypeFragments) []jsast.Stmt {
	roots := make(map[string]bool)
	nested := make(map[string]bool)
	for _, f := range types {
		segs := strings.Split(f.Name, ".")
		if f.External || f.Name == "" || len(segs) < 2 {
			continue
		}
		roots[segs[0]] = true
		for i := 2; i < len(segs); i++ {
			nested[strings.Join(segs[:i], ".")] = true
		}
	}
	var out []jsast.Stmt
	for _, root := range sortedKeys(roots) {
		exported := jsast.Dot(jsast.Ident(ExportsName), root)
		init := &jsast.EBinary{Op: "||", Left: jsast.Dot(jsast.Ident(ExportsName), root), Right: &jsast.EObject{}}
		out = append(out, &jsast.SVar{Decls: []jsast.Decl{{
			Name:  root,
			Value: &jsast.EBinary{Op: "=", Left: exported, Right: init},
		}}})
	}
	for _, ns := range sortedKeys(nested) {
		segs := strings.Split(ns, ".")
		path := jsast.Dot(jsast.Ident(segs[0]), segs[1:]...)
		out = append(out, jsast.Assign(path, &jsast.EBinary{
			Op:    "||",
			Left:  jsast.Dot(jsast.Ident(segs[0]), segs[1:]...),
			Right: &jsast.EObject{},
		}))
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RegistrationOrder orders types so that every base type and implemented
// interface of the module is registered before the types deriving from it.
// Unrelated types keep declaration order.
func RegistrationOrder(prog *model.Program, types []*TypeFragments) []*TypeFragments {
	pos := make(map[model.TypeID]int, len(types))
	for i, f := range types {
		pos[f.Type] = i
	}
	g := dag.NewGraph(len(types))
	for i, f := range types {
		t := prog.Type(f.Type)
		for _, base := range prog.DirectBases(t.ID) {
			if j, ok := pos[base]; ok {
				g.AddEdge(dag.Node(j), dag.Node(i))
			}
		}
	}
	topo := dag.ToposortKahn(g)
	out := make([]*TypeFragments, 0, len(types))
	for _, id := range topo.Order {
		out = append(out, types[id])
	}
	// Inheritance cannot be cyclic after resolution; keep anything left over.
	for _, id := range topo.Cycles {
		out = append(out, types[id])
	}
	return out
}

// Layout produces the module body: namespace prologue, definitions in
// declaration order, registrations base-first, then static initialization
// in initOrder. Types missing from initOrder keep declaration order after
// the ordered ones.
func Layout(prog *model.Program, types []*TypeFragments, initOrder []model.TypeID) []jsast.Stmt {
	out := Prologue(types)
	for _, f := range types {
		if f.Name != "" {
			out = append(out, &jsast.SComment{Text: f.Name})
		}
		out = append(out, f.Definition...)
		out = append(out, f.NamedCtors...)
		out = append(out, f.StaticMethods...)
		out = append(out, f.DefaultValue...)
	}
	for _, f := range RegistrationOrder(prog, types) {
		out = append(out, f.Registration...)
		out = append(out, f.Reflection...)
	}
	byType := make(map[model.TypeID]*TypeFragments, len(types))
	for _, f := range types {
		byType[f.Type] = f
	}
	done := make(map[model.TypeID]bool, len(types))
	for _, id := range initOrder {
		if f, ok := byType[id]; ok && !done[id] {
			done[id] = true
			out = append(out, f.StaticInit...)
		}
	}
	for _, f := range types {
		if !done[f.Type] {
			out = append(out, f.StaticInit...)
		}
	}
	return out
}
