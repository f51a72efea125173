// Package initorder decides the order in which the static initializers of
// a module's types run.
package initorder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/assemble"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/dag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// Pass selects the statements whose type references count as dependencies.
// Later passes look at fewer statements and only split groups that earlier
// passes found mutually dependent.
type Pass uint8

const (
	// PassFull considers everything reachable once a type is usable:
	// instance methods, named constructors, the default value helper,
	// static methods and the static initializer.
	PassFull Pass = iota
	// PassStatic considers static methods and the static initializer.
	PassStatic
	// PassInit considers the static initializer alone.
	PassInit
	passCount
)

func (p Pass) String() string {
	switch p {
	case PassFull:
		return "full"
	case PassStatic:
		return "static"
	case PassInit:
		return "init"
	}
	return "unknown"
}

// Statements returns the statements of f that pass p scans.
func (p Pass) Statements(f *assemble.TypeFragments) []jsast.Stmt {
	var out []jsast.Stmt
	if p == PassFull {
		out = append(out, f.InstanceStmts()...)
		out = append(out, f.NamedCtors...)
		out = append(out, f.DefaultValue...)
	}
	if p <= PassStatic {
		out = append(out, f.StaticMethods...)
	}
	return append(out, f.StaticInit...)
}

// Scheduler orders the non-inline types of one module.
type Scheduler struct {
	prog     *model.Program
	reporter diag.Reporter
	types    []*assemble.TypeFragments
	graphs   [passCount]dag.Graph
}

func New(prog *model.Program, types []*assemble.TypeFragments, r diag.Reporter) *Scheduler {
	if r == nil {
		r = diag.NopReporter{}
	}
	s := &Scheduler{prog: prog, reporter: r}
	for _, f := range types {
		if !f.Inline {
			s.types = append(s.types, f)
		}
	}
	slices.SortStableFunc(s.types, func(a, b *assemble.TypeFragments) int { return a.Order - b.Order })
	pos := make(map[model.TypeID]int, len(s.types))
	for i, f := range s.types {
		pos[f.Type] = i
	}
	for p := range passCount {
		g := dag.NewGraph(len(s.types))
		for i, f := range s.types {
			for _, ref := range jsast.TypeRefs(p.Statements(f)) {
				if j, ok := pos[ref.Type]; ok {
					g.AddEdge(dag.Node(i), dag.Node(j))
				}
			}
		}
		s.graphs[p] = g
	}
	return s
}

// Order returns the types so that every initializer runs after the
// initializers of the types it depends on. Dependencies that remain
// circular after the last pass keep declaration order and are reported.
func (s *Scheduler) Order() []model.TypeID {
	all := make([]dag.NodeID, len(s.types))
	for i := range all {
		all[i] = dag.Node(i)
	}
	var out []model.TypeID
	for _, n := range s.order(all, PassFull) {
		out = append(out, s.types[n].Type)
	}
	return out
}

// order sorts nodes, a subset of the full node set, with pass p.
func (s *Scheduler) order(nodes []dag.NodeID, p Pass) []dag.NodeID {
	sub := s.graphs[p].Subgraph(nodes)
	var out []dag.NodeID
	for _, comp := range dag.StronglyConnected(sub) {
		group := make([]dag.NodeID, len(comp))
		for i, local := range comp {
			group[i] = nodes[local]
		}
		if len(group) == 1 {
			out = append(out, group...)
			continue
		}
		if p+1 < passCount {
			out = append(out, s.order(group, p+1)...)
			continue
		}
		slices.Sort(group)
		s.reportCycle(group)
		out = append(out, group...)
	}
	return out
}

func (s *Scheduler) reportCycle(group []dag.NodeID) {
	names := make([]string, len(group))
	for i, n := range group {
		names[i] = s.prog.FullName(s.types[n].Type)
	}
	first := s.prog.Type(s.types[group[0]].Type)
	b := diag.ReportWarning(s.reporter, diag.LnkInitCycle, first.Span,
		fmt.Sprintf("static initializers of %s depend on each other; they run in declaration order", strings.Join(names, ", ")))
	for _, n := range group[1:] {
		t := s.prog.Type(s.types[n].Type)
		b.WithNote(t.Span, "type "+s.prog.FullName(t.ID)+" declared here")
	}
	b.Emit()
}

// Order is a shorthand for New(prog, types, r).Order().
func Order(prog *model.Program, types []*assemble.TypeFragments, r diag.Reporter) []model.TypeID {
	return New(prog, types, r).Order()
}
