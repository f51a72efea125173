package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

// Graph is an adjacency list over dense node ids. An edge from -> to means
// "from depends on to".
type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to
	Indeg   []int      // in-degrees for Kahn, counting present nodes only
	Present []bool     // node exists (not only referenced)
}

// NewGraph returns a graph of n present nodes without edges.
func NewGraph(n int) Graph {
	g := Graph{
		Edges:   make([][]NodeID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for i := range g.Present {
		g.Present[i] = true
	}
	return g
}

// Len is the number of nodes.
func (g Graph) Len() int { return len(g.Edges) }

// AddEdge records from -> to once. Self edges are dropped.
func (g *Graph) AddEdge(from, to NodeID) bool {
	if from == to || slices.Contains(g.Edges[from], to) {
		return false
	}
	g.Edges[from] = append(g.Edges[from], to)
	if g.Present[to] {
		g.Indeg[to]++
	}
	return true
}

// Reversed returns a copy with every edge flipped.
func (g Graph) Reversed() Graph {
	r := Graph{
		Edges:   make([][]NodeID, len(g.Edges)),
		Indeg:   make([]int, len(g.Edges)),
		Present: slices.Clone(g.Present),
	}
	for from := range g.Edges {
		for _, to := range g.Edges[from] {
			r.AddEdge(to, nodeID(from))
		}
	}
	return r
}

type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph turns module metadata into a reference graph. Duplicate, missing
// and self references are reported on the referencing module's reporter.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Name == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				var notes []diag.Note
				if !slot.Meta.Span.IsZero() {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Name),
					})
				}
				node.Reporter.Report(diag.ProjDuplicateModule, diag.SevError, meta.Span,
					fmt.Sprintf("duplicate module %q", meta.Name), notes)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.Broken = node.Broken
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.References) == 0 {
			continue
		}
		for _, ref := range slot.Meta.References {
			if ref.Name == "" {
				continue
			}
			toID := idx.NameToID[ref.Name]
			if nodeID(from) == toID {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjSelfImport, diag.SevError, ref.Span,
						fmt.Sprintf("module %q references itself", slot.Meta.Name), nil)
				}
				continue
			}
			if !g.AddEdge(nodeID(from), toID) {
				continue
			}
			if !g.Present[int(toID)] && slot.Reporter != nil {
				slot.Reporter.Report(diag.ProjMissingModule, diag.SevError, ref.Span,
					fmt.Sprintf("module %q references missing module %q", slot.Meta.Name, ref.Name), nil)
			}
		}
		slices.Sort(g.Edges[from])
	}

	return g, slots
}

func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in a reference cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDeps flags references to modules that already failed.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present || from.Reporter == nil || len(from.Meta.References) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(from.Meta.References))
		for _, ref := range from.Meta.References {
			toID, ok := idx.NameToID[ref.Name]
			if !ok {
				continue
			}
			dep := slots[int(toID)]
			if !dep.Broken {
				continue
			}
			if _, seen := emitted[ref.Name]; seen {
				continue
			}
			emitted[ref.Name] = struct{}{}

			var notes []diag.Note
			if dep.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: dep.FirstErr.Primary,
					Msg:  fmt.Sprintf("first error in dependency: %s", dep.FirstErr.Message),
				})
			}
			from.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, ref.Span,
				fmt.Sprintf("referenced module %q has errors", ref.Name), notes)
		}
	}
}
