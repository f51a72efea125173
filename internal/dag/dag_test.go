package dag

import (
	"slices"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

func idsToNames(idx ModuleIndex, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func span(file source.FileID, line uint32) source.Span {
	return source.Span{File: file, Start: source.LineCol{Line: line, Col: 1}}
}

func TestBuildIndexIncludesReferences(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "App", References: []project.ReferenceMeta{{Name: "Lib.Math"}, {Name: "Lib.Util"}}},
		{Name: "Lib.Util"},
	}
	idx := BuildIndex(metas)
	want := []string{"App", "Lib.Math", "Lib.Util"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestBuildGraphReportsMissingModules(t *testing.T) {
	app := project.ModuleMeta{Name: "app", Span: span(1, 1), References: []project.ReferenceMeta{
		{Name: "core", Span: span(1, 2)},
		{Name: "util", Span: span(1, 3)},
		{Name: "app", Span: span(1, 4)},
	}}
	core := project.ModuleMeta{Name: "core", Span: span(2, 1), References: []project.ReferenceMeta{{Name: "util", Span: span(2, 2)}}}
	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)

	idx := BuildIndex([]project.ModuleMeta{app, core})
	graph, _ := BuildGraph(idx, []ModuleNode{
		{Meta: app, Reporter: diag.BagReporter{Bag: bagApp}},
		{Meta: core, Reporter: diag.BagReporter{Bag: bagCore}},
	})

	appID, coreID, utilID := idx.NameToID["app"], idx.NameToID["core"], idx.NameToID["util"]
	if deps := graph.Edges[appID]; !slices.Equal(deps, []NodeID{coreID, utilID}) {
		t.Fatalf("app deps = %v", deps)
	}
	if !graph.Present[appID] || !graph.Present[coreID] || graph.Present[utilID] {
		t.Fatalf("Present = %v", graph.Present)
	}
	if got := bagApp.Codes(); !slices.Equal(got, []diag.Code{diag.ProjMissingModule, diag.ProjSelfImport}) {
		t.Fatalf("app codes = %v", got)
	}
	if got := bagCore.Codes(); !slices.Equal(got, []diag.Code{diag.ProjMissingModule}) {
		t.Fatalf("core codes = %v", got)
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	a := project.ModuleMeta{Name: "dup", Span: span(1, 1)}
	b := project.ModuleMeta{Name: "dup", Span: span(2, 1)}
	bagA, bagB := diag.NewBag(10), diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{a, b})
	_, slots := BuildGraph(idx, []ModuleNode{
		{Meta: a, Reporter: diag.BagReporter{Bag: bagA}},
		{Meta: b, Reporter: diag.BagReporter{Bag: bagB}},
	})
	if bagA.Len() != 0 || bagB.Len() != 1 || bagB.Items()[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("diagnostics = %v / %v", bagA.Items(), bagB.Items())
	}
	if slot := slots[idx.NameToID["dup"]]; slot.Meta.Span != a.Span {
		t.Fatalf("slot keeps %v, want first declaration", slot.Meta.Span)
	}
}

func TestToposortKahnBatches(t *testing.T) {
	g := NewGraph(3)
	// 1 -> 2, so 2 is released only after 1.
	g.AddEdge(1, 2)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}
	if !slices.Equal(topo.Order, []NodeID{0, 1, 2}) {
		t.Fatalf("order = %v", topo.Order)
	}
	if len(topo.Batches) != 2 || !slices.Equal(topo.Batches[0], []NodeID{0, 1}) {
		t.Fatalf("batches = %v", topo.Batches)
	}
	if g.AddEdge(1, 2) || g.AddEdge(0, 0) {
		t.Fatalf("duplicate or self edge accepted")
	}
}

func TestReportCycles(t *testing.T) {
	a := project.ModuleMeta{Name: "a", Span: span(1, 1), References: []project.ReferenceMeta{{Name: "b"}}}
	b := project.ModuleMeta{Name: "b", Span: span(2, 1), References: []project.ReferenceMeta{{Name: "a"}}}
	bagA, bagB := diag.NewBag(10), diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{a, b})
	graph, slots := BuildGraph(idx, []ModuleNode{
		{Meta: a, Reporter: diag.BagReporter{Bag: bagA}},
		{Meta: b, Reporter: diag.BagReporter{Bag: bagB}},
	})
	topo := ToposortKahn(graph)
	if !topo.Cyclic || !slices.Equal(idsToNames(idx, topo.Cycles), []string{"a", "b"}) {
		t.Fatalf("topo = %+v", topo)
	}
	ReportCycles(idx, slots, *topo)
	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.ProjImportCycle || bagB.Len() != 1 {
		t.Fatalf("cycle diagnostics = %v / %v", bagA.Items(), bagB.Items())
	}
}

func TestReportBrokenDeps(t *testing.T) {
	first := diag.NewError(diag.SemInvalidScriptName, span(3, 7), "bad name")
	lib := project.ModuleMeta{Name: "lib"}
	app := project.ModuleMeta{Name: "app", References: []project.ReferenceMeta{{Name: "lib"}, {Name: "lib"}}}
	bag := diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{lib, app})
	_, slots := BuildGraph(idx, []ModuleNode{
		{Meta: lib, Broken: true, FirstErr: &first},
		{Meta: app, Reporter: diag.BagReporter{Bag: bag}},
	})
	ReportBrokenDeps(idx, slots)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjDependencyFailed || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestStronglyConnected(t *testing.T) {
	// 0 -> 1 -> 2 -> 1, 3 -> 0, 4 alone
	g := NewGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(3, 0)
	got := StronglyConnected(g)
	want := [][]NodeID{{1, 2}, {0}, {3}, {4}}
	if len(got) != len(want) {
		t.Fatalf("components = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Fatalf("components = %v, want %v", got, want)
		}
	}

	sub := g.Subgraph([]NodeID{1, 2})
	if sub.Len() != 2 || !slices.Equal(sub.Edges[0], []NodeID{1}) || !slices.Equal(sub.Edges[1], []NodeID{0}) {
		t.Fatalf("subgraph = %+v", sub)
	}
	if rev := g.Reversed(); !slices.Equal(rev.Edges[0], []NodeID{3}) {
		t.Fatalf("reversed = %+v", rev)
	}
}
