package driver

import (
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/dag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

// checkModuleGraph validates module references: cycles, self references
// and references to modules whose emission failed are reported on the
// referencing module's bag.
func checkModuleGraph(prog *model.Program, bags map[model.ModuleID]*diag.Bag) {
	ids := prog.Modules()
	metas := project.MetasFromProgram(prog, nil)
	idx := dag.BuildIndex(metas)
	nodes := make([]dag.ModuleNode, len(metas))
	for i, meta := range metas {
		bag := bags[ids[i]]
		if bag == nil {
			bag = diag.NewBag(0)
			bags[ids[i]] = bag
		}
		nodes[i] = dag.ModuleNode{Meta: meta, Reporter: diag.BagReporter{Bag: bag}, Broken: bag.HasErrors()}
		if nodes[i].Broken {
			nodes[i].FirstErr = firstError(bag)
		}
	}
	graph, slots := dag.BuildGraph(idx, nodes)
	dag.ReportCycles(idx, slots, *dag.ToposortKahn(graph))
	dag.ReportBrokenDeps(idx, slots)
}

func firstError(bag *diag.Bag) *diag.Diagnostic {
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			return &d
		}
	}
	return nil
}
