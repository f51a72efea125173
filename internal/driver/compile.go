package driver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/fragment"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/loader"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/semantics"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

// ErrHasErrors is returned when output is requested for a compilation that
// reported error diagnostics.
var ErrHasErrors = errors.New("compilation reported errors")

// Result is the outcome of a compilation. Program and Table are nil when
// the model could not be loaded; Bag then holds the reason.
type Result struct {
	Files     *source.FileSet
	Program   *model.Program
	Fragments *fragment.Set
	Table     *semantics.Table
	Bag       *diag.Bag
	// Digest identifies the model document contents.
	Digest  project.Digest
	Modules []ModuleOutput
}

// Resolve loads the model and assigns script semantics, without emitting.
func Resolve(ctx context.Context, opts Options) (*Result, error) {
	data, err := os.ReadFile(opts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	format, err := loader.FormatFor(opts.ModelPath)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Files:  source.NewFileSet(),
		Bag:    diag.NewBag(opts.MaxDiagnostics),
		Digest: project.HashBytes(data),
	}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	idx := beginPhase(opts.Timer, "load")
	buildpipeline.Notify(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
	_, span := trace.Start(ctx, trace.ScopePass, "load")
	loaded, err := loader.Load(data, format, res.Files)
	span.End("")
	if err != nil {
		endPhase(opts.Timer, idx, "failed")
		diag.ReportError(rep, diag.IOLoadModelError, source.Span{},
			fmt.Sprintf("%s: %v", opts.ModelPath, err)).Emit()
		buildpipeline.Notify(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: err})
		return res, nil
	}
	res.Program = loaded.Program
	res.Fragments = loaded.Fragments
	endPhase(opts.Timer, idx, fmt.Sprintf("%d types, %d members", res.Program.TypeCount(), res.Program.MemberCount()))
	applyOverrides(res.Program, opts.Manifest, rep)

	idx = beginPhase(opts.Timer, "resolve")
	buildpipeline.Notify(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusWorking})
	_, span = trace.Start(ctx, trace.ScopePass, "resolve")
	res.Table = semantics.Resolve(semantics.NewContext(rep, semantics.Options{Minimize: opts.Minimize}), res.Program)
	span.End(fmt.Sprintf("%d repeated diagnostics dropped", rep.Suppressed()))
	endPhase(opts.Timer, idx, "")
	return res, nil
}

// Compile resolves the model and emits every module that generates code.
// Operational failures (I/O, cancellation) are returned as errors; problems
// in the model are diagnostics in Result.Bag.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	res, err := Resolve(ctx, opts)
	if err != nil || res.Program == nil {
		return res, err
	}

	idx := beginPhase(opts.Timer, "emit")
	ctxEmit, span := trace.Start(ctx, trace.ScopePass, "emit")
	outs, bags, err := emitModules(ctxEmit, res, opts)
	span.End("")
	if err != nil {
		endPhase(opts.Timer, idx, "failed")
		return res, err
	}
	cached := 0
	for _, o := range outs {
		if o.Cached {
			cached++
		}
	}
	endPhase(opts.Timer, idx, fmt.Sprintf("%d modules, %d cached", len(outs), cached))

	checkModuleGraph(res.Program, bags)
	for _, id := range res.Program.Modules() {
		res.Bag.Merge(bags[id])
	}
	res.Modules = outs

	if opts.Timer != nil {
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "build", Path: opts.ModelPath, Report: opts.Timer.Report()})
	}
	return res, nil
}
