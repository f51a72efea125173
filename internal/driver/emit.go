package driver

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/assemble"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/initorder"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/link"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

// ModuleOutput is the script emitted for one module.
type ModuleOutput struct {
	Module model.ModuleID
	Name   string
	// File is the slash-separated output path relative to the output dir.
	File         string
	Script       string
	Format       link.Format
	Dependencies []string
	Cached       bool
}

// outputFile names a module's script after its loader name, or after the
// module itself when it has none.
func outputFile(mod *model.Module) string {
	if mod.ScriptModule != "" {
		return mod.ScriptModule + ".js"
	}
	return mod.Name + ".js"
}

// emitModules runs assemble, order, link and print for every module in
// parallel. Results and bags are indexed by module, never shared between
// goroutines.
func emitModules(ctx context.Context, res *Result, opts Options) ([]ModuleOutput, map[model.ModuleID]*diag.Bag, error) {
	ids := res.Program.Modules()
	outs := make([]*ModuleOutput, len(ids))
	bags := make([]*diag.Bag, len(ids))

	for _, id := range ids {
		buildpipeline.Notify(opts.Progress, buildpipeline.Event{Module: res.Program.Module(id).Name, Stage: buildpipeline.StageAssemble, Status: buildpipeline.StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(opts.MaxDiagnostics)
			bags[i] = bag
			out, err := emitModule(gctx, res, opts, id, bag)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var list []ModuleOutput
	byModule := make(map[model.ModuleID]*diag.Bag, len(ids))
	for i, id := range ids {
		byModule[id] = bags[i]
		if outs[i] != nil {
			list = append(list, *outs[i])
		}
	}
	return list, byModule, nil
}

// emitModule produces one module's script, or nil when the module has no
// types that generate code.
func emitModule(ctx context.Context, res *Result, opts Options, id model.ModuleID, bag *diag.Bag) (*ModuleOutput, error) {
	mod := res.Program.Module(id)
	ctx, span := trace.Start(ctx, trace.ScopeModule, "module:"+mod.Name)
	defer span.End("")
	started := time.Now()
	notify := func(stage buildpipeline.Stage, status buildpipeline.Status) {
		buildpipeline.Notify(opts.Progress, buildpipeline.Event{Module: mod.Name, Stage: stage, Status: status, Elapsed: time.Since(started)})
	}

	key := cacheKey(res.Digest, opts, mod.Name)
	if hit, ok, err := opts.Cache.Get(key); err != nil {
		trace.Point(ctx, trace.ScopeModule, "cache", err.Error())
	} else if ok {
		for _, d := range hit.Diagnostics {
			bag.Add(d)
		}
		span.WithExtra("cached", "true")
		notify(buildpipeline.StagePrint, buildpipeline.StatusCached)
		return &ModuleOutput{
			Module:       id,
			Name:         mod.Name,
			File:         hit.File,
			Script:       hit.Script,
			Format:       link.Format(hit.Format),
			Dependencies: hit.Dependencies,
			Cached:       true,
		}, nil
	}

	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	notify(buildpipeline.StageAssemble, buildpipeline.StatusWorking)
	types := assemble.New(res.Table, res.Fragments, rep).Module(id)
	if len(types) == 0 {
		notify(buildpipeline.StageAssemble, buildpipeline.StatusDone)
		return nil, nil
	}
	for _, f := range types {
		trace.Point(ctx, trace.ScopeType, "type:"+res.Program.FullName(f.Type), fmt.Sprintf("inline=%t", f.Inline))
	}

	notify(buildpipeline.StageOrder, buildpipeline.StatusWorking)
	order := initorder.Order(res.Program, types, rep)
	body := assemble.Layout(res.Program, types, order)

	notify(buildpipeline.StageLink, buildpipeline.StatusWorking)
	linked := link.New(res.Table, rep, opts.linkOptions()).Link(id, body)

	notify(buildpipeline.StagePrint, buildpipeline.StatusWorking)
	out := &ModuleOutput{
		Module: id,
		Name:   mod.Name,
		File:   outputFile(mod),
		Script: jsast.PrintString(linked.Body, opts.printOptions()),
		Format: linked.Format,
	}
	for _, dep := range linked.Dependencies {
		out.Dependencies = append(out.Dependencies, dep.Name)
	}
	span.WithExtra("types", fmt.Sprint(len(types))).WithExtra("format", linked.Format.String())

	if err := opts.Cache.Put(key, &CachedOutput{
		Module:       mod.Name,
		File:         out.File,
		Script:       out.Script,
		Format:       uint8(out.Format),
		Dependencies: out.Dependencies,
		Diagnostics:  bag.Items(),
	}); err != nil {
		trace.Point(ctx, trace.ScopeModule, "cache", err.Error())
	}

	status := buildpipeline.StatusDone
	if bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	notify(buildpipeline.StagePrint, status)
	return out, nil
}
