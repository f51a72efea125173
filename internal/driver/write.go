package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

// WriteOutputs writes every emitted module below dir and returns the paths
// written. Nothing is written when the compilation reported errors.
func WriteOutputs(ctx context.Context, res *Result, dir string, sink buildpipeline.ProgressSink) ([]string, error) {
	if res == nil || res.Bag.HasErrors() {
		return nil, ErrHasErrors
	}
	_, span := trace.Start(ctx, trace.ScopePass, "write")
	defer span.End("")
	buildpipeline.Notify(sink, buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})

	written := make([]string, 0, len(res.Modules))
	for _, out := range res.Modules {
		path := filepath.Join(dir, filepath.FromSlash(out.File))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(out.Script), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", out.Name, err)
		}
		written = append(written, path)
	}
	span.WithExtra("files", fmt.Sprint(len(written)))
	buildpipeline.Notify(sink, buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	return written, nil
}
