package driver

import (
	"runtime"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/link"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/observ"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

// Options configure one compilation.
type Options struct {
	// ModelPath is the symbol model document (.json, .mp or .msgpack).
	ModelPath string
	// Manifest supplies per-module overrides; it may be nil.
	Manifest *project.Manifest

	Minimize bool
	Runtime  string
	Indent   string
	// Compact prints minified script text.
	Compact bool

	MaxDiagnostics int
	// Jobs bounds parallel module emission; 0 means GOMAXPROCS.
	Jobs int

	Cache    *OutputCache
	Progress buildpipeline.ProgressSink
	Timer    *observ.Timer
}

// OptionsFromManifest takes the model path and emit settings from m.
func OptionsFromManifest(m *project.Manifest) Options {
	return Options{
		ModelPath: m.ModelPath(),
		Manifest:  m,
		Minimize:  m.Emit.Minimize,
		Runtime:   m.Emit.Runtime,
		Indent:    m.Emit.Indent,
		Compact:   m.Emit.Compact,
	}
}

func (o Options) jobs(modules int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, modules))
}

func (o Options) runtimeName() string {
	if o.Runtime == "" {
		return project.DefaultRuntime
	}
	return o.Runtime
}

func (o Options) printOptions() jsast.PrintOptions {
	return jsast.PrintOptions{Indent: o.Indent, Minify: o.Compact}
}

func (o Options) linkOptions() link.Options {
	return link.Options{Runtime: o.runtimeName()}
}
