package driver

import (
	"fmt"
	"sort"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// applyOverrides patches modules with the manifest's [modules] entries.
// Entries naming modules the model does not declare are warned about.
func applyOverrides(prog *model.Program, m *project.Manifest, r diag.Reporter) {
	if m == nil || len(m.Modules) == 0 {
		return
	}
	names := make([]string, 0, len(m.Modules))
	for name := range m.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id, ok := prog.ModuleByName(name)
		if !ok {
			diag.ReportWarning(r, diag.ProjManifest, source.Span{},
				fmt.Sprintf("[modules] entry %q does not name a module of the model", name)).Emit()
			continue
		}
		o := m.Modules[name]
		mod := prog.Module(id)
		if o.ScriptModule != nil {
			mod.ScriptModule = *o.ScriptModule
		}
		if o.Async != nil {
			mod.Flags = setFlag(mod.Flags, model.ModuleAsync, *o.Async)
		}
		if o.Minimize != nil {
			mod.Flags = setFlag(mod.Flags, model.ModuleMinimize, *o.Minimize)
		}
	}
}

func setFlag(flags, f model.ModuleFlags, on bool) model.ModuleFlags {
	if on {
		return flags | f
	}
	return flags &^ f
}

// overridesKey renders the overrides deterministically for cache keys.
func overridesKey(m *project.Manifest) string {
	if m == nil {
		return ""
	}
	names := make([]string, 0, len(m.Modules))
	for name := range m.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for _, name := range names {
		o := m.Modules[name]
		out += name + "{"
		if o.ScriptModule != nil {
			out += "sm=" + *o.ScriptModule + ";"
		}
		if o.Async != nil {
			out += fmt.Sprintf("async=%t;", *o.Async)
		}
		if o.Minimize != nil {
			out += fmt.Sprintf("min=%t;", *o.Minimize)
		}
		out += "}"
	}
	return out
}
