package project

import (
	"unicode"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// ReferenceMeta is one module reference with the place it was declared.
type ReferenceMeta struct {
	Name string
	Span source.Span
}

// ModuleMeta is the part of a module the build graph needs.
type ModuleMeta struct {
	Name         string
	ScriptModule string
	Span         source.Span
	References   []ReferenceMeta
	ContentHash  Digest // hash of the module's own declarations
	ModuleHash   Digest // aggregate including referenced modules
}

// IsValidModuleName accepts dotted names of letters, digits and underscores.
func IsValidModuleName(name string) bool {
	if name == "" {
		return false
	}
	start := true
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			return false
		case r == '.':
			if start {
				return false
			}
			start = true
		case r == '_' || unicode.IsLetter(r):
			start = false
		case unicode.IsDigit(r):
			if start {
				return false
			}
		default:
			return false
		}
	}
	return !start
}

// MetasFromProgram lists module metadata in module id order. content is
// called per module to compute ContentHash; it may be nil.
func MetasFromProgram(prog *model.Program, content func(model.ModuleID) Digest) []ModuleMeta {
	ids := prog.Modules()
	out := make([]ModuleMeta, 0, len(ids))
	for _, id := range ids {
		m := prog.Module(id)
		meta := ModuleMeta{Name: m.Name, ScriptModule: m.ScriptModule, Span: m.Span}
		for _, ref := range m.References {
			if rm := prog.Module(ref); rm != nil {
				meta.References = append(meta.References, ReferenceMeta{Name: rm.Name, Span: m.Span})
			}
		}
		if content != nil {
			meta.ContentHash = content(id)
		}
		out = append(out, meta)
	}
	return out
}
