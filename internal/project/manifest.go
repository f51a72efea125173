package project

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
)

// ModuleOverride adjusts one module of the symbol model from [modules].
// Unset fields keep the value the model carries.
type ModuleOverride struct {
	ScriptModule *string `toml:"script_module"`
	Async        *bool   `toml:"async"`
	Minimize     *bool   `toml:"minimize"`
}

// Package is the [package] section.
type Package struct {
	Name  string `toml:"name"`
	Model string `toml:"model"`
	Out   string `toml:"out"`
}

// Emit is the [emit] section.
type Emit struct {
	Minimize bool   `toml:"minimize"`
	Runtime  string `toml:"runtime"`
	Indent   string `toml:"indent"`
	Compact  bool   `toml:"compact"`
}

// Manifest is a parsed salt.toml. Relative paths are resolved against Root.
type Manifest struct {
	Root    string                    `toml:"-"`
	Package Package                   `toml:"package"`
	Emit    Emit                      `toml:"emit"`
	Modules map[string]ModuleOverride `toml:"modules"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrModelMissing indicates that [package].model is missing.
	ErrModelMissing = errors.New("missing [package].model")
	// ErrInvalidRuntime indicates an [emit].runtime that is not an identifier.
	ErrInvalidRuntime = errors.New("invalid [emit].runtime")
)

const (
	DefaultRuntime = "ss"
	DefaultOut     = "dist"
)

// Default returns the manifest `salt init` writes.
func Default(name string) *Manifest {
	return &Manifest{
		Package: Package{Name: name, Model: "build/model.json", Out: DefaultOut},
		Emit:    Emit{Runtime: DefaultRuntime, Indent: "\t"},
	}
}

// LoadManifest parses and validates salt.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(m.Package.Model) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrModelMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("emit", "indent") {
		m.Emit.Indent = "\t"
	}
	if m.Emit.Runtime == "" {
		m.Emit.Runtime = DefaultRuntime
	}
	if !jsname.IsValidIdentifier(m.Emit.Runtime) {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrInvalidRuntime, m.Emit.Runtime)
	}
	if m.Package.Out == "" {
		m.Package.Out = DefaultOut
	}
	for name, o := range m.Modules {
		if o.ScriptModule != nil && strings.TrimSpace(*o.ScriptModule) == "" {
			return nil, fmt.Errorf("%s: module %q has an empty script_module", path, name)
		}
	}
	m.Root = filepath.Dir(path)
	return &m, nil
}

// Write encodes the manifest as TOML.
func (m *Manifest) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}

// ModelPath is the symbol model document path, resolved against Root.
func (m *Manifest) ModelPath() string { return m.resolve(m.Package.Model) }

// OutDir is the output directory, resolved against Root.
func (m *Manifest) OutDir() string { return m.resolve(m.Package.Out) }

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Root == "" {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Override returns the [modules] entry for a module name.
func (m *Manifest) Override(module string) (ModuleOverride, bool) {
	if m == nil {
		return ModuleOverride{}, false
	}
	o, ok := m.Modules[module]
	return o, ok
}
