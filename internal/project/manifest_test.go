package project

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "app"
model = "build/model.mp"

[emit]
minimize = true

[modules]
"App.Core" = { async = true, script_module = "core" }
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Emit.Runtime != DefaultRuntime || m.Emit.Indent != "\t" || !m.Emit.Minimize {
		t.Fatalf("emit defaults not applied: %+v", m.Emit)
	}
	if got, want := m.ModelPath(), filepath.Join(dir, "build", "model.mp"); got != want {
		t.Fatalf("ModelPath = %q, want %q", got, want)
	}
	if got, want := m.OutDir(), filepath.Join(dir, DefaultOut); got != want {
		t.Fatalf("OutDir = %q, want %q", got, want)
	}
	o, ok := m.Override("App.Core")
	if !ok || o.Async == nil || !*o.Async || o.ScriptModule == nil || *o.ScriptModule != "core" || o.Minimize != nil {
		t.Fatalf("override = %+v", o)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"no package", "[emit]\nminimize = true\n", ErrPackageSectionMissing},
		{"no model", "[package]\nname = \"x\"\n", ErrModelMissing},
		{"bad runtime", "[package]\nmodel = \"m.json\"\n[emit]\nruntime = \"1x\"\n", ErrInvalidRuntime},
	}
	for _, tc := range cases {
		path := writeManifest(t, t.TempDir(), tc.body)
		if _, err := LoadManifest(path); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	path := writeManifest(t, t.TempDir(), "[package]\nmodel = \"m.json\"\ncolor = 1\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("unknown key accepted")
	}
}

func TestDefaultManifestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default("demo").Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	dir := t.TempDir()
	path := writeManifest(t, dir, buf.String())
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v\n%s", err, buf.String())
	}
	if m.Package.Name != "demo" || m.Emit.Runtime != DefaultRuntime {
		t.Fatalf("round trip = %+v", m)
	}
	found, ok, err := FindManifest(filepath.Join(dir))
	if err != nil || !ok || found != path {
		t.Fatalf("FindManifest = %q %v %v", found, ok, err)
	}
}

func TestModuleNamesAndDigests(t *testing.T) {
	for name, want := range map[string]bool{"App": true, "App.Core": true, "a1.b_2": true, "": false, "1a": false, "a..b": false, "a.": false, "a-b": false} {
		if got := IsValidModuleName(name); got != want {
			t.Fatalf("IsValidModuleName(%q) = %v", name, got)
		}
	}
	a := HashBytes([]byte("a"))
	if Combine(a) == Combine(a, a) || CombineStrings(a, "x", "y") == CombineStrings(a, "xy") {
		t.Fatalf("digests collide")
	}
	if len(a.String()) != 64 || a.IsZero() {
		t.Fatalf("digest string = %q", a.String())
	}
}
