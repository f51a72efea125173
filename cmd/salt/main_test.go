package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

const testModel = `{
  "modules": [{"name": "App", "scriptModule": "app"}],
  "types": [
    {"key": "System.Object", "name": "Object", "namespace": "System", "module": "App", "kind": "class", "flags": ["public", "root"]},
    {"key": "App.Widget", "name": "Widget", "namespace": "App", "module": "App", "kind": "class", "flags": ["public"], "base": "System.Object"}
  ],
  "members": []
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	cases := []struct {
		value string
		tty   bool
		want  bool
	}{
		{"auto", true, true},
		{"auto", false, false},
		{"on", false, true},
		{"off", true, false},
	}
	for _, tc := range cases {
		got, err := colorEnabled(tc.value, tc.tty)
		if err != nil || got != tc.want {
			t.Fatalf("colorEnabled(%q, %v) = %v, %v", tc.value, tc.tty, got, err)
		}
	}
	if _, err := colorEnabled("rainbow", true); err == nil {
		t.Fatalf("expected error for invalid color mode")
	}
}

func TestReadUIMode(t *testing.T) {
	if m, err := readUIMode("ON"); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode(ON) = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid ui mode")
	}
	if shouldUseTUI(uiModeOff, false) || !shouldUseTUI(uiModeOn, true) {
		t.Fatalf("explicit ui modes must win")
	}
}

func TestInitWritesManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "webapp")
	if _, err := execute(t, "init", "--quiet", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	m, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "webapp" || m.Emit.Runtime != project.DefaultRuntime {
		t.Fatalf("unexpected manifest: %+v", m.Package)
	}
	if _, err := execute(t, "init", "--quiet", dir); err == nil {
		t.Fatalf("second init must fail")
	}
}

func TestBuildWritesScripts(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	if err := os.WriteFile(model, []byte(testModel), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	out := filepath.Join(dir, "dist")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	text, err := execute(t, "build", "--quiet=false", "--ui=off", "--color=off", "--out", out, model)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, text)
	}
	if !strings.Contains(text, "wrote 1 file(s)") {
		t.Fatalf("unexpected output: %s", text)
	}
	data, err := os.ReadFile(filepath.Join(out, "app.js"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "App.Widget") {
		t.Fatalf("unexpected script:\n%s", data)
	}
}

func TestVersionJSON(t *testing.T) {
	text, err := execute(t, "version", "--format", "json")
	if err != nil || !strings.Contains(text, `"tool": "salt"`) {
		t.Fatalf("version: %v\n%s", err, text)
	}
}

func TestCleanRemovesCache(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	stale := filepath.Join(base, "salt", "out", "stale.mp")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(stale, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, err := execute(t, "clean", "--quiet=false")
	if err != nil {
		t.Fatalf("clean: %v\n%s", err, text)
	}
	if !strings.Contains(text, "removed ") {
		t.Fatalf("unexpected output: %s", text)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale entry survived: %v", err)
	}
}

func writeTestModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestResolvePrintsTable(t *testing.T) {
	text, err := execute(t, "resolve", writeTestModel(t, testModel))
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, text)
	}
	if !strings.Contains(text, "'App.Widget'") {
		t.Fatalf("table missing App.Widget:\n%s", text)
	}
}

func TestDiagReportsImportCycle(t *testing.T) {
	const cyclic = `{
  "modules": [
    {"name": "A", "references": ["B"]},
    {"name": "B", "references": ["A"]}
  ],
  "types": [],
  "members": []
}`
	text, err := execute(t, "diag", "--format", "json", "--no-cache", writeTestModel(t, cyclic))
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v\n%s", err, text)
	}
	if !strings.Contains(text, `"PRJ5004"`) {
		t.Fatalf("missing import cycle code:\n%s", text)
	}
}
