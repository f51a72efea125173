package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSetWithBase("/work/app")
	file := fs.Add("/work/app/src/Widget.cs")
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemDuplicateScriptName, source.Span{File: file, Start: source.LineCol{Line: 12, Col: 5}}, "duplicate script name \"render\"").
		WithNote(source.Span{File: file, Start: source.LineCol{Line: 8, Col: 5}}, "first declared here"))
	bag.Add(diag.New(diag.SevWarning, diag.LnkInitCycle, source.Span{}, "static initialization cycle"))
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "src/Widget.cs:12:5: ERROR SEM3014: duplicate script name \"render\"\n" +
		"  note: src/Widget.cs:8:5: first declared here\n" +
		"<generated>: WARNING LNK4002: static initialization cycle\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyPathModesAndLimit(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Widget.cs:12:5:") || !strings.Contains(out, "... and 1 more") || strings.Contains(out, "note:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored output")
	}
}

func TestShortAndSummary(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatalf("Short: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", n, buf.String())
	}
	if got := Summary(bag); got != "1 error, 1 warning" {
		t.Fatalf("Summary = %q", got)
	}
	if got := Summary(diag.NewBag(0)); got != "0 errors, 0 warnings" {
		t.Fatalf("Summary = %q", got)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag()
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings", Notes: []diag.Note{{Msg: `{"total_ms":1}`}}})
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 3 || out.Diagnostics[0].Code != "SEM3014" || out.Diagnostics[0].Location.StartLine != 12 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Diagnostics[0].Location.File != "src/Widget.cs" || len(out.Diagnostics[0].Notes) != 0 {
		t.Fatalf("notes must be opt-in: %+v", out.Diagnostics[0])
	}
	if len(out.Diagnostics[2].Notes) != 1 {
		t.Fatalf("timings keep their payload note")
	}
}
