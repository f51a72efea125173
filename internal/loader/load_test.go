package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

const sampleJSON = `{
  "files": ["src/App.cs"],
  "modules": [
    {"name": "App", "scriptModule": "app", "async": true, "references": ["Lib"]},
    {"name": "Lib"}
  ],
  "types": [
    {"key": "System.Object", "name": "Object", "namespace": "System", "module": "Lib", "kind": "class", "flags": ["public", "root"]},
    {"key": "App.Widget", "name": "Widget", "namespace": "App", "module": "App", "kind": "class",
     "flags": ["public"], "base": "System.Object",
     "markers": [{"kind": "ScriptName", "arg": "W", "span": {"file": 0, "line": 3, "col": 2}}],
     "span": {"file": 0, "line": 4, "col": 1},
     "staticInit": [{"k": "expr", "a": [{"k": "call", "a": [{"k": "dot", "s": "init", "a": [{"k": "type", "t": "App.Widget"}]}]}]}]}
  ],
  "members": [
    {"key": "App.Widget::Render()", "owner": "App.Widget", "name": "Render", "kind": "method", "access": "public",
     "flags": ["virtual"], "return": "void",
     "body": {"params": [], "stmts": [{"k": "return", "a": [{"k": "new", "a": [{"k": "type", "t": "System.Object"}]}]}]}},
    {"key": "App.Widget::Size", "owner": "App.Widget", "name": "Size", "kind": "property", "access": "public", "return": "int"},
    {"key": "App.Widget::count", "owner": "App.Widget", "name": "count", "kind": "field", "flags": ["static"],
     "return": "int", "init": {"k": "num", "n": 3}}
  ]
}`

func TestLoadJSON(t *testing.T) {
	res, err := Load([]byte(sampleJSON), FormatJSON, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	prog := res.Program
	app, ok := prog.ModuleByName("App")
	if !ok {
		t.Fatalf("module App missing")
	}
	mod := prog.Module(app)
	if !mod.Has(model.ModuleAsync) || mod.ScriptModule != "app" || len(mod.References) != 1 {
		t.Fatalf("module not decoded: %+v", mod)
	}
	wid, _ := prog.TypeByKey("App.Widget")
	w := prog.Type(wid)
	obj, _ := prog.TypeByKey("System.Object")
	if w.Base != obj {
		t.Fatalf("base = %d, want %d", w.Base, obj)
	}
	sn, ok := w.Markers.Get(model.MarkerScriptName)
	if !ok || sn.Arg != "W" || !sn.HasArg || sn.Span.Start.Line != 3 {
		t.Fatalf("marker = %+v", sn)
	}
	if got := prog.Files.Path(w.Span.File, ""); got != "src/App.cs" {
		t.Fatalf("span file = %q", got)
	}

	size, _ := prog.MemberByKey("App.Widget::Size")
	if getter := prog.Member(prog.Member(size).Getter); getter == nil || getter.Name != "get_Size" || getter.Origin != model.OriginSynthetic {
		t.Fatalf("synthetic getter missing")
	}

	render, _ := prog.MemberByKey("App.Widget::Render()")
	body, ok := res.Fragments.Body(render)
	if !ok {
		t.Fatalf("body missing")
	}
	want := "return new $Type" + strconv.FormatUint(uint64(obj), 10) + "();\n"
	if got := jsast.PrintString(body.Body, jsast.PrintOptions{}); got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
	if len(res.Fragments.StaticInit(wid)) != 1 {
		t.Fatalf("static init missing")
	}
	count, _ := prog.MemberByKey("App.Widget::count")
	if init, ok := res.Fragments.FieldInit(count); !ok || init.(*jsast.ENumber).Value != 3 {
		t.Fatalf("field init = %v", init)
	}
}

func TestLoadMsgpackFile(t *testing.T) {
	res, err := Load([]byte(sampleJSON), FormatJSON, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var doc Document
	if err := decodeJSON([]byte(sampleJSON), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := Encode(&doc, FormatMsgpack)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.mp")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Program.TypeCount() != 2 || got.Program.MemberCount() != res.Program.MemberCount() {
		t.Fatalf("msgpack program differs: %d types, %d members", got.Program.TypeCount(), got.Program.MemberCount())
	}
}

func TestLoadErrors(t *testing.T) {
	bad := `{"modules": [{"name": "A"}], "types": [{"key": "A.T", "name": "T", "module": "A", "kind": "class", "base": "Missing"}], "members": []}`
	_, err := Load([]byte(bad), FormatJSON, nil)
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	badKind := `{"modules": [{"name": "A"}], "types": [{"key": "A.T", "name": "T", "module": "A", "kind": "trait"}], "members": []}`
	if _, err := Load([]byte(badKind), FormatJSON, nil); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	if _, err := FormatFor("model.yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
