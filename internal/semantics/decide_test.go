package semantics

import (
	"slices"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

func TestDecideMethodPrecedence(t *testing.T) {
	cases := []struct {
		name       string
		facts      MethodFacts
		want       MethodStrategy
		ignored    []model.MarkerKind
		misapplied []model.MarkerKind
	}{
		{"default", MethodFacts{}, MethodNormal, nil, nil},
		{"non-scriptable wins", MethodFacts{Markers: model.Of(model.MarkerNonScriptable, model.MarkerInlineCode)},
			MethodNotUsable, []model.MarkerKind{model.MarkerInlineCode}, nil},
		{"inline beats skip", MethodFacts{Markers: model.Of(model.MarkerInlineCode, model.MarkerScriptSkip)},
			MethodInlineCode, []model.MarkerKind{model.MarkerScriptSkip}, nil},
		{"skip static one param", MethodFacts{Markers: model.Of(model.MarkerScriptSkip), Static: true, Params: 1}, MethodScriptSkip, nil, nil},
		{"skip wrong shape", MethodFacts{Markers: model.Of(model.MarkerScriptSkip), Params: 2},
			MethodNormal, nil, []model.MarkerKind{model.MarkerScriptSkip}},
		{"alias on instance", MethodFacts{Markers: model.Of(model.MarkerScriptAlias)},
			MethodNormal, nil, []model.MarkerKind{model.MarkerScriptAlias}},
		{"serializable instance", MethodFacts{OwnerSerializable: true}, MethodStaticWithReceiver, nil, nil},
		{"serializable static", MethodFacts{OwnerSerializable: true, Static: true}, MethodNormal, nil, nil},
	}
	for _, tc := range cases {
		d := DecideMethod(tc.facts)
		if d.Strategy != tc.want {
			t.Fatalf("%s: strategy = %v, want %v", tc.name, d.Strategy, tc.want)
		}
		if !slices.Equal(d.Ignored, tc.ignored) {
			t.Fatalf("%s: ignored = %v, want %v", tc.name, d.Ignored, tc.ignored)
		}
		if !slices.Equal(d.Misapplied, tc.misapplied) {
			t.Fatalf("%s: misapplied = %v, want %v", tc.name, d.Misapplied, tc.misapplied)
		}
	}
}

func TestDecidePropertyIntrinsic(t *testing.T) {
	in := model.Of(model.MarkerIntrinsicProperty)
	if got := DecideProperty(PropertyFacts{Markers: in, Indexer: true, Params: 1}).Strategy; got != PropertyNativeIndexer {
		t.Fatalf("indexer: %v", got)
	}
	if got := DecideProperty(PropertyFacts{Markers: in}).Strategy; got != PropertyField {
		t.Fatalf("property: %v", got)
	}
	d := DecideProperty(PropertyFacts{Markers: in, Virtual: true})
	if d.Strategy != PropertyAccessors || len(d.Misapplied) != 1 {
		t.Fatalf("virtual: %+v", d)
	}
}

func TestDecideName(t *testing.T) {
	cases := []struct {
		name  string
		facts NameFacts
		want  NameSource
	}{
		{"default", NameFacts{}, NameCamelCase},
		{"explicit beats preserve", NameFacts{Markers: model.Of(model.MarkerScriptName, model.MarkerPreserveCase)}, NameExplicit},
		{"owner preserves", NameFacts{OwnerPreservesCase: true}, NamePreserveCase},
		{"accessor ignores owner case", NameFacts{OwnerPreservesCase: true, Accessor: true}, NameAccessorPattern},
		{"minimized", NameFacts{Minimize: true}, NameMinimized},
		{"visible not minimized", NameFacts{Minimize: true, Visible: true}, NameCamelCase},
		{"preserve name", NameFacts{Minimize: true, Markers: model.Of(model.MarkerPreserveName)}, NameCamelCase},
		{"accessor of minimized", NameFacts{Minimize: true, Accessor: true, AccessorOfMinimized: true}, NameMinimized},
		{"accessor of named", NameFacts{Minimize: true, Accessor: true}, NameAccessorPattern},
	}
	for _, tc := range cases {
		if got := DecideName(tc.facts).Strategy; got != tc.want {
			t.Fatalf("%s: %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecideField(t *testing.T) {
	if got := DecideField(FieldFacts{Const: true, HasConstant: true}).Strategy; got != FieldConstant {
		t.Fatalf("const: %v", got)
	}
	if got := DecideField(FieldFacts{Const: true, OwnerNamedValues: true, HasConstant: true}).Strategy; got != FieldNamedValue {
		t.Fatalf("named values: %v", got)
	}
	d := DecideField(FieldFacts{Markers: model.Of(model.MarkerInlineConstant)})
	if d.Strategy != FieldNormal || !slices.Equal(d.Misapplied, []model.MarkerKind{model.MarkerInlineConstant}) {
		t.Fatalf("inline constant without value: %+v", d)
	}
}
