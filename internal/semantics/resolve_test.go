package semantics

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

func TestTypeNames(t *testing.T) {
	f := newFixture(0)
	widget := f.class("App", "Widget", model.TypePublic)
	list := f.b.AddType(model.Type{Name: "List", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: f.root, Arity: 2})
	inner := f.b.AddType(model.Type{Name: "Inner", Module: f.mod, Flags: model.TypePublic, Base: f.root, Declaring: widget})
	short := f.class("App", "Short", model.TypePublic, marker(model.MarkerScriptName, "S"))
	full := f.class("App", "Full", model.TypePublic, marker(model.MarkerScriptName, "x.Y"))
	plain := f.class("App", "Plain", model.TypePublic, marker(model.MarkerIgnoreNamespace, ""))
	moved := f.class("App", "Moved", model.TypePublic, marker(model.MarkerScriptNamespace, "lib.ui"))
	tab, bag := f.resolve(t, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	want := map[model.TypeID]string{
		widget: "App.Widget",
		list:   "App.List$2",
		inner:  "App.Widget$Inner",
		short:  "App.S",
		full:   "x.Y",
		plain:  "Plain",
		moved:  "lib.ui.Moved",
	}
	for id, name := range want {
		if got, _ := tab.TypeName(id); got != name {
			t.Fatalf("%s: name = %q, want %q", tab.Program().FullName(id), got, name)
		}
	}
	if nt := tab.Type(f.root).(NormalType); nt.GenerateCode {
		t.Fatalf("root type must not generate code")
	}
}

func TestMinimizedTypeNames(t *testing.T) {
	f := newFixture(model.ModuleMinimize)
	b := f.class("", "B", 0)
	a := f.class("", "A", 0)
	pub := f.class("", "Pub", model.TypePublic)
	kept := f.class("", "Kept", 0, marker(model.MarkerPreserveName, ""))
	nsd := f.class("App", "Hidden", 0)
	tab, _ := f.resolve(t, Options{})
	want := map[model.TypeID]string{a: "$0", b: "$1", pub: "Pub", kept: "Kept", nsd: "App.$0"}
	for id, name := range want {
		if got, _ := tab.TypeName(id); got != name {
			t.Fatalf("%s: name = %q, want %q", tab.Program().FullName(id), got, name)
		}
	}
}

func TestConstructorNames(t *testing.T) {
	f := newFixture(0)
	c := f.class("App", "C", model.TypePublic)
	one := f.ctor(c, "int")
	none := f.ctor(c)
	two := f.ctor(c, "int", "int")
	tab, _ := f.resolve(t, Options{})
	if _, ok := tab.Constructor(none).(UnnamedCtor); !ok {
		t.Fatalf("parameterless ctor = %v", tab.Member(none))
	}
	if got := tab.Constructor(one); got != (NamedCtor{Name: "$ctor1", GenerateCode: true}) {
		t.Fatalf("one-argument ctor = %v", got)
	}
	if got := tab.Constructor(two); got != (NamedCtor{Name: "$ctor2", GenerateCode: true}) {
		t.Fatalf("two-argument ctor = %v", got)
	}
}

func TestOverloadsAndReservedNames(t *testing.T) {
	f := newFixture(0)
	c := f.class("App", "C", model.TypePublic)
	runInt := f.method(c, "Run", 0, "int")
	run := f.method(c, "Run", 0)
	name := f.method(c, "Name", model.MemberStatic)
	ctorName := f.method(c, "Constructor", 0)
	getID := f.method(c, "GetID", 0)
	tab, _ := f.resolve(t, Options{})
	cases := map[model.MemberID]string{
		run:      "run",
		runInt:   "run$1",
		name:     "name$1",
		ctorName: "constructor$1",
		getID:    "getID",
	}
	for id, want := range cases {
		if got := methodName(t, tab, id); got != want {
			t.Fatalf("%s: name = %q, want %q", tab.Program().MemberName(id), got, want)
		}
	}
}

func TestOverrideReusesBaseName(t *testing.T) {
	f := newFixture(0)
	base := f.class("App", "Base", model.TypePublic)
	baseDo := f.method(base, "DoIt", model.MemberVirtual)
	f.mark(baseDo, marker(model.MarkerScriptName, "go"))
	derived := f.b.AddType(model.Type{Name: "Derived", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: base})
	over := f.method(derived, "DoIt", model.MemberOverride)
	f.b.Member(over).Overrides = baseDo
	other := f.b.AddType(model.Type{Name: "Other", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: base})
	renamed := f.method(other, "DoIt", model.MemberOverride)
	f.b.Member(renamed).Overrides = baseDo
	f.mark(renamed, marker(model.MarkerScriptName, "run"))

	tab, bag := f.resolve(t, Options{})
	if got := methodName(t, tab, over); got != "go" {
		t.Fatalf("override name = %q, want go", got)
	}
	if got := methodName(t, tab, renamed); got != "run" {
		t.Fatalf("renamed override = %q, want run", got)
	}
	if !hasCode(bag, diag.SemOverrideRename) {
		t.Fatalf("expected %v, got %v", diag.SemOverrideRename, bag.Codes())
	}
}

// dualImplementations declares two capability types with a Run member and
// a type implementing each of them explicitly.
func dualImplementations(t *testing.T) (*Table, *diag.Bag, model.MemberID, model.MemberID) {
	t.Helper()
	f := newFixture(0)
	ia := f.iface("App", "IA")
	ib := f.iface("App", "IB")
	iaRun := f.method(ia, "Run", model.MemberAbstract)
	ibRun := f.method(ib, "Run", model.MemberAbstract)
	c := f.b.AddType(model.Type{Name: "C", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: f.root, Interfaces: []model.TypeID{ia, ib}})
	implA := f.method(c, "Run", model.MemberExplicitImpl)
	f.b.Member(implA).Implements = []model.MemberID{iaRun}
	implB := f.method(c, "Run", model.MemberExplicitImpl)
	f.b.Member(implB).Implements = []model.MemberID{ibRun}
	tab, bag := f.resolve(t, Options{})
	return tab, bag, implA, implB
}

func TestImplementationsWithSameDefaultName(t *testing.T) {
	tab, bag, implA, implB := dualImplementations(t)
	got := []string{methodName(t, tab, implA), methodName(t, tab, implB)}
	if !slices.Equal(got, []string{"run", "run$1"}) {
		t.Fatalf("names = %v", got)
	}
	if !hasCode(bag, diag.SemDifferingScriptName) {
		t.Fatalf("expected %v, got %v", diag.SemDifferingScriptName, bag.Codes())
	}

	tab2, bag2, _, _ := dualImplementations(t)
	var d1, d2 bytes.Buffer
	if err := tab.Dump(&d1); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if err := tab2.Dump(&d2); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if d1.String() != d2.String() {
		t.Fatalf("dumps differ:\n%s\n---\n%s", d1.String(), d2.String())
	}
	if !slices.Equal(bag.Codes(), bag2.Codes()) {
		t.Fatalf("diagnostics differ: %v vs %v", bag.Codes(), bag2.Codes())
	}
}

func TestSeparateImplementationsCollide(t *testing.T) {
	_, bag, _, _ := dualImplementations(t)
	var found *diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Code == diag.SemCollidingInheritedMember {
			found = &d
			break
		}
	}
	if found == nil {
		t.Fatalf("expected %v, got %v", diag.SemCollidingInheritedMember, bag.Codes())
	}
	if found.Severity != diag.SevWarning {
		t.Fatalf("severity = %v", found.Severity)
	}
	if !strings.Contains(found.Message, "App.IA") || !strings.Contains(found.Message, "App.IB") {
		t.Fatalf("message = %q", found.Message)
	}
	var notes []string
	for _, n := range found.Notes {
		notes = append(notes, n.Msg)
	}
	slices.Sort(notes)
	want := []string{"declared as App.IA.Run", "declared as App.IB.Run"}
	if !slices.Equal(notes, want) {
		t.Fatalf("notes = %v, want %v", notes, want)
	}
}

func TestSharedImplementationHasNoCollision(t *testing.T) {
	f := newFixture(0)
	ia := f.iface("App", "IA")
	ib := f.iface("App", "IB")
	iaRun := f.method(ia, "Run", model.MemberAbstract)
	ibRun := f.method(ib, "Run", model.MemberAbstract)
	c := f.b.AddType(model.Type{Name: "C", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: f.root, Interfaces: []model.TypeID{ia, ib}})
	impl := f.method(c, "Run", 0)
	f.b.Member(impl).Implements = []model.MemberID{iaRun, ibRun}

	tab, bag := f.resolve(t, Options{})
	if got := methodName(t, tab, impl); got != "run" {
		t.Fatalf("name = %q", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestDifferingInterfaceNames(t *testing.T) {
	f := newFixture(0)
	ia := f.iface("App", "IA")
	ib := f.iface("App", "IB")
	iaRun := f.method(ia, "Run", model.MemberAbstract)
	ibRun := f.method(ib, "Run", model.MemberAbstract)
	f.mark(ibRun, marker(model.MarkerScriptName, "execute"))
	c := f.b.AddType(model.Type{Name: "C", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: f.root, Interfaces: []model.TypeID{ib, ia}})
	impl := f.method(c, "Run", 0)
	f.b.Member(impl).Implements = []model.MemberID{ibRun, iaRun}

	tab, bag := f.resolve(t, Options{})
	// App.IA sorts before App.IB.
	if got := methodName(t, tab, impl); got != "run" {
		t.Fatalf("name = %q, want run", got)
	}
	if !hasCode(bag, diag.SemDifferingScriptName) {
		t.Fatalf("expected %v, got %v", diag.SemDifferingScriptName, bag.Codes())
	}
}

func TestDuplicateExplicitName(t *testing.T) {
	f := newFixture(0)
	c := f.class("App", "C", model.TypePublic)
	a := f.method(c, "A", 0)
	b := f.method(c, "B", 0)
	f.mark(a, marker(model.MarkerScriptName, "go"))
	f.mark(b, marker(model.MarkerScriptName, "go"))
	tab, bag := f.resolve(t, Options{})
	if methodName(t, tab, a) != "go" || methodName(t, tab, b) != "go$1" {
		t.Fatalf("names = %q, %q", methodName(t, tab, a), methodName(t, tab, b))
	}
	if !hasCode(bag, diag.SemDuplicateScriptName) {
		t.Fatalf("expected %v, got %v", diag.SemDuplicateScriptName, bag.Codes())
	}
}

func TestMinimizedMembers(t *testing.T) {
	f := newFixture(model.ModuleMinimize)
	c := f.class("", "C", 0)
	first := f.method(c, "Alpha", 0)
	second := f.method(c, "Beta", 0)
	static := f.method(c, "Create", model.MemberStatic)
	tab, _ := f.resolve(t, Options{})
	if methodName(t, tab, first) != "$0" || methodName(t, tab, second) != "$1" {
		t.Fatalf("minimized = %q, %q", methodName(t, tab, first), methodName(t, tab, second))
	}
	if got := methodName(t, tab, static); got != "create" {
		t.Fatalf("static = %q", got)
	}
}

func TestMinimizedMembersPastTen(t *testing.T) {
	f := newFixture(model.ModuleMinimize)
	c := f.class("", "C", 0)
	var ids []model.MemberID
	for i := 0; i < 12; i++ {
		ids = append(ids, f.method(c, "M"+strconv.Itoa(i), 0))
	}
	tab, _ := f.resolve(t, Options{})
	seen := make(map[string]bool)
	for i, id := range ids {
		got := methodName(t, tab, id)
		if want := jsname.MinimizedName(i); got != want {
			t.Fatalf("member %d = %q, want %q", i, got, want)
		}
		if seen[got] {
			t.Fatalf("member %d reuses %q", i, got)
		}
		seen[got] = true
	}
	if methodName(t, tab, ids[10]) != "$a" || methodName(t, tab, ids[11]) != "$b" {
		t.Fatalf("tail = %q, %q", methodName(t, tab, ids[10]), methodName(t, tab, ids[11]))
	}
}

func TestSerializableType(t *testing.T) {
	f := newFixture(0)
	point := f.class("App", "Point", model.TypePublic|model.TypeSealed, marker(model.MarkerSerializable, ""))
	ctor := f.ctor(point, "double", "double")
	area := f.method(point, "Area", 0)
	width := f.b.AddMember(model.Member{Owner: point, Name: "Width", Kind: model.MemberProperty, Access: model.AccessPublic, Return: "double"})
	plain := f.class("App", "Plain", model.TypePublic)
	bad := f.b.AddType(model.Type{Name: "Bad", Namespace: "App", Module: f.mod, Flags: model.TypePublic, Base: plain, Markers: model.Markers{marker(model.MarkerSerializable, "")}})

	tab, bag := f.resolve(t, Options{})
	if got := tab.Constructor(ctor); got != (StaticFactory{Name: "$ctor", GenerateCode: true}) {
		t.Fatalf("ctor = %v", got)
	}
	if got := tab.Method(area); got != (StaticWithReceiverFirst{Name: "Area", GenerateCode: true}) {
		t.Fatalf("method = %v", got)
	}
	if got := tab.Property(width); got != (FieldBackedProperty{Name: "Width"}) {
		t.Fatalf("property = %v", got)
	}
	if tab.Info(bad).Serializable || !hasCode(bag, diag.SemSerializableBase) {
		t.Fatalf("serializable base not rejected: %v", bag.Codes())
	}
}

func TestMixinAndGlobalMethods(t *testing.T) {
	f := newFixture(0)
	mixin := f.class("App", "Plugins", model.TypePublic|model.TypeStatic, marker(model.MarkerMixin, "$.fn"))
	f.method(mixin, "Tooltip", model.MemberStatic)
	notStatic := f.class("App", "Broken", model.TypePublic, marker(model.MarkerMixin, "$.fn"))
	global := f.class("App", "Globals", model.TypePublic|model.TypeStatic, marker(model.MarkerGlobalMethods, ""))
	tab, bag := f.resolve(t, Options{})
	if got, _ := tab.TypeName(mixin); got != "$.fn" {
		t.Fatalf("mixin name = %q", got)
	}
	if got, _ := tab.TypeName(notStatic); got != "App.Broken" || tab.Info(notStatic).Strategy != TypeNormal {
		t.Fatalf("broken mixin = %q %v", got, tab.Info(notStatic).Strategy)
	}
	if got, ok := tab.TypeName(global); !ok || got != "" {
		t.Fatalf("global methods name = %q", got)
	}
	if !hasCode(bag, diag.SemMixinNotStatic) {
		t.Fatalf("expected %v, got %v", diag.SemMixinNotStatic, bag.Codes())
	}
}

func TestAlternateSignatureSharesMain(t *testing.T) {
	f := newFixture(0)
	c := f.class("App", "C", model.TypePublic)
	alt := f.method(c, "Run", 0, "string")
	f.mark(alt, marker(model.MarkerAlternateSignature, ""))
	main := f.method(c, "Run", 0, "int")
	tab, bag := f.resolve(t, Options{})
	if got := tab.Method(main); got != (NormalMethod{Name: "run", GenerateCode: true}) {
		t.Fatalf("main = %v", got)
	}
	if got := tab.Method(alt); got != (NormalMethod{Name: "run"}) {
		t.Fatalf("alternate = %v", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestMarkerDiagnostics(t *testing.T) {
	f := newFixture(0)
	c := f.class("App", "C", model.TypePublic)
	both := f.method(c, "Both", 0)
	f.mark(both, marker(model.MarkerNonScriptable, ""), model.Marker{Kind: model.MarkerInlineCode, Arg: "{this}.x()", HasArg: true})
	invalid := f.method(c, "Invalid", 0)
	f.mark(invalid, marker(model.MarkerScriptName, "1abc"))
	tmpl := f.method(c, "Tmpl", 0, "int")
	f.mark(tmpl, marker(model.MarkerInlineCode, "{zz} + 1"))
	good := f.method(c, "Good", model.MemberStatic, "int", "int")
	f.mark(good, marker(model.MarkerInlineCode, "{a} + {b}"))

	tab, bag := f.resolve(t, Options{})
	if _, ok := tab.Method(both).(NotUsableMethod); !ok {
		t.Fatalf("both = %v", tab.Member(both))
	}
	if got := methodName(t, tab, invalid); got != "invalid" {
		t.Fatalf("invalid fallback = %q", got)
	}
	if got := methodName(t, tab, tmpl); got != "tmpl" {
		t.Fatalf("template fallback = %q", got)
	}
	if got := tab.Method(good); got != (InlineCode{Template: "{a} + {b}"}) {
		t.Fatalf("good = %v", got)
	}
	for _, code := range []diag.Code{diag.SemMarkerConflict, diag.SemInvalidScriptName, diag.SemInvalidInlineCode} {
		if !hasCode(bag, code) {
			t.Fatalf("missing %v in %v", code, bag.Codes())
		}
	}
}

func TestNotUsableTypeAndNamedValues(t *testing.T) {
	f := newFixture(0)
	hidden := f.class("App", "Hidden", model.TypePublic, marker(model.MarkerNonScriptable, ""))
	m := f.method(hidden, "Run", 0)
	nested := f.b.AddType(model.Type{Name: "Inner", Module: f.mod, Flags: model.TypePublic, Base: f.root, Declaring: hidden})
	color := f.b.AddType(model.Type{Name: "Color", Namespace: "App", Module: f.mod, Kind: model.TypeEnum, Flags: model.TypePublic,
		Markers: model.Markers{marker(model.MarkerNamedValues, "")}})
	red := f.b.AddMember(model.Member{Owner: color, Name: "DarkRed", Kind: model.MemberField, Access: model.AccessPublic,
		Flags: model.MemberConst, Constant: &model.Constant{Kind: model.ConstNumber, Num: 0}})
	tab, _ := f.resolve(t, Options{})
	if _, ok := tab.Method(m).(NotUsableMethod); !ok {
		t.Fatalf("member of non-scriptable type = %v", tab.Member(m))
	}
	if _, ok := tab.Type(nested).(NotUsableType); !ok {
		t.Fatalf("nested type = %v", tab.Type(nested))
	}
	want := LiteralConstant{Value: model.Constant{Kind: model.ConstString, Str: "darkRed"}}
	if got := tab.Field(red); got != want {
		t.Fatalf("named value = %v", got)
	}
}
