package semantics

import (
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// fixture builds small programs with one module and a root object type.
type fixture struct {
	b    *model.Builder
	mod  model.ModuleID
	root model.TypeID
}

func newFixture(flags model.ModuleFlags) *fixture {
	b := model.NewBuilder(nil)
	mod := b.AddModule(model.Module{Name: "App", Flags: flags})
	root := b.AddType(model.Type{Name: "Object", Namespace: "System", Module: mod, Flags: model.TypePublic | model.TypeRoot})
	return &fixture{b: b, mod: mod, root: root}
}

func marker(k model.MarkerKind, arg string) model.Marker {
	return model.Marker{Kind: k, Arg: arg, HasArg: arg != ""}
}

func (f *fixture) class(ns, name string, flags model.TypeFlags, markers ...model.Marker) model.TypeID {
	return f.b.AddType(model.Type{Name: name, Namespace: ns, Module: f.mod, Kind: model.TypeClass, Flags: flags, Base: f.root, Markers: markers})
}

func (f *fixture) iface(ns, name string) model.TypeID {
	return f.b.AddType(model.Type{Name: name, Namespace: ns, Module: f.mod, Kind: model.TypeInterface, Flags: model.TypePublic})
}

func (f *fixture) method(owner model.TypeID, name string, flags model.MemberFlags, params ...string) model.MemberID {
	m := model.Member{Owner: owner, Name: name, Kind: model.MemberMethod, Access: model.AccessPublic, Flags: flags, Return: "void"}
	for i, p := range params {
		m.Params = append(m.Params, model.Param{Name: string(rune('a' + i)), Type: p})
	}
	return f.b.AddMember(m)
}

func (f *fixture) ctor(owner model.TypeID, params ...string) model.MemberID {
	m := model.Member{Owner: owner, Name: ".ctor", Kind: model.MemberConstructor, Access: model.AccessPublic}
	for i, p := range params {
		m.Params = append(m.Params, model.Param{Name: string(rune('a' + i)), Type: p})
	}
	return f.b.AddMember(m)
}

func (f *fixture) mark(id model.MemberID, ms ...model.Marker) {
	m := f.b.Member(id)
	m.Markers = append(m.Markers, ms...)
}

func (f *fixture) resolve(t *testing.T, opts Options) (*Table, *diag.Bag) {
	t.Helper()
	prog, err := f.b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bag := diag.NewBag(100)
	return Resolve(NewContext(diag.BagReporter{Bag: bag}, opts), prog), bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, c := range bag.Codes() {
		if c == code {
			return true
		}
	}
	return false
}

func methodName(t *testing.T, tab *Table, id model.MemberID) string {
	t.Helper()
	rec, ok := tab.Method(id).(NormalMethod)
	if !ok {
		t.Fatalf("%s: record %v is not a normal method", tab.Program().MemberName(id), tab.Member(id))
	}
	return rec.Name
}
