package model

import (
	"errors"
	"slices"
	"testing"
)

func TestFullNameAndVisibility(t *testing.T) {
	b := NewBuilder(nil)
	mod := b.AddModule(Module{Name: "App"})
	outer := b.AddType(Type{Name: "Outer", Namespace: "App", Module: mod, Flags: TypePublic})
	inner := b.AddType(Type{Name: "Inner", Module: mod, Declaring: outer, Arity: 1})
	pub := b.AddMember(Member{Owner: outer, Name: "Run", Kind: MemberMethod, Access: AccessPublic})
	hidden := b.AddMember(Member{Owner: inner, Name: "Run", Kind: MemberMethod, Access: AccessPublic})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := prog.FullName(inner); got != "App.Outer+Inner`1" {
		t.Fatalf("FullName = %q", got)
	}
	if prog.Outermost(inner) != outer {
		t.Fatalf("Outermost(inner) != outer")
	}
	if !prog.IsTypeExternallyVisible(outer) || prog.IsTypeExternallyVisible(inner) {
		t.Fatalf("unexpected type visibility")
	}
	if !prog.IsMemberExternallyVisible(pub) || prog.IsMemberExternallyVisible(hidden) {
		t.Fatalf("unexpected member visibility")
	}
	if got := prog.MemberName(pub); got != "App.Outer.Run" {
		t.Fatalf("MemberName = %q", got)
	}
}

func TestAncestors(t *testing.T) {
	b := NewBuilder(nil)
	mod := b.AddModule(Module{Name: "App"})
	root := b.AddType(Type{Name: "Object", Namespace: "System", Module: mod, Flags: TypeRoot})
	iface := b.AddType(Type{Name: "IThing", Namespace: "App", Module: mod, Kind: TypeInterface})
	base := b.AddType(Type{Name: "Base", Namespace: "App", Module: mod, Base: root, Interfaces: []TypeID{iface}})
	derived := b.AddType(Type{Name: "Derived", Namespace: "App", Module: mod, Base: base, Interfaces: []TypeID{iface}})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got, want := prog.Ancestors(derived), []TypeID{root, iface, base}; !slices.Equal(got, want) {
		t.Fatalf("Ancestors = %v, want %v", got, want)
	}
	if !prog.DerivesFrom(derived, iface) || prog.DerivesFrom(base, derived) {
		t.Fatalf("unexpected DerivesFrom")
	}
}

func TestSyntheticAccessors(t *testing.T) {
	b := NewBuilder(nil)
	mod := b.AddModule(Module{Name: "App"})
	typ := b.AddType(Type{Name: "Widget", Namespace: "App", Module: mod})
	prop := b.AddMember(Member{Owner: typ, Name: "Size", Kind: MemberProperty, Access: AccessPublic, Return: "int"})
	ro := b.AddMember(Member{Owner: typ, Name: "Id", Kind: MemberProperty, Access: AccessPublic, Return: "int", Flags: MemberReadOnly})
	ev := b.AddMember(Member{Owner: typ, Name: "Changed", Kind: MemberEvent, Access: AccessPublic, Return: "Action"})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p := prog.Member(prop)
	getter, setter := prog.Member(p.Getter), prog.Member(p.Setter)
	if getter == nil || setter == nil {
		t.Fatalf("missing accessors for Size")
	}
	if getter.Name != "get_Size" || getter.Origin != OriginSynthetic || getter.Accessor != prop || getter.Return != "int" {
		t.Fatalf("unexpected getter: %+v", getter)
	}
	if setter.Name != "set_Size" || len(setter.Params) != 1 || setter.Params[0].Type != "int" {
		t.Fatalf("unexpected setter: %+v", setter)
	}
	if prog.Member(ro).Setter.IsValid() {
		t.Fatalf("read-only property got a setter")
	}
	e := prog.Member(ev)
	if prog.Member(e.Adder).Name != "add_Changed" || prog.Member(e.Remover).Name != "remove_Changed" {
		t.Fatalf("unexpected event accessors")
	}
	if !slices.Contains(prog.Type(typ).Members, p.Getter) {
		t.Fatalf("getter not registered on owner")
	}
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder(nil)
	b.AddModule(Module{Name: "App"})
	b.AddModule(Module{Name: "App"})
	mod := ModuleID(1)
	b.AddType(Type{Name: "Widget", Namespace: "App", Module: mod, Base: TypeID(42)})
	_, err := b.Build()
	if !errors.Is(err, ErrDuplicateModule) || !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected duplicate module and dangling reference, got %v", err)
	}
}
