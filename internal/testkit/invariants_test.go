package testkit

import (
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/semantics"
)

func TestCheckTableResolvedProgram(t *testing.T) {
	b := model.NewBuilder(nil)
	mod := b.AddModule(model.Module{Name: "App"})
	root := b.AddType(model.Type{Name: "Object", Namespace: "System", Module: mod, Flags: model.TypePublic | model.TypeRoot})
	widget := b.AddType(model.Type{Name: "Widget", Namespace: "App", Module: mod, Kind: model.TypeClass, Flags: model.TypePublic, Base: root})
	b.AddMember(model.Member{Owner: widget, Name: "Render", Kind: model.MemberMethod, Access: model.AccessPublic, Return: "void"})
	b.AddMember(model.Member{Owner: widget, Name: "Render", Kind: model.MemberMethod, Access: model.AccessPublic, Return: "void",
		Params: []model.Param{{Name: "depth", Type: "int"}}})
	b.AddMember(model.Member{Owner: widget, Name: "delete", Kind: model.MemberMethod, Access: model.AccessPublic, Return: "void"})
	b.AddMember(model.Member{Owner: widget, Name: ".ctor", Kind: model.MemberConstructor, Access: model.AccessPublic})
	b.AddMember(model.Member{Owner: widget, Name: "count", Kind: model.MemberField, Access: model.AccessPublic, Flags: model.MemberStatic, Return: "int"})
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bag := diag.NewBag(100)
	tab := semantics.Resolve(semantics.NewContext(diag.BagReporter{Bag: bag}, semantics.Options{}), prog)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if err := CheckTable(tab); err != nil {
		t.Fatalf("CheckTable: %v", err)
	}
}

func TestCheckTableNil(t *testing.T) {
	if err := CheckTable(nil); err == nil {
		t.Fatalf("expected error for nil table")
	}
}
