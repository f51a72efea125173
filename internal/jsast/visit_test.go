package jsast

import "testing"

func TestWalkScopesAndBindings(t *testing.T) {
	prog := []Stmt{
		&SVar{Decls: []Decl{{Name: "a"}}},
		&SFunction{Fn: &Function{Name: "f", Params: []string{"p"}, Body: []Stmt{
			&STry{Body: []Stmt{}, CatchParam: "e", Catch: []Stmt{&SExpr{Value: Ident("e")}}},
			&SExpr{Value: &EFunction{Fn: &Function{Name: "g"}}},
		}}},
	}
	var events []string
	Walk(prog, &Visitor{
		EnterFunction: func(fn *Function) { events = append(events, "enter "+fn.Name) },
		LeaveFunction: func(fn *Function) { events = append(events, "leave "+fn.Name) },
		EnterCatch:    func(*STry) { events = append(events, "catch") },
		LeaveCatch:    func(*STry) { events = append(events, "end catch") },
		Bind: func(name string) string {
			events = append(events, "bind "+name)
			return name + "_"
		},
	})
	want := []string{
		"bind a", "bind f", "enter f_", "bind p", "catch", "bind e", "end catch",
		"enter g", "bind g", "leave g_", "leave f_",
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %q, want %q (all: %v)", i, events[i], want[i], events)
		}
	}
}

func TestWalkRewritesExpressions(t *testing.T) {
	prog := []Stmt{&SReturn{Value: Call(Dot(&ETypeRef{Type: 3}, "m"), &ETypeRef{Type: 4}, &ETypeRef{Type: 3})}}
	refs := TypeRefs(prog)
	if len(refs) != 2 || refs[0].Type != 3 || refs[1].Type != 4 {
		t.Fatalf("TypeRefs = %v", refs)
	}
	Walk(prog, &Visitor{Expr: func(e Expr) Expr {
		if r, ok := e.(*ETypeRef); ok {
			return Ident("T" + string(rune('0'+r.Type)))
		}
		return e
	}})
	if got := PrintString(prog, PrintOptions{}); got != "return T3.m(T4, T3);\n" {
		t.Fatalf("rewritten = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := []Stmt{&SFunction{Fn: &Function{Name: "f", Params: []string{"x"}, Body: []Stmt{&SReturn{Value: Ident("x")}}}}}
	cp := CloneStmts(orig)
	Walk(cp, &Visitor{Bind: func(string) string { return "y" }, Expr: func(e Expr) Expr {
		if id, ok := e.(*EIdentifier); ok {
			id.Name = "y"
		}
		return e
	}})
	if got := PrintString(orig, PrintOptions{}); got != "function f(x) {\n\treturn x;\n}\n" {
		t.Fatalf("original mutated: %q", got)
	}
}
