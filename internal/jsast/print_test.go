package jsast

import (
	"testing"
)

func TestPrintStatements(t *testing.T) {
	prog := []Stmt{
		&SDirective{Value: "use strict"},
		&SVar{Decls: []Decl{{Name: "a", Value: &ENumber{Value: 1}}, {Name: "b"}}},
		&SFunction{Fn: &Function{Name: "f", Params: []string{"x", "y"}, Body: []Stmt{
			&SIf{
				Test: &EBinary{Op: "===", Left: Ident("x"), Right: &ENull{}},
				Yes:  []Stmt{&SReturn{Value: Str("it's")}},
				No:   []Stmt{&SIf{Test: Ident("y"), Yes: []Stmt{&SReturn{}}}},
			},
			&SThrow{Value: &ENew{Target: Ident("Error"), Args: []Expr{Str("x")}}},
		}}},
		Assign(Dot(Ident("ns"), "C", "prototype"), &EObject{Props: []Property{{Key: "m", Value: Fn(nil)}, {Key: "a-b", Value: &EBoolean{Value: true}}}}),
	}
	want := "'use strict';\n" +
		"var a = 1, b;\n" +
		"function f(x, y) {\n" +
		"\tif (x === null) {\n" +
		"\t\treturn 'it\\'s';\n" +
		"\t} else if (y) {\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"\tthrow new Error('x');\n" +
		"}\n" +
		"ns.C.prototype = { m: function() {\n" +
		"}, 'a-b': true };\n"
	if got := PrintString(prog, PrintOptions{}); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintPrecedence(t *testing.T) {
	cases := []struct {
		e    Expr
		want string
	}{
		{&EBinary{Op: "*", Left: &EBinary{Op: "+", Left: Ident("a"), Right: Ident("b")}, Right: Ident("c")}, "(a + b) * c"},
		{&EBinary{Op: "+", Left: Ident("a"), Right: &EBinary{Op: "*", Left: Ident("b"), Right: Ident("c")}}, "a + b * c"},
		{&EBinary{Op: "-", Left: Ident("a"), Right: &EBinary{Op: "-", Left: Ident("b"), Right: Ident("c")}}, "a - (b - c)"},
		{&EBinary{Op: "=", Left: Ident("a"), Right: &EBinary{Op: "=", Left: Ident("b"), Right: Ident("c")}}, "a = b = c"},
		{&EUnary{Op: "typeof", Value: Ident("x")}, "typeof x"},
		{&EUnary{Op: "!", Value: &EBinary{Op: "&&", Left: Ident("a"), Right: Ident("b")}}, "!(a && b)"},
		{&EBinary{Op: "-", Left: Ident("a"), Right: &ENumber{Value: -1}}, "a - -1"},
		{Dot(&ENumber{Value: -1}, "x"), "(-1).x"},
		{&ECond{Test: Ident("a"), Yes: Ident("b"), No: &ECond{Test: Ident("c"), Yes: Ident("d"), No: Ident("e")}}, "a ? b : c ? d : e"},
		{Call(Fn(nil)), "(function() {\n})()"},
		{&ENew{Target: Call(Ident("f"))}, "new (f())()"},
		{&EIndex{Target: Ident("a"), Index: Str("b\n")}, "a['b\\n']"},
		{&EBinary{Op: "in", Left: Str("k"), Right: Ident("o")}, "'k' in o"},
		{&ENumber{Value: 1.5e300}, "1.5e+300"},
	}
	for _, tc := range cases {
		if got := PrintExpr(tc.e, PrintOptions{}); got != tc.want {
			t.Fatalf("PrintExpr = %q, want %q", got, tc.want)
		}
	}
}

func TestPrintMinify(t *testing.T) {
	prog := []Stmt{
		&SComment{Text: "dropped"},
		&SVar{Decls: []Decl{{Name: "a", Value: &EBinary{Op: "+", Left: Ident("b"), Right: &EUnary{Op: "+", Value: Ident("c")}}}}},
		&SReturn{Value: &EUnary{Op: "typeof", Value: Ident("a")}},
	}
	want := "var a=b+ +c;return typeof a;"
	if got := PrintString(prog, PrintOptions{Minify: true}); got != want {
		t.Fatalf("minified = %q, want %q", got, want)
	}
}

func TestPrintAmbiguousStatementStart(t *testing.T) {
	prog := []Stmt{
		&SExpr{Value: Call(Dot(Fn(nil), "call"), &EThis{})},
		&SExpr{Value: Call(Fn(nil))},
	}
	want := "(function() {\n}.call(this));\n(function() {\n})();\n"
	if got := PrintString(prog, PrintOptions{}); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintTryAndLoops(t *testing.T) {
	prog := []Stmt{
		&STry{Body: []Stmt{&SBreak{}}, CatchParam: "e", Catch: []Stmt{}, Finally: []Stmt{&SContinue{}}},
		&SFor{Init: &SVar{Decls: []Decl{{Name: "i", Value: &ENumber{Value: 0}}}}, Test: &EBinary{Op: "<", Left: Ident("i"), Right: Ident("n")}, Update: &EBinary{Op: "+=", Left: Ident("i"), Right: &ENumber{Value: 1}}},
		&SForIn{Var: "k", Object: Ident("o")},
	}
	want := "try {\n\tbreak;\n} catch (e) {\n} finally {\n\tcontinue;\n}\n" +
		"for (var i = 0; i < n; i += 1) {\n}\n" +
		"for (var k in o) {\n}\n"
	if got := PrintString(prog, PrintOptions{}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
