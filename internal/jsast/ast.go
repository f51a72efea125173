// Package jsast is the output tree produced by the assembler and rewritten
// by the linker: a small, closed set of script statements and expressions.
package jsast

import "github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"

// Stmt is implemented by every statement node.
type Stmt interface{ isStmt() }

// Expr is implemented by every expression node.
type Expr interface{ isExpr() }

func (*SExpr) isStmt()      {}
func (*SVar) isStmt()       {}
func (*SFunction) isStmt()  {}
func (*SReturn) isStmt()    {}
func (*SIf) isStmt()        {}
func (*SBlock) isStmt()     {}
func (*SThrow) isStmt()     {}
func (*STry) isStmt()       {}
func (*SFor) isStmt()       {}
func (*SForIn) isStmt()     {}
func (*SWhile) isStmt()     {}
func (*SBreak) isStmt()     {}
func (*SContinue) isStmt()  {}
func (*SDirective) isStmt() {}
func (*SComment) isStmt()   {}

type SExpr struct{ Value Expr }

// Decl is one binding of a var statement. Value may be nil.
type Decl struct {
	Name  string
	Value Expr
}

type SVar struct{ Decls []Decl }

// SFunction is a function declaration; it binds Fn.Name in the enclosing scope.
type SFunction struct{ Fn *Function }

type SReturn struct{ Value Expr }

type SIf struct {
	Test Expr
	Yes  []Stmt
	No   []Stmt
}

type SBlock struct{ Body []Stmt }

type SThrow struct{ Value Expr }

// STry has an optional catch clause (CatchParam != "" or Catch != nil) and an
// optional finally block. The catch parameter lives in its own scope.
type STry struct {
	Body       []Stmt
	CatchParam string
	Catch      []Stmt
	Finally    []Stmt
}

type SFor struct {
	Init   Stmt
	Test   Expr
	Update Expr
	Body   []Stmt
}

// SForIn declares Var with function scope.
type SForIn struct {
	Var    string
	Object Expr
	Body   []Stmt
}

type SWhile struct {
	Test Expr
	Body []Stmt
}

type SBreak struct{}

type SContinue struct{}

// SDirective is a prologue directive such as 'use strict'.
type SDirective struct{ Value string }

type SComment struct{ Text string }

func (*EIdentifier) isExpr() {}
func (*ETypeRef) isExpr()    {}
func (*ERuntime) isExpr()    {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*ECall) isExpr()       {}
func (*ENew) isExpr()        {}
func (*EFunction) isExpr()   {}
func (*EString) isExpr()     {}
func (*ENumber) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ENull) isExpr()       {}
func (*EUndefined) isExpr()  {}
func (*EThis) isExpr()       {}
func (*EArray) isExpr()      {}
func (*EObject) isExpr()     {}
func (*EBinary) isExpr()     {}
func (*EUnary) isExpr()      {}
func (*ECond) isExpr()       {}

type EIdentifier struct{ Name string }

// ETypeRef refers to a type of the program. The linker replaces it with a
// path off a root identifier or a module alias.
type ETypeRef struct{ Type model.TypeID }

// ERuntime refers to a member of the runtime library.
type ERuntime struct{ Member string }

type EDot struct {
	Target Expr
	Name   string
}

type EIndex struct {
	Target Expr
	Index  Expr
}

type ECall struct {
	Target Expr
	Args   []Expr
}

type ENew struct {
	Target Expr
	Args   []Expr
}

type EFunction struct{ Fn *Function }

type EString struct{ Value string }

type ENumber struct{ Value float64 }

type EBoolean struct{ Value bool }

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type EArray struct{ Items []Expr }

// Property is one key/value entry of an object literal.
type Property struct {
	Key   string
	Value Expr
}

type EObject struct{ Props []Property }

// EBinary covers arithmetic, comparison, logical and assignment operators.
type EBinary struct {
	Op    string
	Left  Expr
	Right Expr
}

// EUnary is a prefix operator; Op may be a keyword ("typeof", "delete", "void").
type EUnary struct {
	Op    string
	Value Expr
}

type ECond struct {
	Test Expr
	Yes  Expr
	No   Expr
}

// Function is a function body with its parameters. Name is empty for
// anonymous function expressions.
type Function struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Helpers used by the assembler.

func Ident(name string) *EIdentifier { return &EIdentifier{Name: name} }

func Str(s string) *EString { return &EString{Value: s} }

func Dot(target Expr, names ...string) Expr {
	for _, n := range names {
		target = &EDot{Target: target, Name: n}
	}
	return target
}

func Call(target Expr, args ...Expr) *ECall { return &ECall{Target: target, Args: args} }

func Assign(left, right Expr) *SExpr {
	return &SExpr{Value: &EBinary{Op: "=", Left: left, Right: right}}
}

func Fn(params []string, body ...Stmt) *EFunction {
	return &EFunction{Fn: &Function{Params: params, Body: body}}
}
