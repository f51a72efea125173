package jsast

// Visitor receives scope boundaries, binding names and expressions while a
// statement tree is traversed. Every hook is optional.
//
// Binding names (var declarations, parameters, function names, catch
// parameters, for-in variables) go through Bind, whose result replaces the
// name. Expressions go through Expr after their children, and the result
// replaces the expression. A declared function's name is bound in the
// enclosing scope before EnterFunction; a function expression's own name is
// bound after EnterFunction.
type Visitor struct {
	EnterFunction func(fn *Function)
	LeaveFunction func(fn *Function)
	EnterCatch    func(t *STry)
	LeaveCatch    func(t *STry)
	Bind          func(name string) string
	Expr          func(e Expr) Expr
}

// Walk traverses stmts in source order, rewriting in place.
func Walk(stmts []Stmt, v *Visitor) {
	w := walker{v: v}
	w.stmts(stmts)
}

// WalkExpr traverses a single expression and returns its replacement.
func WalkExpr(e Expr, v *Visitor) Expr {
	w := walker{v: v}
	return w.expr(e)
}

type walker struct{ v *Visitor }

func (w *walker) bind(name string) string {
	if name == "" || w.v.Bind == nil {
		return name
	}
	return w.v.Bind(name)
}

func (w *walker) stmts(list []Stmt) {
	for _, s := range list {
		w.stmt(s)
	}
}

func (w *walker) stmt(s Stmt) {
	switch s := s.(type) {
	case *SExpr:
		s.Value = w.expr(s.Value)
	case *SVar:
		for i := range s.Decls {
			s.Decls[i].Name = w.bind(s.Decls[i].Name)
			s.Decls[i].Value = w.expr(s.Decls[i].Value)
		}
	case *SFunction:
		s.Fn.Name = w.bind(s.Fn.Name)
		w.function(s.Fn, false)
	case *SReturn:
		s.Value = w.expr(s.Value)
	case *SIf:
		s.Test = w.expr(s.Test)
		w.stmts(s.Yes)
		w.stmts(s.No)
	case *SBlock:
		w.stmts(s.Body)
	case *SThrow:
		s.Value = w.expr(s.Value)
	case *STry:
		w.stmts(s.Body)
		if s.CatchParam != "" || s.Catch != nil {
			if w.v.EnterCatch != nil {
				w.v.EnterCatch(s)
			}
			s.CatchParam = w.bind(s.CatchParam)
			w.stmts(s.Catch)
			if w.v.LeaveCatch != nil {
				w.v.LeaveCatch(s)
			}
		}
		w.stmts(s.Finally)
	case *SFor:
		if s.Init != nil {
			w.stmt(s.Init)
		}
		s.Test = w.expr(s.Test)
		s.Update = w.expr(s.Update)
		w.stmts(s.Body)
	case *SForIn:
		s.Var = w.bind(s.Var)
		s.Object = w.expr(s.Object)
		w.stmts(s.Body)
	case *SWhile:
		s.Test = w.expr(s.Test)
		w.stmts(s.Body)
	}
}

func (w *walker) function(fn *Function, bindOwnName bool) {
	if w.v.EnterFunction != nil {
		w.v.EnterFunction(fn)
	}
	if bindOwnName {
		fn.Name = w.bind(fn.Name)
	}
	for i := range fn.Params {
		fn.Params[i] = w.bind(fn.Params[i])
	}
	w.stmts(fn.Body)
	if w.v.LeaveFunction != nil {
		w.v.LeaveFunction(fn)
	}
}

func (w *walker) exprs(list []Expr) {
	for i := range list {
		list[i] = w.expr(list[i])
	}
}

func (w *walker) expr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *EDot:
		e.Target = w.expr(e.Target)
	case *EIndex:
		e.Target = w.expr(e.Target)
		e.Index = w.expr(e.Index)
	case *ECall:
		e.Target = w.expr(e.Target)
		w.exprs(e.Args)
	case *ENew:
		e.Target = w.expr(e.Target)
		w.exprs(e.Args)
	case *EFunction:
		w.function(e.Fn, true)
	case *EArray:
		w.exprs(e.Items)
	case *EObject:
		for i := range e.Props {
			e.Props[i].Value = w.expr(e.Props[i].Value)
		}
	case *EBinary:
		e.Left = w.expr(e.Left)
		e.Right = w.expr(e.Right)
	case *EUnary:
		e.Value = w.expr(e.Value)
	case *ECond:
		e.Test = w.expr(e.Test)
		e.Yes = w.expr(e.Yes)
		e.No = w.expr(e.No)
	}
	if w.v.Expr != nil {
		return w.v.Expr(e)
	}
	return e
}

// TypeRefs collects every type referenced by stmts, in first-seen order
// and without duplicates.
func TypeRefs(stmts []Stmt) []ETypeRef {
	var out []ETypeRef
	seen := make(map[ETypeRef]bool)
	Walk(stmts, &Visitor{Expr: func(e Expr) Expr {
		if ref, ok := e.(*ETypeRef); ok && !seen[*ref] {
			seen[*ref] = true
			out = append(out, *ref)
		}
		return e
	}})
	return out
}
