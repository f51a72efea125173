package jsast

// CloneStmts deep-copies a statement list so that fragments handed in by the
// code generator are never rewritten in place.
func CloneStmts(list []Stmt) []Stmt {
	if list == nil {
		return nil
	}
	out := make([]Stmt, len(list))
	for i, s := range list {
		out[i] = CloneStmt(s)
	}
	return out
}

func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *SExpr:
		return &SExpr{Value: CloneExpr(s.Value)}
	case *SVar:
		decls := make([]Decl, len(s.Decls))
		for i, d := range s.Decls {
			decls[i] = Decl{Name: d.Name, Value: CloneExpr(d.Value)}
		}
		return &SVar{Decls: decls}
	case *SFunction:
		return &SFunction{Fn: CloneFunction(s.Fn)}
	case *SReturn:
		return &SReturn{Value: CloneExpr(s.Value)}
	case *SIf:
		return &SIf{Test: CloneExpr(s.Test), Yes: CloneStmts(s.Yes), No: CloneStmts(s.No)}
	case *SBlock:
		return &SBlock{Body: CloneStmts(s.Body)}
	case *SThrow:
		return &SThrow{Value: CloneExpr(s.Value)}
	case *STry:
		return &STry{Body: CloneStmts(s.Body), CatchParam: s.CatchParam, Catch: CloneStmts(s.Catch), Finally: CloneStmts(s.Finally)}
	case *SFor:
		var init Stmt
		if s.Init != nil {
			init = CloneStmt(s.Init)
		}
		return &SFor{Init: init, Test: CloneExpr(s.Test), Update: CloneExpr(s.Update), Body: CloneStmts(s.Body)}
	case *SForIn:
		return &SForIn{Var: s.Var, Object: CloneExpr(s.Object), Body: CloneStmts(s.Body)}
	case *SWhile:
		return &SWhile{Test: CloneExpr(s.Test), Body: CloneStmts(s.Body)}
	case *SBreak:
		return &SBreak{}
	case *SContinue:
		return &SContinue{}
	case *SDirective:
		return &SDirective{Value: s.Value}
	case *SComment:
		return &SComment{Text: s.Text}
	}
	return s
}

func CloneFunction(fn *Function) *Function {
	if fn == nil {
		return nil
	}
	return &Function{Name: fn.Name, Params: append([]string(nil), fn.Params...), Body: CloneStmts(fn.Body)}
}

func cloneExprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = CloneExpr(e)
	}
	return out
}

func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *EIdentifier:
		return &EIdentifier{Name: e.Name}
	case *ETypeRef:
		return &ETypeRef{Type: e.Type}
	case *ERuntime:
		return &ERuntime{Member: e.Member}
	case *EDot:
		return &EDot{Target: CloneExpr(e.Target), Name: e.Name}
	case *EIndex:
		return &EIndex{Target: CloneExpr(e.Target), Index: CloneExpr(e.Index)}
	case *ECall:
		return &ECall{Target: CloneExpr(e.Target), Args: cloneExprs(e.Args)}
	case *ENew:
		return &ENew{Target: CloneExpr(e.Target), Args: cloneExprs(e.Args)}
	case *EFunction:
		return &EFunction{Fn: CloneFunction(e.Fn)}
	case *EString:
		return &EString{Value: e.Value}
	case *ENumber:
		return &ENumber{Value: e.Value}
	case *EBoolean:
		return &EBoolean{Value: e.Value}
	case *ENull:
		return &ENull{}
	case *EUndefined:
		return &EUndefined{}
	case *EThis:
		return &EThis{}
	case *EArray:
		return &EArray{Items: cloneExprs(e.Items)}
	case *EObject:
		props := make([]Property, len(e.Props))
		for i, p := range e.Props {
			props[i] = Property{Key: p.Key, Value: CloneExpr(p.Value)}
		}
		return &EObject{Props: props}
	case *EBinary:
		return &EBinary{Op: e.Op, Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}
	case *EUnary:
		return &EUnary{Op: e.Op, Value: CloneExpr(e.Value)}
	case *ECond:
		return &ECond{Test: CloneExpr(e.Test), Yes: CloneExpr(e.Yes), No: CloneExpr(e.No)}
	}
	return e
}
