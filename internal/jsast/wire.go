package jsast

import (
	"errors"
	"fmt"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// Node is the serialized form of statements and expressions exchanged with
// the code generator. One shape covers every kind: K names the kind, S, N,
// B and T carry scalars, P carries name lists, A child expressions and L
// nested statement lists. Type references travel as document keys in T.
type Node struct {
	K string    `json:"k" msgpack:"k"`
	S string    `json:"s,omitempty" msgpack:"s,omitempty"`
	N float64   `json:"n,omitempty" msgpack:"n,omitempty"`
	B bool      `json:"b,omitempty" msgpack:"b,omitempty"`
	T string    `json:"t,omitempty" msgpack:"t,omitempty"`
	P []string  `json:"p,omitempty" msgpack:"p,omitempty"`
	A []*Node   `json:"a,omitempty" msgpack:"a,omitempty"`
	L [][]*Node `json:"l,omitempty" msgpack:"l,omitempty"`
}

// ErrUnknownNode is returned for kinds the decoder does not know.
var ErrUnknownNode = errors.New("unknown node kind")

// TypeKeyFunc maps a type id to its document key when encoding.
type TypeKeyFunc func(model.TypeID) string

// TypeResolveFunc maps a document key back to a type id when decoding.
type TypeResolveFunc func(key string) (model.TypeID, error)

// EncodeStmts converts statements into wire nodes.
func EncodeStmts(list []Stmt, key TypeKeyFunc) []*Node {
	if list == nil {
		return nil
	}
	out := make([]*Node, len(list))
	for i, s := range list {
		out[i] = encodeStmt(s, key)
	}
	return out
}

func encodeStmt(s Stmt, key TypeKeyFunc) *Node {
	switch s := s.(type) {
	case *SExpr:
		return &Node{K: "expr", A: []*Node{EncodeExpr(s.Value, key)}}
	case *SVar:
		n := &Node{K: "var"}
		for _, d := range s.Decls {
			n.P = append(n.P, d.Name)
			n.A = append(n.A, EncodeExpr(d.Value, key))
		}
		return n
	case *SFunction:
		return &Node{K: "function", S: s.Fn.Name, P: s.Fn.Params, L: [][]*Node{EncodeStmts(s.Fn.Body, key)}}
	case *SReturn:
		n := &Node{K: "return"}
		if s.Value != nil {
			n.A = []*Node{EncodeExpr(s.Value, key)}
		}
		return n
	case *SIf:
		return &Node{K: "if", A: []*Node{EncodeExpr(s.Test, key)}, L: [][]*Node{EncodeStmts(s.Yes, key), EncodeStmts(s.No, key)}}
	case *SBlock:
		return &Node{K: "block", L: [][]*Node{EncodeStmts(s.Body, key)}}
	case *SThrow:
		return &Node{K: "throw", A: []*Node{EncodeExpr(s.Value, key)}}
	case *STry:
		return &Node{
			K: "try",
			S: s.CatchParam,
			B: s.CatchParam != "" || s.Catch != nil,
			L: [][]*Node{EncodeStmts(s.Body, key), EncodeStmts(s.Catch, key), EncodeStmts(s.Finally, key)},
		}
	case *SFor:
		var init []*Node
		if s.Init != nil {
			init = []*Node{encodeStmt(s.Init, key)}
		}
		return &Node{K: "for", A: []*Node{EncodeExpr(s.Test, key), EncodeExpr(s.Update, key)}, L: [][]*Node{init, EncodeStmts(s.Body, key)}}
	case *SForIn:
		return &Node{K: "forin", S: s.Var, A: []*Node{EncodeExpr(s.Object, key)}, L: [][]*Node{EncodeStmts(s.Body, key)}}
	case *SWhile:
		return &Node{K: "while", A: []*Node{EncodeExpr(s.Test, key)}, L: [][]*Node{EncodeStmts(s.Body, key)}}
	case *SBreak:
		return &Node{K: "break"}
	case *SContinue:
		return &Node{K: "continue"}
	case *SDirective:
		return &Node{K: "directive", S: s.Value}
	case *SComment:
		return &Node{K: "comment", S: s.Text}
	}
	return nil
}

// EncodeExpr converts one expression; nil stays nil.
func EncodeExpr(e Expr, key TypeKeyFunc) *Node {
	exprs := func(list []Expr) []*Node {
		out := make([]*Node, len(list))
		for i, x := range list {
			out[i] = EncodeExpr(x, key)
		}
		return out
	}
	switch e := e.(type) {
	case nil:
		return nil
	case *EIdentifier:
		return &Node{K: "ident", S: e.Name}
	case *ETypeRef:
		return &Node{K: "type", T: key(e.Type)}
	case *ERuntime:
		return &Node{K: "runtime", S: e.Member}
	case *EDot:
		return &Node{K: "dot", S: e.Name, A: []*Node{EncodeExpr(e.Target, key)}}
	case *EIndex:
		return &Node{K: "index", A: []*Node{EncodeExpr(e.Target, key), EncodeExpr(e.Index, key)}}
	case *ECall:
		return &Node{K: "call", A: append([]*Node{EncodeExpr(e.Target, key)}, exprs(e.Args)...)}
	case *ENew:
		return &Node{K: "new", A: append([]*Node{EncodeExpr(e.Target, key)}, exprs(e.Args)...)}
	case *EFunction:
		return &Node{K: "fn", S: e.Fn.Name, P: e.Fn.Params, L: [][]*Node{EncodeStmts(e.Fn.Body, key)}}
	case *EString:
		return &Node{K: "str", S: e.Value}
	case *ENumber:
		return &Node{K: "num", N: e.Value}
	case *EBoolean:
		return &Node{K: "bool", B: e.Value}
	case *ENull:
		return &Node{K: "null"}
	case *EUndefined:
		return &Node{K: "undef"}
	case *EThis:
		return &Node{K: "this"}
	case *EArray:
		return &Node{K: "array", A: exprs(e.Items)}
	case *EObject:
		n := &Node{K: "object"}
		for _, p := range e.Props {
			n.P = append(n.P, p.Key)
			n.A = append(n.A, EncodeExpr(p.Value, key))
		}
		return n
	case *EBinary:
		return &Node{K: "bin", S: e.Op, A: []*Node{EncodeExpr(e.Left, key), EncodeExpr(e.Right, key)}}
	case *EUnary:
		return &Node{K: "unary", S: e.Op, A: []*Node{EncodeExpr(e.Value, key)}}
	case *ECond:
		return &Node{K: "cond", A: []*Node{EncodeExpr(e.Test, key), EncodeExpr(e.Yes, key), EncodeExpr(e.No, key)}}
	}
	return nil
}

type decoder struct {
	resolve TypeResolveFunc
}

// DecodeStmts converts wire nodes back into statements.
func DecodeStmts(nodes []*Node, resolve TypeResolveFunc) ([]Stmt, error) {
	d := decoder{resolve: resolve}
	return d.stmts(nodes)
}

// DecodeExpr converts a single wire expression.
func DecodeExpr(n *Node, resolve TypeResolveFunc) (Expr, error) {
	d := decoder{resolve: resolve}
	return d.expr(n)
}

func (d *decoder) stmts(nodes []*Node) ([]Stmt, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]Stmt, 0, len(nodes))
	for _, n := range nodes {
		s, err := d.stmt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (n *Node) arg(i int) *Node {
	if i < len(n.A) {
		return n.A[i]
	}
	return nil
}

func (n *Node) list(i int) []*Node {
	if i < len(n.L) {
		return n.L[i]
	}
	return nil
}

func (d *decoder) stmt(n *Node) (Stmt, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil statement", ErrUnknownNode)
	}
	var err error
	sub := func(i int) []Stmt {
		if err != nil {
			return nil
		}
		var list []Stmt
		list, err = d.stmts(n.list(i))
		return list
	}
	ex := func(i int) Expr {
		if err != nil {
			return nil
		}
		var e Expr
		e, err = d.expr(n.arg(i))
		return e
	}
	var s Stmt
	switch n.K {
	case "expr":
		s = &SExpr{Value: ex(0)}
	case "var":
		if len(n.P) != len(n.A) && len(n.A) != 0 {
			return nil, fmt.Errorf("var: %d names but %d values", len(n.P), len(n.A))
		}
		v := &SVar{Decls: make([]Decl, len(n.P))}
		for i, name := range n.P {
			v.Decls[i] = Decl{Name: name, Value: ex(i)}
		}
		s = v
	case "function":
		s = &SFunction{Fn: &Function{Name: n.S, Params: n.P, Body: sub(0)}}
	case "return":
		s = &SReturn{Value: ex(0)}
	case "if":
		s = &SIf{Test: ex(0), Yes: sub(0), No: sub(1)}
	case "block":
		s = &SBlock{Body: sub(0)}
	case "throw":
		s = &SThrow{Value: ex(0)}
	case "try":
		t := &STry{Body: sub(0), Finally: sub(2)}
		if n.B {
			t.CatchParam = n.S
			t.Catch = sub(1)
			if t.Catch == nil {
				t.Catch = []Stmt{}
			}
		}
		s = t
	case "for":
		f := &SFor{Test: ex(0), Update: ex(1), Body: sub(1)}
		if init := sub(0); len(init) > 0 {
			f.Init = init[0]
		}
		s = f
	case "forin":
		s = &SForIn{Var: n.S, Object: ex(0), Body: sub(0)}
	case "while":
		s = &SWhile{Test: ex(0), Body: sub(0)}
	case "break":
		s = &SBreak{}
	case "continue":
		s = &SContinue{}
	case "directive":
		s = &SDirective{Value: n.S}
	case "comment":
		s = &SComment{Text: n.S}
	default:
		return nil, fmt.Errorf("%w: statement %q", ErrUnknownNode, n.K)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.K, err)
	}
	return s, nil
}

func (d *decoder) exprs(nodes []*Node) ([]Expr, error) {
	out := make([]Expr, len(nodes))
	for i, n := range nodes {
		e, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (d *decoder) expr(n *Node) (Expr, error) {
	if n == nil {
		return nil, nil
	}
	var err error
	ex := func(i int) Expr {
		if err != nil {
			return nil
		}
		var e Expr
		e, err = d.expr(n.arg(i))
		return e
	}
	var e Expr
	switch n.K {
	case "ident":
		e = &EIdentifier{Name: n.S}
	case "type":
		if d.resolve == nil {
			return nil, fmt.Errorf("type reference %q without resolver", n.T)
		}
		id, rerr := d.resolve(n.T)
		if rerr != nil {
			return nil, rerr
		}
		e = &ETypeRef{Type: id}
	case "runtime":
		e = &ERuntime{Member: n.S}
	case "dot":
		e = &EDot{Target: ex(0), Name: n.S}
	case "index":
		e = &EIndex{Target: ex(0), Index: ex(1)}
	case "call", "new":
		if len(n.A) == 0 {
			return nil, fmt.Errorf("%s without target", n.K)
		}
		target := ex(0)
		var args []Expr
		if err == nil {
			args, err = d.exprs(n.A[1:])
		}
		if n.K == "call" {
			e = &ECall{Target: target, Args: args}
		} else {
			e = &ENew{Target: target, Args: args}
		}
	case "fn":
		body, berr := d.stmts(n.list(0))
		err = berr
		e = &EFunction{Fn: &Function{Name: n.S, Params: n.P, Body: body}}
	case "str":
		e = &EString{Value: n.S}
	case "num":
		e = &ENumber{Value: n.N}
	case "bool":
		e = &EBoolean{Value: n.B}
	case "null":
		e = &ENull{}
	case "undef":
		e = &EUndefined{}
	case "this":
		e = &EThis{}
	case "array":
		items, aerr := d.exprs(n.A)
		err = aerr
		e = &EArray{Items: items}
	case "object":
		if len(n.P) != len(n.A) {
			return nil, fmt.Errorf("object: %d keys but %d values", len(n.P), len(n.A))
		}
		o := &EObject{Props: make([]Property, len(n.P))}
		for i, k := range n.P {
			o.Props[i] = Property{Key: k, Value: ex(i)}
		}
		e = o
	case "bin":
		e = &EBinary{Op: n.S, Left: ex(0), Right: ex(1)}
	case "unary":
		e = &EUnary{Op: n.S, Value: ex(0)}
	case "cond":
		e = &ECond{Test: ex(0), Yes: ex(1), No: ex(2)}
	default:
		return nil, fmt.Errorf("%w: expression %q", ErrUnknownNode, n.K)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.K, err)
	}
	return e, nil
}
