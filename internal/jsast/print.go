package jsast

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
)

// PrintOptions control rendering. An empty Indent means a tab.
type PrintOptions struct {
	Indent string
	Minify bool
}

// Print renders stmts to w.
func Print(w io.Writer, stmts []Stmt, opts PrintOptions) error {
	_, err := io.WriteString(w, PrintString(stmts, opts))
	return err
}

// PrintString renders stmts to a string.
func PrintString(stmts []Stmt, opts PrintOptions) string {
	p := newPrinter(opts)
	p.stmts(stmts)
	return p.sb.String()
}

// PrintExpr renders a single expression.
func PrintExpr(e Expr, opts PrintOptions) string {
	p := newPrinter(opts)
	p.expr(e, precLowest)
	return p.sb.String()
}

// Operator precedence, lowest first.
const (
	precLowest = iota
	precComma
	precAssign
	precCond
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precCompare
	precShift
	precAdd
	precMul
	precPrefix
	precNew
	precMember
)

var binaryPrec = map[string]int{
	",": precComma,
	"=": precAssign, "+=": precAssign, "-=": precAssign, "*=": precAssign, "/=": precAssign,
	"%=": precAssign, "|=": precAssign, "&=": precAssign, "^=": precAssign,
	"<<=": precAssign, ">>=": precAssign, ">>>=": precAssign,
	"||": precOr, "&&": precAnd, "|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precCompare, ">": precCompare, "<=": precCompare, ">=": precCompare,
	"instanceof": precCompare, "in": precCompare,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdd, "-": precAdd,
	"*": precMul, "/": precMul, "%": precMul,
}

type printer struct {
	sb     strings.Builder
	indent string
	minify bool
	depth  int
}

func newPrinter(opts PrintOptions) *printer {
	p := &printer{indent: opts.Indent, minify: opts.Minify}
	if p.indent == "" {
		p.indent = "\t"
	}
	return p
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *printer) last() byte {
	n := p.sb.Len()
	if n == 0 {
		return 0
	}
	return p.sb.String()[n-1]
}

// print writes s, inserting a space where two tokens would otherwise fuse.
func (p *printer) print(s string) {
	if s == "" {
		return
	}
	l := p.last()
	switch {
	case isWordByte(l) && isWordByte(s[0]):
		p.sb.WriteByte(' ')
	case (l == '+' || l == '-') && s[0] == l:
		p.sb.WriteByte(' ')
	}
	p.sb.WriteString(s)
}

// space writes a separator that minified output drops.
func (p *printer) space() {
	if !p.minify {
		p.sb.WriteByte(' ')
	}
}

func (p *printer) newline() {
	if !p.minify {
		p.sb.WriteByte('\n')
	}
}

func (p *printer) startLine() {
	if !p.minify {
		for i := 0; i < p.depth; i++ {
			p.sb.WriteString(p.indent)
		}
	}
}

func (p *printer) stmts(list []Stmt) {
	for _, s := range list {
		p.stmt(s)
	}
}

func (p *printer) block(body []Stmt) {
	p.print("{")
	p.newline()
	p.depth++
	p.stmts(body)
	p.depth--
	p.startLine()
	p.print("}")
}

func (p *printer) stmt(s Stmt) {
	if c, ok := s.(*SComment); ok {
		if p.minify {
			return
		}
		for _, line := range strings.Split(c.Text, "\n") {
			p.startLine()
			p.sb.WriteString("//")
			if line != "" {
				p.sb.WriteString(" " + line)
			}
			p.newline()
		}
		return
	}
	p.startLine()
	p.stmtInline(s)
	p.newline()
}

// stmtInline prints s without leading indentation or trailing newline.
func (p *printer) stmtInline(s Stmt) {
	switch s := s.(type) {
	case *SExpr:
		if startsAmbiguous(s.Value) {
			p.print("(")
			p.expr(s.Value, precLowest)
			p.print(")")
		} else {
			p.expr(s.Value, precLowest)
		}
		p.print(";")
	case *SVar:
		p.varDecls(s)
		p.print(";")
	case *SFunction:
		p.function(s.Fn)
	case *SReturn:
		p.print("return")
		if s.Value != nil {
			p.sb.WriteByte(' ')
			p.expr(s.Value, precLowest)
		}
		p.print(";")
	case *SIf:
		p.ifStmt(s)
	case *SBlock:
		p.block(s.Body)
	case *SThrow:
		p.print("throw ")
		p.expr(s.Value, precLowest)
		p.print(";")
	case *STry:
		p.print("try")
		p.space()
		p.block(s.Body)
		if s.CatchParam != "" || s.Catch != nil {
			p.space()
			p.print("catch")
			p.space()
			p.print("(" + s.CatchParam + ")")
			p.space()
			p.block(s.Catch)
		}
		if s.Finally != nil {
			p.space()
			p.print("finally")
			p.space()
			p.block(s.Finally)
		}
	case *SFor:
		p.print("for")
		p.space()
		p.print("(")
		switch init := s.Init.(type) {
		case nil:
		case *SVar:
			p.varDecls(init)
		case *SExpr:
			p.expr(init.Value, precLowest)
		}
		p.print(";")
		if s.Test != nil {
			p.space()
			p.expr(s.Test, precLowest)
		}
		p.print(";")
		if s.Update != nil {
			p.space()
			p.expr(s.Update, precLowest)
		}
		p.print(")")
		p.space()
		p.block(s.Body)
	case *SForIn:
		p.print("for")
		p.space()
		p.print("(var " + s.Var + " in ")
		p.expr(s.Object, precLowest)
		p.print(")")
		p.space()
		p.block(s.Body)
	case *SWhile:
		p.print("while")
		p.space()
		p.print("(")
		p.expr(s.Test, precLowest)
		p.print(")")
		p.space()
		p.block(s.Body)
	case *SBreak:
		p.print("break;")
	case *SContinue:
		p.print("continue;")
	case *SDirective:
		p.print(quote(s.Value) + ";")
	}
}

func (p *printer) varDecls(s *SVar) {
	p.print("var")
	for i, d := range s.Decls {
		if i > 0 {
			p.print(",")
		}
		p.sb.WriteByte(' ')
		p.print(d.Name)
		if d.Value != nil {
			p.space()
			p.print("=")
			p.space()
			p.expr(d.Value, precAssign)
		}
	}
}

func (p *printer) ifStmt(s *SIf) {
	p.print("if")
	p.space()
	p.print("(")
	p.expr(s.Test, precLowest)
	p.print(")")
	p.space()
	p.block(s.Yes)
	if len(s.No) == 0 {
		return
	}
	p.space()
	p.print("else")
	if len(s.No) == 1 {
		if elif, ok := s.No[0].(*SIf); ok {
			p.sb.WriteByte(' ')
			p.ifStmt(elif)
			return
		}
	}
	p.space()
	p.block(s.No)
}

func (p *printer) function(fn *Function) {
	p.print("function")
	if fn.Name != "" {
		p.sb.WriteByte(' ')
		p.print(fn.Name)
	}
	p.print("(")
	for i, prm := range fn.Params {
		if i > 0 {
			p.print(",")
			p.space()
		}
		p.print(prm)
	}
	p.print(")")
	p.space()
	p.block(fn.Body)
}

// startsAmbiguous reports whether an expression statement would begin with
// a token the grammar reads as a declaration or block.
func startsAmbiguous(e Expr) bool {
	for {
		switch x := e.(type) {
		case *EFunction, *EObject:
			return true
		case *EDot:
			e = x.Target
		case *EIndex:
			e = x.Target
		case *ECall:
			if _, ok := x.Target.(*EFunction); ok {
				// printed as (function ...)(...)
				return false
			}
			e = x.Target
		case *EBinary:
			e = x.Left
		case *ECond:
			e = x.Test
		default:
			return false
		}
	}
}

func (p *printer) args(list []Expr) {
	p.print("(")
	for i, a := range list {
		if i > 0 {
			p.print(",")
			p.space()
		}
		p.expr(a, precAssign)
	}
	p.print(")")
}

func (p *printer) expr(e Expr, level int) {
	switch e := e.(type) {
	case nil:
		p.print("undefined")
	case *EIdentifier:
		p.print(e.Name)
	case *ETypeRef:
		// Unlinked reference; only seen when printing before the linker ran.
		p.print("$Type" + strconv.FormatUint(uint64(e.Type), 10))
	case *ERuntime:
		p.print("ss." + e.Member)
	case *EDot:
		p.expr(e.Target, precMember)
		if n, ok := e.Target.(*ENumber); ok && n.Value >= 0 && !strings.ContainsAny(formatNumber(n.Value), ".eIN") {
			p.print(".")
		}
		p.print("." + e.Name)
	case *EIndex:
		p.expr(e.Target, precMember)
		p.print("[")
		p.expr(e.Index, precLowest)
		p.print("]")
	case *ECall:
		if _, ok := e.Target.(*EFunction); ok {
			p.print("(")
			p.expr(e.Target, precLowest)
			p.print(")")
		} else {
			p.expr(e.Target, precMember)
		}
		p.args(e.Args)
	case *ENew:
		wrap := level > precNew
		if wrap {
			p.print("(")
		}
		p.print("new ")
		if hasCall(e.Target) {
			p.print("(")
			p.expr(e.Target, precLowest)
			p.print(")")
		} else {
			p.expr(e.Target, precMember)
		}
		p.args(e.Args)
		if wrap {
			p.print(")")
		}
	case *EFunction:
		p.function(e.Fn)
	case *EString:
		p.print(quote(e.Value))
	case *ENumber:
		s := formatNumber(e.Value)
		if s[0] == '-' && level >= precPrefix {
			p.print("(" + s + ")")
		} else {
			p.print(s)
		}
	case *EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}
	case *ENull:
		p.print("null")
	case *EUndefined:
		p.print("undefined")
	case *EThis:
		p.print("this")
	case *EArray:
		p.print("[")
		for i, it := range e.Items {
			if i > 0 {
				p.print(",")
				p.space()
			}
			p.expr(it, precAssign)
		}
		p.print("]")
	case *EObject:
		p.object(e)
	case *EBinary:
		prec, ok := binaryPrec[e.Op]
		if !ok {
			prec = precAssign
		}
		wrap := level > prec
		if wrap {
			p.print("(")
		}
		left, right := prec, prec+1
		if prec == precAssign {
			// right-associative
			left, right = prec+1, prec
		}
		p.expr(e.Left, left)
		if e.Op == "," {
			p.print(",")
			p.space()
		} else if isWordByte(e.Op[0]) {
			p.print(" " + e.Op + " ")
		} else {
			p.space()
			p.print(e.Op)
			p.space()
		}
		p.expr(e.Right, right)
		if wrap {
			p.print(")")
		}
	case *EUnary:
		wrap := level > precPrefix
		if wrap {
			p.print("(")
		}
		p.print(e.Op)
		if isWordByte(e.Op[0]) {
			p.sb.WriteByte(' ')
		}
		p.expr(e.Value, precPrefix)
		if wrap {
			p.print(")")
		}
	case *ECond:
		wrap := level > precCond
		if wrap {
			p.print("(")
		}
		p.expr(e.Test, precCond+1)
		p.space()
		p.print("?")
		p.space()
		p.expr(e.Yes, precAssign)
		p.space()
		p.print(":")
		p.space()
		p.expr(e.No, precAssign)
		if wrap {
			p.print(")")
		}
	}
}

func (p *printer) object(e *EObject) {
	if len(e.Props) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	for i, prop := range e.Props {
		if i > 0 {
			p.print(",")
		}
		p.space()
		if jsname.IsValidIdentifier(prop.Key) {
			p.print(prop.Key)
		} else {
			p.print(quote(prop.Key))
		}
		p.print(":")
		p.space()
		p.expr(prop.Value, precAssign)
	}
	p.space()
	p.print("}")
}

func hasCall(e Expr) bool {
	for {
		switch x := e.(type) {
		case *ECall:
			return true
		case *EDot:
			e = x.Target
		case *EIndex:
			e = x.Target
		default:
			return false
		}
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// quote renders s as a single-quoted string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			b.WriteString(`\u` + strconv.FormatInt(int64(r), 16))
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\x`)
				h := strconv.FormatInt(int64(r), 16)
				if len(h) < 2 {
					b.WriteByte('0')
				}
				b.WriteString(h)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
